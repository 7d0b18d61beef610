package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"

	"zola-bot/handlers"
	"zola-bot/internal"
)

func main() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:           os.Getenv("SENTRY_DSN"),
		EnableTracing: false,
	})
	if err != nil {
		panic(err)
	}

	defer sentry.Flush(2 * time.Second)

	logger := slog.New(slogmulti.Fanout(
		tint.NewHandler(os.Stdout, &tint.Options{
			Level: slog.LevelInfo,
		}),
		sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		}.NewSentryHandler(context.Background())))
	slog.SetDefault(logger)

	slog.Info("starting the bot...", slog.String("disgo.version", disgo.Version))

	auditWriter := &lumberjack.Logger{
		Filename:   "audit.log",
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     90, // days
	}
	defer auditWriter.Close()
	audit := slog.New(slog.NewTextHandler(auditWriter, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	token := os.Getenv("ZOLA_BOT_TOKEN")
	if token == "" {
		slog.Error("ZOLA_BOT_TOKEN is not set")
		os.Exit(1)
	}
	c := &internal.Config{
		DevlogChannelID: snowflake.GetEnv("ZOLA_DEVLOG_CHANNEL_ID"),
		UploadsDir:      envOr("ZOLA_UPLOADS_DIR", "uploads"),
		MemeDir:         envOr("ZOLA_MEME_DIR", "assets/memes"),
		MemeKeyword:     envOr("ZOLA_MEME_KEYWORD", "zola"),
	}
	if c.DevlogChannelID == 0 {
		slog.Error("ZOLA_DEVLOG_CHANNEL_ID is not set")
		os.Exit(1)
	}

	b := &internal.Bot{
		Config: c,
		Audit:  audit,
	}
	h := handlers.NewHandler(b)

	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages, gateway.IntentMessageContent),
			gateway.WithPresenceOpts(gateway.WithListeningActivity("!help"))),
		// command handlers fetch roles over REST on every invocation, so the
		// gateway cache stays off
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagsNone)),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnReady: func(ev *events.Ready) {
				slog.Info("zola is now online")
				b.Devlog("I am online.")
			},
			OnGuildMessageCreate: h.OnMessageCreate,
		}))
	if err != nil {
		panic(err)
	}

	defer client.Close(context.TODO())

	b.Client = client.Rest()

	app, err := client.Rest().GetBotApplicationInfo()
	if err != nil {
		slog.Error("failed to fetch application info", tint.Err(err))
		os.Exit(1)
	}
	c.BotID = app.ID
	if app.Owner != nil {
		c.OwnerID = app.Owner.ID
	}
	slog.Info("running as", slog.Any("application.id", c.BotID), slog.Any("owner.id", c.OwnerID))

	if err := client.OpenGateway(context.TODO()); err != nil {
		panic(err)
	}

	slog.Info("zola bot is now running.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	<-s
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
