package internal

import "github.com/disgoorg/snowflake/v2"

type Config struct {
	DevlogChannelID snowflake.ID
	UploadsDir      string
	MemeDir         string
	MemeKeyword     string

	// learned from the application info at startup
	BotID   snowflake.ID
	OwnerID snowflake.ID
}
