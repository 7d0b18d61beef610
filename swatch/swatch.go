// Package swatch renders the color-role preview image: every label drawn in
// its own color on a dark canvas matching the Discord theme.
package swatch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"maps"
	"math"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"zola-bot/colors"
)

// The glyph scale approximates Discord's rendered role-name metrics; the
// width constant only sizes the canvas, faces are loaded at the height scale.
const (
	fontWidth       = 26.8
	fontHeight      = 31.0
	verticalPadding = 15.0
)

var ErrNothingToRender = errors.New("swatch: no color roles to render")

// matches Discord's dark theme background
var background = color.RGBA{R: 54, G: 57, B: 63, A: 255}

// Render draws one row per entry, labels sorted, left-aligned at x=0, each in
// its own color, and returns the encoded PNG. The first row is offset by the
// full vertical padding and later rows by half of it; the asymmetry is part
// of the established look and is kept on purpose.
func Render(entries map[string]int) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNothingToRender
	}

	width := int(math.Ceil(fontWidth * colors.MaxLabelWidth))
	height := int(math.Ceil((fontHeight + verticalPadding) * float64(len(entries))))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face, err := newFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()
	ascent := face.Metrics().Ascent

	for i, label := range slices.Sorted(maps.Keys(entries)) {
		padding := verticalPadding
		if i > 0 {
			padding /= 2
		}
		y := int(math.Ceil(float64(i) * (fontHeight + padding)))
		rgb := entries[label]
		drawer := font.Drawer{
			Dst: img,
			Src: image.NewUniform(color.RGBA{
				R: uint8(rgb >> 16),
				G: uint8(rgb >> 8),
				B: uint8(rgb),
				A: 255,
			}),
			Face: face,
			Dot:  fixed.Point26_6{X: 0, Y: fixed.I(y) + ascent},
		}
		drawer.DrawString(label)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("swatch: failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

func newFace() (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("swatch: failed to parse bundled font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontHeight,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("swatch: failed to load font face: %w", err)
	}
	return face, nil
}
