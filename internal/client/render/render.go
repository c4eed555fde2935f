// Package render draws QR payloads, either as PNG images for the kiosk
// display or as half-block text for the terminal.
package render

import (
	"fmt"
	"image/color"

	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 200

// Palette is the module/background color pair of a rendered code.
type Palette struct {
	Foreground color.Color
	Background color.Color
}

var (
	Normal = Palette{Foreground: color.Black, Background: color.White}
	Dimmed = Palette{Foreground: color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}, Background: color.White}
)

// PaletteFor returns the dimmed palette for an expired code.
func PaletteFor(expired bool) Palette {
	if expired {
		return Dimmed
	}
	return Normal
}

// PaletteForToken picks the palette from the token's observable status.
func PaletteForToken(t qr.Token) Palette {
	return PaletteFor(t.Status() == qr.StatusExpired)
}

// PNG encodes payload as a size x size PNG in the given palette.
func PNG(payload string, p Palette, size int) ([]byte, error) {
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code.ForegroundColor = p.Foreground
	code.BackgroundColor = p.Background

	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return png, nil
}

// Terminal renders payload with unicode half blocks, two modules per line.
func Terminal(payload string) (string, error) {
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return code.ToSmallString(false), nil
}
