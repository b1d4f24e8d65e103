// Package qr renders profile card QR codes as base64 PNG data URLs.
package qr

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
)

// DefaultSize is the rendered image size in pixels.
const DefaultSize = 256

// dataURLPrefix is the scheme browsers expect for inline PNG images.
const dataURLPrefix = "data:image/png;base64,"

// Encoder renders QR codes for profile cards.
type Encoder struct {
	size int
}

// NewEncoder creates an Encoder. A non-positive size falls back to DefaultSize.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{size: size}
}

// Encode renders content as a black-on-white QR code data URL.
func (e *Encoder) Encode(content string) (string, error) {
	return e.EncodeColored(content, "")
}

// EncodeColored renders content with the given foreground hex color,
// e.g. "#b45509". An empty or malformed color falls back to black.
func (e *Encoder) EncodeColored(content string, foregroundHex string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("%w: content cannot be empty", shared.ErrQREncoding)
	}

	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("%w: failed to build code: %v", shared.ErrQREncoding, err)
	}

	if fg, ok := parseHexColor(foregroundHex); ok {
		code.ForegroundColor = fg
	}

	png, err := code.PNG(e.size)
	if err != nil {
		return "", fmt.Errorf("%w: failed to render png: %v", shared.ErrQREncoding, err)
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// parseHexColor parses "#rrggbb" into an opaque RGBA color.
func parseHexColor(s string) (color.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return nil, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, true
}
