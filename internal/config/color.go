package config

import (
	"fmt"
	"image/color"
	"strconv"
)

// ParseHex parses a #rrggbb color.
func ParseHex(s string) (color.NRGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// WithOpacity parses s and scales its alpha. Bad input falls back to black.
func WithOpacity(s string, opacity float64) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		c = color.NRGBA{A: 0xff}
	}
	if opacity > 0 && opacity < 1 {
		c.A = uint8(opacity*255 + 0.5)
	}
	return c
}
