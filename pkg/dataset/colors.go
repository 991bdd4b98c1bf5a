package dataset

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor converts a "#RGB" or "#RRGGBB" string to an opaque color.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint8

	switch len(hex) {
	case 3:
		val, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", "#"+hex, err)
		}
		// Expand each nibble: #abc -> #aabbcc
		r = uint8(val>>8) & 0xf
		g = uint8(val>>4) & 0xf
		b = uint8(val) & 0xf
		r, g, b = r<<4|r, g<<4|g, b<<4|b
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", "#"+hex, err)
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", "#"+hex)
	}

	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// HexDigits returns the bare hex digits of a color string, lowercased,
// for use in filenames ("#1A1A1A" -> "1a1a1a").
func HexDigits(hex string) string {
	return strings.ToLower(strings.TrimPrefix(hex, "#"))
}

// ParseColorList resolves a comma-separated list of hex colors, verifying
// each parses.
func ParseColorList(s string) ([]string, error) {
	var colors []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := ParseHexColor(part); err != nil {
			return nil, err
		}
		colors = append(colors, part)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("no background colors specified")
	}
	return colors, nil
}
