package models

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Background & Colors
// ============================================================

const (
	DefaultBackground = "#faf8f5"
	DarkTextColor     = "#2d2a26"
	LightTextColor    = "#ffffff"

	// darkLuminance is where black and white text have equal contrast;
	// backgrounds at or below it take light text.
	darkLuminance = 0.179
)

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	_, ok := parseHex(s)
	return ok
}

// TextColorFor picks the default text color for a new text item so it stays
// readable on the given background.
func TextColorFor(background string) string {
	rgb, ok := parseHex(background)
	if !ok {
		return DarkTextColor
	}
	if luminance(rgb) <= darkLuminance {
		return LightTextColor
	}
	return DarkTextColor
}

// RGB returns the 8-bit channels of a hex color.
func RGB(s string) (r, g, b uint8, ok bool) {
	rgb, ok := parseHex(s)
	if !ok {
		return 0, 0, 0, false
	}
	return rgb[0], rgb[1], rgb[2], true
}

func parseHex(s string) ([3]uint8, bool) {
	var out [3]uint8
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return out, false
	}
	s = s[1:]
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return out, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return out, false
	}
	out[0] = uint8(v >> 16)
	out[1] = uint8(v >> 8)
	out[2] = uint8(v)
	return out, true
}

// luminance is the WCAG relative luminance in [0,1].
func luminance(rgb [3]uint8) float64 {
	channel := func(c uint8) float64 {
		v := float64(c) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(rgb[0]) + 0.7152*channel(rgb[1]) + 0.0722*channel(rgb[2])
}
