package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// WCAG 2.1 contrast minimums (success criteria 1.4.3 and 1.4.6).
const (
	contrastMinAA  = 4.5
	contrastMinAAA = 7.0
)

// cssNamedColors covers the named colors that actually appear in inline
// styles in the wild. Unknown names simply yield no sample.
var cssNamedColors = map[string][3]uint8{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"silver":  {192, 192, 192},
	"orange":  {255, 165, 0},
	"purple":  {128, 0, 128},
	"navy":    {0, 0, 128},
	"teal":    {0, 128, 128},
	"maroon":  {128, 0, 0},
	"olive":   {128, 128, 0},
	"lime":    {0, 255, 0},
	"aqua":    {0, 255, 255},
	"cyan":    {0, 255, 255},
	"fuchsia": {255, 0, 255},
	"magenta": {255, 0, 255},
}

// ContrastRatio computes the WCAG contrast ratio between two CSS colors.
// The ratio is symmetric and ranges from 1 (identical) to 21
// (black on white). An error means a color could not be parsed.
func ContrastRatio(foreground, background string) (float64, error) {
	fg, err := parseCSSColor(foreground)
	if err != nil {
		return 0, err
	}
	bg, err := parseCSSColor(background)
	if err != nil {
		return 0, err
	}

	lf := relativeLuminance(fg)
	lb := relativeLuminance(bg)

	lighter := math.Max(lf, lb)
	darker := math.Min(lf, lb)
	return (lighter + 0.05) / (darker + 0.05), nil
}

// relativeLuminance implements the WCAG 2.1 definition: channels are
// linearized with the sRGB transfer curve, then weighted per ITU-R BT.709.
// The 0.04045 cutoff is the corrected sRGB value from the WCAG errata.
func relativeLuminance(rgb [3]uint8) float64 {
	linear := func(c uint8) float64 {
		v := float64(c) / 255.0
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(rgb[0]) + 0.7152*linear(rgb[1]) + 0.0722*linear(rgb[2])
}

// parseCSSColor parses #rgb, #rrggbb, rgb(r,g,b), rgba(r,g,b,a), and the
// common named colors.
func parseCSSColor(s string) ([3]uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if rgb, ok := cssNamedColors[s]; ok {
		return rgb, nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}

	return [3]uint8{}, fmt.Errorf("unparseable color %q", s)
}

func parseHexColor(hex string) ([3]uint8, error) {
	switch len(hex) {
	case 3:
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i])+string(hex[i]), 16, 8)
			if err != nil {
				return rgb, fmt.Errorf("invalid hex color #%s", hex)
			}
			rgb[i] = uint8(v)
		}
		return rgb, nil
	case 6:
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return rgb, fmt.Errorf("invalid hex color #%s", hex)
			}
			rgb[i] = uint8(v)
		}
		return rgb, nil
	default:
		return [3]uint8{}, fmt.Errorf("invalid hex color length #%s", hex)
	}
}

func parseRGBFunc(s string) ([3]uint8, error) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return [3]uint8{}, fmt.Errorf("invalid rgb() syntax %q", s)
	}

	parts := strings.Split(s[open+1:close], ",")
	if len(parts) < 3 {
		return [3]uint8{}, fmt.Errorf("rgb() needs three channels: %q", s)
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return rgb, fmt.Errorf("invalid rgb() channel %q", parts[i])
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}
