// Package render paints flattened capture segments: as ANSI-coloured
// terminal text or as a PNG image.
package render

import (
	"fmt"
	"image/color"
	"math"
)

// DefaultHues 色环上的颜色数，组号按此循环
const DefaultHues = 12

// Palette maps a local group index to a colour. Colours cycle every Hues
// groups, so group 1 of every occurrence gets the same colour.
type Palette struct {
	Hues int
}

func (p Palette) hues() int {
	if p.Hues <= 0 {
		return DefaultHues
	}
	return p.Hues
}

// Hue returns the hue angle in radians for group.
func (p Palette) Hue(group int) float64 {
	n := p.hues()
	step := ((group+1)%n + n) % n
	return 2 * math.Pi * float64(step) / float64(n)
}

// Color returns the colour for group.
func (p Palette) Color(group int) color.RGBA {
	return HueToRGB(p.Hue(group))
}

// Hex returns the colour for group as #rrggbb.
func (p Palette) Hex(group int) string {
	c := p.Color(group)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HueToRGB converts a hue in radians to a saturated colour: each channel
// is cos(hue - k·2π/3) + 0.5 clamped to [0, 1].
func HueToRGB(hue float64) color.RGBA {
	var ch [3]uint8
	for k := range ch {
		v := math.Cos(hue-float64(k)*2*math.Pi/3) + 0.5
		v = math.Max(0, math.Min(1, v))
		ch[k] = uint8(math.Round(v * 255))
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
}

// ParseHex parses #rrggbb (the leading '#' is optional).
func ParseHex(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var r, g, b uint8
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
