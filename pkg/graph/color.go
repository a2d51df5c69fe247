package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB color.
type Color uint32

// RandomColor picks a color with a random hue at full saturation and
// medium lightness.
func RandomColor(rng *rand.Rand) Color {
	return FromHSL(rng.Float64(), 1, 0.5)
}

// FromHSL converts hue, saturation and lightness in [0,1] to RGB.
func FromHSL(h, s, l float64) Color {
	h = h - math.Floor(h)
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch int(h * 6) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(v float64) uint32 { return uint32(math.Round((v + m) * 255)) }
	return Color(to8(r)<<16 | to8(g)<<8 | to8(b))
}

// ParseColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(s) != 6 {
		return 0, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(v), nil
}

// RGB returns the channels scaled to [0,1].
func (c Color) RGB() (r, g, b float64) {
	return float64(c>>16&0xff) / 255, float64(c>>8&0xff) / 255, float64(c&0xff) / 255
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string { return fmt.Sprintf("#%06x", uint32(c)&0xffffff) }

func (c Color) String() string { return c.Hex() }

func (c Color) MarshalJSON() ([]byte, error) { return json.Marshal(c.Hex()) }

// UnmarshalJSON accepts either a hex string or a 0xRRGGBB number.
func (c *Color) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 || n > 0xffffff || n != math.Trunc(n) {
			return fmt.Errorf("color %v out of range", n)
		}
		*c = Color(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color must be a number or hex string: %w", err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
