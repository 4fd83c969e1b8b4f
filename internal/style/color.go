package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an RGB colour with a fractional alpha channel. Its text form is
// the CSS functional notation "rgba(r, g, b, a)".
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	White       = Color{R: 255, G: 255, B: 255, A: 1}
	Black       = Color{A: 1}
	Transparent = Color{}
)

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1} }

// FromColor converts any image colour. Premultiplied channels are undone.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: float64(n.A) / 255}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA returns the non-premultiplied 8 bit form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha8(c.A)}
}

// IsTransparent reports whether the colour paints nothing.
func (c Color) IsTransparent() bool { return alpha8(c.A) == 0 }

func alpha8(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(math.Round(a * 255))
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex returns #RRGGBB or #RRGGBBAA when the colour is translucent.
func (c Color) Hex() string {
	a := alpha8(c.A)
	if a == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, a)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts rgb()/rgba() notation, #RGB, #RRGGBB, #RRGGBBAA, the
// keyword "transparent" and any SVG colour name.
func ParseColor(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return Color{}, fmt.Errorf("color cannot be empty")
	}
	if spec == "transparent" || spec == "none" {
		return Transparent, nil
	}
	if strings.HasPrefix(spec, "rgb") {
		return parseFunctional(spec)
	}
	if strings.HasPrefix(spec, "#") {
		return parseHex(spec)
	}
	if c, ok := colornames.Map[spec]; ok {
		return FromColor(c), nil
	}
	return Color{}, fmt.Errorf("invalid color %q", s)
}

func parseFunctional(spec string) (Color, error) {
	open := strings.IndexByte(spec, '(')
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return Color{}, fmt.Errorf("invalid color %q", spec)
	}
	name := spec[:open]
	parts := strings.Split(spec[open+1:len(spec)-1], ",")
	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return Color{}, fmt.Errorf("invalid color %q", spec)
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("invalid color %q: want %d components", spec, want)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return Color{}, fmt.Errorf("invalid color %q", spec)
		}
		ch[i] = uint8(math.Round(v))
	}
	a := 1.0
	if want == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || v < 0 || v > 1 {
			return Color{}, fmt.Errorf("invalid alpha in %q", spec)
		}
		a = v
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHex(spec string) (Color, error) {
	hex := spec[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex length in %q", spec)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", spec, err)
	}
	if len(hex) == 6 {
		return Color{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 1}, nil
	}
	return Color{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: float64(uint8(val)) / 255}, nil
}
