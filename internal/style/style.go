package style

// Style is the set of settings a host colour/width picker pushes into the
// active tool.
type Style struct {
	Fill        Color
	Outline     Color
	Text        Color
	BorderWidth float64
}

// Default returns white fill, outline and text with no border.
func Default() Style {
	return Style{Fill: White, Outline: White, Text: White}
}

// NamedColor pairs a palette entry with its display name.
type NamedColor struct {
	Name  string
	Color Color
}

var palette = []NamedColor{
	{"White", White},
	{"Black", Black},
	{"Red", RGB(255, 0, 0)},
	{"Orange", RGB(255, 165, 0)},
	{"Yellow", RGB(255, 255, 0)},
	{"Lime", RGB(0, 255, 0)},
	{"Cyan", RGB(0, 255, 255)},
	{"Blue", RGB(0, 0, 255)},
	{"Magenta", RGB(255, 0, 255)},
	{"Purple", RGB(128, 0, 128)},
	{"Gray", RGB(128, 128, 128)},
	{"Transparent", Transparent},
}

// Palette returns a copy of the built-in swatches.
func Palette() []NamedColor {
	out := make([]NamedColor, len(palette))
	copy(out, palette)
	return out
}

// BorderWidths lists the widths offered by the toolbar.
func BorderWidths() []float64 { return []float64{0, 2, 4, 8, 12} }
