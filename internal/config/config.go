package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/drawing"
	"github.com/example/vodmark/internal/style"
	"github.com/example/vodmark/internal/theme"
	"github.com/example/vodmark/internal/tools"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Export bool
}

// Canvas holds the starting settings of the drawing surface and its tools.
type Canvas struct {
	BackingHeight int
	BlurAmount    float64
	BrushWidth    float64
	LineWidth     float64
	BorderWidth   float64
	FontFamily    string
	FontSize      float64
	DefaultText   string
	Fill          style.Color
	Outline       style.Color
	Text          style.Color
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	SaveDir      string
	HistoryLimit int // 0 keeps every entry
	Canvas       Canvas
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	def := style.Default()
	return &Config{
		Canvas: Canvas{
			BackingHeight: drawing.DefaultBackingHeight,
			BlurAmount:    blur.DefaultAmount,
			BrushWidth:    tools.DefaultLineWidth,
			LineWidth:     tools.DefaultLineWidth,
			BorderWidth:   def.BorderWidth,
			FontFamily:    tools.DefaultFontFamily,
			FontSize:      tools.DefaultFontSize,
			DefaultText:   tools.DefaultText,
			Fill:          def.Fill,
			Outline:       def.Outline,
			Text:          def.Text,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// Style returns the configured starting colours and border width.
func (c *Config) Style() style.Style {
	return style.Style{
		Fill:        c.Canvas.Fill,
		Outline:     c.Canvas.Outline,
		Text:        c.Canvas.Text,
		BorderWidth: c.Canvas.BorderWidth,
	}
}

// ControllerOptions translates the config into drawing controller options.
func (c *Config) ControllerOptions() []drawing.Option {
	opts := []drawing.Option{drawing.WithStyle(c.Style())}
	if c.Canvas.BackingHeight > 0 {
		opts = append(opts, drawing.WithBackingHeight(c.Canvas.BackingHeight))
	}
	if c.HistoryLimit > 0 {
		opts = append(opts, drawing.WithHistoryLimit(c.HistoryLimit))
	}
	return opts
}

// ConfigureToolbox applies the per tool settings.
func (c *Config) ConfigureToolbox(tb *tools.Toolbox) {
	tb.Brush.SetWidth(c.Canvas.BrushWidth)
	tb.Line.SetWidth(c.Canvas.LineWidth)
	tb.Blur.SetBlurAmount(c.Canvas.BlurAmount)
	tb.Text.SetFontFamily(c.Canvas.FontFamily)
	tb.Text.SetFontSize(c.Canvas.FontSize)
	tb.Text.SetDefaultText(c.Canvas.DefaultText)
}

// ThemeLoader returns a theme loader that also knows the config's themes.
func (c *Config) ThemeLoader() *theme.Loader {
	l := theme.NewLoader()
	l.Custom = c.Themes
	return l
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.HistoryLimit > 0 {
		fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	}
	sb.WriteString("\n")

	cv := c.Canvas
	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "backing_height = %d\n", cv.BackingHeight)
	fmt.Fprintf(&sb, "blur_amount = %s\n", num(cv.BlurAmount))
	fmt.Fprintf(&sb, "brush_width = %s\n", num(cv.BrushWidth))
	fmt.Fprintf(&sb, "line_width = %s\n", num(cv.LineWidth))
	fmt.Fprintf(&sb, "border_width = %s\n", num(cv.BorderWidth))
	fmt.Fprintf(&sb, "font_family = %s\n", cv.FontFamily)
	fmt.Fprintf(&sb, "font_size = %s\n", num(cv.FontSize))
	fmt.Fprintf(&sb, "default_text = %q\n", cv.DefaultText)
	fmt.Fprintf(&sb, "fill = %s\n", cv.Fill.Hex())
	fmt.Fprintf(&sb, "outline = %s\n", cv.Outline.Hex())
	fmt.Fprintf(&sb, "text = %s\n", cv.Text.Hex())
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	sb.WriteString("\n")

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
