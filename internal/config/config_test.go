package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/vodmark/internal/drawing"
	"github.com/example/vodmark/internal/style"
	"github.com/example/vodmark/internal/tools"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/marks
history_limit = 50

[canvas]
backing_height = 720
blur_amount = 12
brush_width: 4
font_size = 32
default_text = "GG: well played"
fill = red
outline = rgba(0, 0, 255, 0.5)

[notify]
save = true
copy = false
export = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Theme != "my_custom_theme" || cfg.SaveDir != "/tmp/marks" || cfg.HistoryLimit != 50 {
		t.Fatalf("root = %q %q %d", cfg.Theme, cfg.SaveDir, cfg.HistoryLimit)
	}
	cv := cfg.Canvas
	if cv.BackingHeight != 720 || cv.BlurAmount != 12 || cv.BrushWidth != 4 || cv.FontSize != 32 {
		t.Fatalf("canvas numbers %+v", cv)
	}
	if cv.LineWidth != tools.DefaultLineWidth {
		t.Fatalf("line width default lost: %v", cv.LineWidth)
	}
	if cv.DefaultText != "GG: well played" {
		t.Fatalf("default text %q", cv.DefaultText)
	}
	if cv.Fill != style.RGB(255, 0, 0) || cv.Outline.A != 0.5 || cv.Text != style.White {
		t.Fatalf("colours %v %v %v", cv.Fill, cv.Outline, cv.Text)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy || !cfg.Notify.Export {
		t.Fatalf("notify %+v", cfg.Notify)
	}
	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background != style.RGB(0x11, 0x11, 0x11) {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"history_limit = lots",
		"[canvas]\nbacking_height = 0",
		"[canvas]\nfill = blurple",
		"[canvas]\nfont_size = -3",
		"[notify]\nsave = sometimes",
		"[theme.x]\nBackground: #1",
	}
	for _, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/marks
history_limit = 10

[canvas]
blur_amount = 3.5
default_text = "say \"hi\""
outline = #00FF0080

[notify]
save = true
copy = false
export = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, cfg.String())
	}
	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.HistoryLimit != cfg2.HistoryLimit {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Canvas.BlurAmount != cfg2.Canvas.BlurAmount || cfg.Canvas.DefaultText != cfg2.Canvas.DefaultText {
		t.Errorf("canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg2.Canvas.DefaultText != `say "hi"` {
		t.Errorf("default text %q", cfg2.Canvas.DefaultText)
	}
	if cfg.Canvas.Outline.Hex() != cfg2.Canvas.Outline.Hex() {
		t.Errorf("outline %v vs %v", cfg.Canvas.Outline, cfg2.Canvas.Outline)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	t1, t2 := cfg.Themes["custom"], cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.Background != t2.Background || t1.Foreground != t2.Foreground {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestApplyToControllerAndToolbox(t *testing.T) {
	cfg := New()
	cfg.Canvas.BackingHeight = 720
	cfg.Canvas.Fill = style.Black
	cfg.Canvas.LineWidth = 3
	cfg.Canvas.BlurAmount = 2
	ctl, err := drawing.New(cfg.ControllerOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := ctl.BackingSize(); w != 1280 || h != 720 {
		t.Fatalf("backing = %vx%v", w, h)
	}
	if ctl.Style().Fill != style.Black {
		t.Fatalf("style fill %v", ctl.Style().Fill)
	}
	tb := tools.NewToolbox()
	cfg.ConfigureToolbox(tb)
	if tb.Line.Width() != 3 || tb.Blur.Amount() != 2 {
		t.Fatalf("toolbox line=%v blur=%v", tb.Line.Width(), tb.Blur.Amount())
	}

	cfg.HistoryLimit = 2
	limited, err := drawing.New(cfg.ControllerOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		limited.Clear()
	}
	if n := limited.History().Len(); n != 2 {
		t.Fatalf("history limit not applied: %d entries", n)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(EnvTheme, "")

	override := filepath.Join(dir, "override.rc")
	if err := os.WriteFile(override, []byte("theme = over\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("1.0", override).Load()
	if err != nil || cfg.Theme != "over" {
		t.Fatalf("override: %+v %v", cfg, err)
	}

	cfg, err = NewLoader("1.0", filepath.Join(dir, "missing.rc")).Load()
	if err != nil || cfg.Theme != "" {
		t.Fatalf("defaults: %+v %v", cfg, err)
	}

	saved := New()
	saved.Theme = "home"
	if err := Save(saved, DefaultPath()); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewLoader("1.0", "").Load()
	if err != nil || cfg.Theme != "home" {
		t.Fatalf("home: %+v %v", cfg, err)
	}

	t.Setenv(EnvTheme, "env")
	cfg, err = NewLoader("1.0", "").Load()
	if err != nil || cfg.Theme != "env" {
		t.Fatalf("env: %+v %v", cfg, err)
	}
}
