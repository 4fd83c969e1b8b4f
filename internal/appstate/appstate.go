package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/vodmark/internal/style"
	"github.com/example/vodmark/internal/theme"
)

const (
	titleHeight  = 24
	bottomHeight = 24
	buttonHeight = 22
	swatchSize   = 16
	widthRowSize = 16
)

var toolbarWidth = 72

// toolDef is one entry in the toolbar.
type toolDef struct {
	label string
	name  string // toolbox name
	key   rune
}

var toolDefs = []toolDef{
	{"B:Brush", "brush", 'b'},
	{"L:Line", "line", 'l'},
	{"R:Rect", "rect", 'r'},
	{"C:Circle", "circle", 'c'},
	{"E:Ellipse", "ellipse", 'e'},
	{"G:Tri", "triangle", 'g'},
	{"T:Text", "text", 't'},
	{"V:Select", "select", 'v'},
	{"U:Blur", "blur", 'u'},
}

var (
	messageOnce sync.Once
	messageFace font.Face
)

func loadMessageFace() font.Face {
	messageOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse font: %v", err)
			messageFace = basicfont.Face7x13
			return
		}
		messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("font face: %v", err)
			messageFace = basicfont.Face7x13
		}
	})
	return messageFace
}

// fitToolbar widens the toolbar so every label fits.
func fitToolbar() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	for _, t := range toolDefs {
		if w := d.MeasureString(t.label).Ceil() + 8; w > toolbarWidth {
			toolbarWidth = w
		}
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ToolButton selects a drawing tool.
type ToolButton struct {
	def      toolDef
	theme    *theme.Theme
	rect     image.Rectangle
	onSelect func(name string)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := tb.theme.ButtonBackground, tb.theme.ButtonText
	switch state {
	case StateHover:
		bg = tb.theme.ButtonBackgroundHover
	case StatePressed:
		bg, fg = tb.theme.ButtonActive, tb.theme.ButtonTextActive
	}
	fillRect(dst, tb.rect, bg)
	drawLabel(dst, tb.rect.Min.X+4, tb.rect.Min.Y+15, tb.def.label, fg)
}

func (tb *ToolButton) Rect() image.Rectangle     { return tb.rect }
func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.def.name)
	}
}

// Shortcut is a clickable hint in the bottom bar.
type Shortcut struct {
	label  string
	action string
	theme  *theme.Theme
	rect   image.Rectangle
	run    func(string)
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState) {
	bg := s.theme.ButtonBackground
	switch state {
	case StateHover:
		bg = s.theme.ButtonBackgroundHover
	case StatePressed:
		bg = s.theme.ButtonBackgroundPress
	}
	fillRect(dst, s.rect, bg)
	strokeRect(dst, s.rect, s.theme.ButtonBorder, 1)
	drawLabel(dst, s.rect.Min.X+2, s.rect.Min.Y+14, s.label, s.theme.ButtonText)
}

func (s *Shortcut) Rect() image.Rectangle     { return s.rect }
func (s *Shortcut) SetRect(r image.Rectangle) { s.rect = r }

func (s *Shortcut) Activate() {
	if s.run != nil {
		s.run(s.action)
	}
}

var shortcutBar = []struct{ label, action string }{
	{"^Z:undo", "undo"},
	{"^Y:redo", "redo"},
	{"Del:delete", "delete"},
	{"^L:clear", "clear"},
	{"^S:save", "save"},
	{"^C:copy", "copy"},
	{"^V:paste", "paste"},
	{"Q:quit", "quit"},
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color, thick int) {
	if r.Empty() {
		return
	}
	u := image.NewUniform(c)
	for _, e := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick),
		image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y),
		image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, e.Intersect(r), u, image.Point{}, draw.Over)
	}
}

func drawLabel(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

// drawCheckerboard fills rect with squares of the two colours.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark style.Color) {
	l, d := light.NRGBA(), dark.NRGBA()
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, l)
			} else {
				dst.Set(x, y, d)
			}
		}
	}
}
