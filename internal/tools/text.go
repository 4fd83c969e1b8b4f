package tools

import "github.com/example/vodmark/internal/canvas"

const (
	DefaultFontSize   = 48.0
	DefaultFontFamily = "Go"
	DefaultText       = "Made with vodmark"
)

// Text alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Text places and edits textboxes. A click on an existing textbox selects it
// for editing, a click anywhere else creates a new one.
type Text struct {
	Base
	fontSize   float64
	fontFamily string
	bold       bool
	italic     bool
	underline  bool
	align      string
	text       string

	active *canvas.Object
}

func NewText() *Text {
	t := &Text{
		Base:       newBase(),
		fontSize:   DefaultFontSize,
		fontFamily: DefaultFontFamily,
		align:      AlignLeft,
		text:       DefaultText,
	}
	t.refresh = t.RefreshSettings
	return t
}

func (t *Text) Name() string { return "text" }

// Editing returns the textbox currently being edited.
func (t *Text) Editing() *canvas.Object { return t.editing() }

// editing forgets the textbox once it is no longer on the canvas.
func (t *Text) editing() *canvas.Object {
	if t.active == nil {
		return nil
	}
	if c := t.canvas(); c == nil || !c.Contains(t.active) {
		t.active = nil
	}
	return t.active
}

func (t *Text) OnActive(ctx *Context) {
	t.bind(ctx, t)
	t.setTextSelectable(true)
}

func (t *Text) OnInactive() {
	t.setTextSelectable(false)
	if c := t.canvas(); c != nil && t.active != nil {
		c.DiscardActiveObject()
	}
	t.active = nil
	t.unbind()
}

func (t *Text) setTextSelectable(on bool) {
	c := t.canvas()
	if c == nil {
		return
	}
	for _, o := range c.Objects() {
		if o.Type == canvas.KindTextbox {
			o.Selectable = on
		}
	}
}

func (t *Text) OnMouseUp(e canvas.Event) {
	c := t.canvas()
	if c == nil {
		return
	}
	if e.Target != nil && e.Target.Type == canvas.KindTextbox {
		t.active = e.Target
		c.SetActiveObject(e.Target)
		return
	}
	o := canvas.NewObject(canvas.KindTextbox, e.Pointer)
	o.Selectable = true
	o.Text = t.text
	t.apply(o)
	t.active = o
	c.Add(o)
	c.SetActiveObject(o)
	c.RequestRender()
}

func (t *Text) apply(o *canvas.Object) {
	o.Fill = t.style.Text
	o.FontFamily = t.fontFamily
	o.FontSize = t.fontSize
	o.FontWeight = canvas.FontWeightNormal
	if t.bold {
		o.FontWeight = canvas.FontWeightBold
	}
	o.FontStyle = "normal"
	if t.italic {
		o.FontStyle = "italic"
	}
	o.Underline = t.underline
	o.TextAlign = t.align
	o.FitText()
}

// SetText replaces the text of the textbox being edited and records it.
func (t *Text) SetText(s string) {
	c := t.canvas()
	if c == nil || t.editing() == nil {
		return
	}
	t.active.SetText(s)
	c.Modified(t.active)
	c.RequestRender()
}

// SetDefaultText changes what new textboxes start with.
func (t *Text) SetDefaultText(s string) { t.text = s }

func (t *Text) FontSize() float64 { return t.fontSize }

func (t *Text) SetFontSize(v float64) {
	if v <= 0 {
		return
	}
	t.fontSize = v
	t.RefreshSettings()
}

func (t *Text) SetFontFamily(f string) {
	if f == "" {
		return
	}
	t.fontFamily = f
	t.RefreshSettings()
}

func (t *Text) SetBold(on bool) {
	t.bold = on
	t.RefreshSettings()
}

func (t *Text) SetItalic(on bool) {
	t.italic = on
	t.RefreshSettings()
}

func (t *Text) SetUnderline(on bool) {
	t.underline = on
	t.RefreshSettings()
}

// SetAlign accepts left, center or right.
func (t *Text) SetAlign(a string) {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		t.align = a
		t.RefreshSettings()
	}
}

func (t *Text) RefreshSettings() {
	if t.editing() == nil {
		return
	}
	t.apply(t.active)
	if c := t.canvas(); c != nil {
		c.RequestRender()
	}
}
