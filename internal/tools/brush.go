package tools

import "github.com/example/vodmark/internal/canvas"

// Brush switches the canvas into free drawing. Finished strokes are added by
// the canvas itself and recorded through the normal object:added path.
type Brush struct {
	Base
	width float64
}

func NewBrush() *Brush {
	b := &Brush{Base: newBase(), width: DefaultLineWidth}
	b.refresh = b.RefreshSettings
	return b
}

func (b *Brush) Name() string { return "brush" }

func (b *Brush) Width() float64 { return b.width }

func (b *Brush) SetWidth(w float64) {
	if w <= 0 {
		return
	}
	b.width = w
	b.RefreshSettings()
}

func (b *Brush) OnActive(ctx *Context) {
	b.bind(ctx, b)
	if c := b.canvas(); c != nil {
		c.SetDrawingMode(true)
		b.RefreshSettings()
	}
}

func (b *Brush) OnInactive() {
	if c := b.canvas(); c != nil {
		c.SetDrawingMode(false)
	}
	b.unbind()
}

func (b *Brush) RefreshSettings() {
	c := b.canvas()
	if c == nil {
		return
	}
	c.FreeDrawingBrush = canvas.Brush{Width: b.width, Color: b.style.Fill}
	if s := c.PendingStroke(); s != nil {
		s.Stroke = b.style.Fill
		s.StrokeWidth = b.width
	}
}
