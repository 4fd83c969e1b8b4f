package tools

import (
	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/style"
)

// Blur drags out a rectangle that marks a region of the backdrop to blur.
// The rectangle carries a white guide outline while it is dragged and is
// invisible once placed.
type Blur struct {
	*Shape
	amount float64
}

func NewBlur() *Blur {
	b := &Blur{Shape: newShape(canvas.KindRect), amount: blur.DefaultAmount}
	b.props = blurProps
	return b
}

func blurProps(o *canvas.Object) {
	o.Fill = style.Transparent
	o.Stroke = style.White
	o.StrokeWidth = 2
	o.LockRotation = true
}

func (b *Blur) Name() string { return "blur" }

func (b *Blur) Amount() float64 { return b.amount }

// SetBlurAmount sets the radius used for regions drawn from now on.
func (b *Blur) SetBlurAmount(v float64) {
	if v < 0 {
		v = 0
	}
	b.amount = v
}

func (b *Blur) OnActive(ctx *Context) { b.bind(ctx, b) }

func (b *Blur) OnInactive() {
	b.finish()
	b.unbind()
}

func (b *Blur) sync() *blur.Synchronizer {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Blur
}

func (b *Blur) OnMouseDown(e canvas.Event) {
	b.finish()
	b.Shape.OnMouseDown(e)
	if s := b.sync(); s != nil && b.active != nil {
		s.AddObjectForBlur(b.active, b.amount)
	}
}

func (b *Blur) OnMouseMove(e canvas.Event) {
	b.Shape.OnMouseMove(e)
	if s := b.sync(); s != nil && b.active != nil {
		s.ResyncCanvasObject(b.active)
	}
}

func (b *Blur) OnMouseUp(canvas.Event) { b.finish() }

func (b *Blur) finish() {
	o := b.active
	if o == nil {
		return
	}
	o.Stroke = style.Transparent
	o.StrokeWidth = 0
	s := b.sync()
	if s != nil {
		s.ResyncCanvasObject(o)
	}
	if b.Shape.finish() == nil && s != nil {
		s.Remove(o.BlurID)
	}
}
