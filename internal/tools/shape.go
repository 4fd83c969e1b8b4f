package tools

import (
	"math"

	"github.com/example/vodmark/internal/canvas"
)

// Shape drags out a rectangle, circle, ellipse or triangle. The shape is
// placed quietly on mouse-down, follows the pointer and is committed to the
// history once on mouse-up. A click without any drag leaves nothing behind.
type Shape struct {
	Base
	kind   canvas.Kind
	active *canvas.Object
	props  func(*canvas.Object)
}

func newShape(kind canvas.Kind) *Shape {
	s := &Shape{Base: newBase(), kind: kind}
	s.props = s.applyStyle
	s.refresh = s.RefreshSettings
	return s
}

func NewRect() *Shape     { return newShape(canvas.KindRect) }
func NewCircle() *Shape   { return newShape(canvas.KindCircle) }
func NewEllipse() *Shape  { return newShape(canvas.KindEllipse) }
func NewTriangle() *Shape { return newShape(canvas.KindTriangle) }

func (s *Shape) Name() string { return string(s.kind) }

// Kind is the primitive the tool draws.
func (s *Shape) Kind() canvas.Kind { return s.kind }

// InProgress returns the shape being dragged, if any.
func (s *Shape) InProgress() *canvas.Object { return s.active }

func (s *Shape) OnActive(ctx *Context) { s.bind(ctx, s) }

// OnInactive finishes a drag still in progress before unbinding.
func (s *Shape) OnInactive() {
	s.finish()
	s.unbind()
}

func (s *Shape) applyStyle(o *canvas.Object) {
	o.Fill = s.style.Fill
	o.Stroke = s.style.Outline
	o.StrokeWidth = s.style.BorderWidth
}

func (s *Shape) OnMouseDown(e canvas.Event) {
	if s.canvas() == nil {
		return
	}
	s.finish()
	o := canvas.NewObject(s.kind, e.Pointer)
	s.props(o)
	s.active = o
	s.addQuietly(o)
}

func (s *Shape) OnMouseMove(e canvas.Event) {
	o := s.active
	if o == nil {
		return
	}
	dx := e.Pointer.X - o.Left
	dy := e.Pointer.Y - o.Top
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch s.kind {
	case canvas.KindCircle:
		o.SetCircleRadius(math.Max(adx, ady) / 2)
	case canvas.KindEllipse:
		o.SetEllipseRadii(adx/2, ady/2)
	default:
		o.Width, o.Height = adx, ady
	}
	if dx > 0 {
		o.OriginX = canvas.OriginLeft
	} else {
		o.OriginX = canvas.OriginRight
	}
	if dy > 0 {
		o.OriginY = canvas.OriginTop
	} else {
		o.OriginY = canvas.OriginBottom
	}
	s.canvas().RequestRender()
}

func (s *Shape) OnMouseUp(canvas.Event) { s.finish() }

// finish ends the current drag and reports the committed object, or nil
// when nothing was drawn.
func (s *Shape) finish() *canvas.Object {
	o := s.active
	if o == nil {
		return nil
	}
	s.active = nil
	if o.Width == 0 && o.Height == 0 {
		s.removeQuietly(o)
		return nil
	}
	s.commit()
	if c := s.canvas(); c != nil {
		c.RequestRender()
	}
	return o
}

func (s *Shape) RefreshSettings() {
	if s.active == nil {
		return
	}
	s.props(s.active)
	if c := s.canvas(); c != nil {
		c.RequestRender()
	}
}
