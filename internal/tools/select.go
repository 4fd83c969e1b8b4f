package tools

import (
	"math"

	"github.com/example/vodmark/internal/canvas"
)

// HandleSize is the side of the square at the bottom-right corner of a
// selected object that scales instead of moves.
const HandleSize = 16.0

type dragMode int

const (
	dragMove dragMode = iota
	dragScale
)

type drag struct {
	obj     *canvas.Object
	mode    dragMode
	start   canvas.Point
	last    canvas.Point
	box     canvas.Rect
	scaleX  float64
	scaleY  float64
	changed bool
}

// Select picks, moves and scales existing objects.
type Select struct {
	Base
	drag *drag
}

func NewSelect() *Select {
	s := &Select{Base: newBase()}
	return s
}

func (s *Select) Name() string { return "select" }

func (s *Select) OnActive(ctx *Context) {
	s.bind(ctx, s)
	s.setSelectable(true)
}

func (s *Select) OnInactive() {
	s.endDrag()
	if c := s.canvas(); c != nil {
		c.DiscardActiveObject()
	}
	s.setSelectable(false)
	s.unbind()
}

func (s *Select) setSelectable(on bool) {
	c := s.canvas()
	if c == nil {
		return
	}
	for _, o := range c.Objects() {
		o.Selectable = on
	}
}

func scalable(o *canvas.Object) bool {
	return o.Type != canvas.KindLine && o.Type != canvas.KindPath
}

func (s *Select) OnMouseDown(e canvas.Event) {
	c := s.canvas()
	if c == nil {
		return
	}
	s.endDrag()
	o := e.Target
	if o == nil {
		c.DiscardActiveObject()
		c.RequestRender()
		return
	}
	c.SetActiveObject(o)
	b := o.Bounds()
	d := &drag{obj: o, mode: dragMove, start: e.Pointer, last: e.Pointer, box: b, scaleX: o.ScaleX, scaleY: o.ScaleY}
	if d.scaleX == 0 {
		d.scaleX = 1
	}
	if d.scaleY == 0 {
		d.scaleY = 1
	}
	handle := canvas.Rect{X: b.X + b.W - HandleSize, Y: b.Y + b.H - HandleSize, W: 2 * HandleSize, H: 2 * HandleSize}
	if scalable(o) && b.W > 0 && b.H > 0 && handle.Contains(e.Pointer) {
		d.mode = dragScale
	}
	s.drag = d
	c.RequestRender()
}

func (s *Select) OnMouseMove(e canvas.Event) {
	d := s.drag
	c := s.canvas()
	if d == nil || c == nil {
		return
	}
	switch d.mode {
	case dragMove:
		dx, dy := e.Pointer.X-d.last.X, e.Pointer.Y-d.last.Y
		if dx == 0 && dy == 0 {
			return
		}
		d.obj.Translate(dx, dy)
		d.last = e.Pointer
		d.changed = true
		c.Moving(d.obj)
	case dragScale:
		w := math.Max(d.box.W+e.Pointer.X-d.start.X, 1)
		h := math.Max(d.box.H+e.Pointer.Y-d.start.Y, 1)
		d.obj.ScaleX = d.scaleX * w / d.box.W
		d.obj.ScaleY = d.scaleY * h / d.box.H
		anchorTopLeft(d.obj, d.box.X, d.box.Y)
		d.changed = true
		c.Scaling(d.obj)
	}
	c.RequestRender()
}

// anchorTopLeft moves o so its box starts at x, y whatever its origin.
func anchorTopLeft(o *canvas.Object, x, y float64) {
	b := o.Bounds()
	o.Left += x - b.X
	o.Top += y - b.Y
}

func (s *Select) OnMouseUp(canvas.Event) { s.endDrag() }

func (s *Select) endDrag() {
	d := s.drag
	s.drag = nil
	if d == nil || !d.changed {
		return
	}
	if c := s.canvas(); c != nil {
		c.Modified(d.obj)
		c.RequestRender()
	}
}
