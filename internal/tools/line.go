package tools

import "github.com/example/vodmark/internal/canvas"

// DefaultLineWidth is the stroke width of lines and brush strokes.
const DefaultLineWidth = 8.0

// Line draws a straight segment in the fill colour.
type Line struct {
	Base
	width  float64
	active *canvas.Object
}

func NewLine() *Line {
	l := &Line{Base: newBase(), width: DefaultLineWidth}
	l.refresh = l.RefreshSettings
	return l
}

func (l *Line) Name() string { return "line" }

func (l *Line) Width() float64 { return l.width }

func (l *Line) SetWidth(w float64) {
	if w <= 0 {
		return
	}
	l.width = w
	l.RefreshSettings()
}

func (l *Line) OnActive(ctx *Context) { l.bind(ctx, l) }

func (l *Line) OnInactive() {
	l.finish()
	l.unbind()
}

func (l *Line) apply(o *canvas.Object) {
	o.Fill = l.style.Fill
	o.Stroke = l.style.Fill
	o.StrokeWidth = l.width
}

func (l *Line) OnMouseDown(e canvas.Event) {
	if l.canvas() == nil {
		return
	}
	l.finish()
	p := e.Pointer
	o := canvas.NewObject(canvas.KindLine, p)
	o.SetEndpoints(p.X, p.Y, p.X, p.Y)
	l.apply(o)
	l.active = o
	l.addQuietly(o)
}

func (l *Line) OnMouseMove(e canvas.Event) {
	o := l.active
	if o == nil {
		return
	}
	o.SetEndpoints(o.X1, o.Y1, e.Pointer.X, e.Pointer.Y)
	l.canvas().RequestRender()
}

func (l *Line) OnMouseUp(canvas.Event) { l.finish() }

func (l *Line) finish() {
	o := l.active
	if o == nil {
		return
	}
	l.active = nil
	if o.X1 == o.X2 && o.Y1 == o.Y2 {
		l.removeQuietly(o)
		return
	}
	l.commit()
	l.canvas().RequestRender()
}

func (l *Line) RefreshSettings() {
	if l.active == nil {
		return
	}
	l.apply(l.active)
	if c := l.canvas(); c != nil {
		c.RequestRender()
	}
}
