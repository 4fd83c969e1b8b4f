package tools

import (
	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/style"
)

// Committer records finished edits in the undo history.
type Committer interface {
	// AppendDefaultHistory records the change since the last entry.
	AppendDefaultHistory()
	// WithoutAutoHistory runs fn with automatic recording suspended.
	WithoutAutoHistory(fn func())
}

// Context is what a tool works against while it is active.
type Context struct {
	Canvas  *canvas.Canvas
	Blur    *blur.Synchronizer
	History Committer
}

// Tool is a drawing tool. OnActive binds the pointer listeners it needs and
// OnInactive removes exactly those again.
type Tool interface {
	Name() string
	OnActive(ctx *Context)
	OnInactive()
	OnMouseDown(e canvas.Event)
	OnMouseMove(e canvas.Event)
	OnMouseUp(e canvas.Event)
	RefreshSettings()

	Style() style.Style
	SetStyle(st style.Style)
	SetFillColor(c style.Color)
	SetOutlineColor(c style.Color)
	SetTextColor(c style.Color)
	SetBorderWidth(w float64)
}

// Base carries the style settings and the listener bookkeeping shared by
// every tool.
type Base struct {
	style   style.Style
	ctx     *Context
	ids     [3]canvas.ListenerID
	bound   bool
	refresh func()
}

func newBase() Base { return Base{style: style.Default()} }

// bind registers t's pointer handlers on ctx.Canvas. Any earlier binding is
// removed first.
func (b *Base) bind(ctx *Context, t Tool) {
	b.unbind()
	b.ctx = ctx
	if ctx == nil || ctx.Canvas == nil {
		return
	}
	c := ctx.Canvas
	b.ids = [3]canvas.ListenerID{
		c.On(canvas.MouseDown, t.OnMouseDown),
		c.On(canvas.MouseMove, t.OnMouseMove),
		c.On(canvas.MouseUp, t.OnMouseUp),
	}
	b.bound = true
}

func (b *Base) unbind() {
	if b.bound && b.ctx != nil && b.ctx.Canvas != nil {
		c := b.ctx.Canvas
		c.Off(canvas.MouseDown, b.ids[0])
		c.Off(canvas.MouseMove, b.ids[1])
		c.Off(canvas.MouseUp, b.ids[2])
	}
	b.bound = false
	b.ids = [3]canvas.ListenerID{}
	b.ctx = nil
}

// Active reports whether the tool is bound to a canvas.
func (b *Base) Active() bool { return b.ctx != nil }

func (b *Base) canvas() *canvas.Canvas {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Canvas
}

// addQuietly puts an in-progress object on the canvas without recording it.
func (b *Base) addQuietly(o *canvas.Object) {
	c := b.canvas()
	if c == nil {
		return
	}
	if b.ctx.History != nil {
		b.ctx.History.WithoutAutoHistory(func() { c.Add(o) })
		return
	}
	c.Add(o)
}

func (b *Base) removeQuietly(o *canvas.Object) {
	c := b.canvas()
	if c == nil {
		return
	}
	if b.ctx.History != nil {
		b.ctx.History.WithoutAutoHistory(func() { c.Remove(o) })
		return
	}
	c.Remove(o)
}

func (b *Base) commit() {
	if b.ctx != nil && b.ctx.History != nil {
		b.ctx.History.AppendDefaultHistory()
	}
}

func (b *Base) Style() style.Style { return b.style }

// SetStyle replaces all settings and refreshes once.
func (b *Base) SetStyle(st style.Style) {
	b.style = st
	b.changed()
}

func (b *Base) SetFillColor(c style.Color) {
	b.style.Fill = c
	b.changed()
}

func (b *Base) SetOutlineColor(c style.Color) {
	b.style.Outline = c
	b.changed()
}

func (b *Base) SetTextColor(c style.Color) {
	b.style.Text = c
	b.changed()
}

func (b *Base) SetBorderWidth(w float64) {
	if w < 0 {
		w = 0
	}
	b.style.BorderWidth = w
	b.changed()
}

func (b *Base) changed() {
	if b.refresh != nil {
		b.refresh()
	}
}

func (b *Base) OnMouseDown(canvas.Event) {}
func (b *Base) OnMouseMove(canvas.Event) {}
func (b *Base) OnMouseUp(canvas.Event) {}
func (b *Base) RefreshSettings() {}
