// Package drawing ties a canvas, the active tool, blur overlays and the undo
// history together.
package drawing

import (
	"fmt"
	"image"
	"log"
	"math"

	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/history"
	"github.com/example/vodmark/internal/render"
	"github.com/example/vodmark/internal/style"
	"github.com/example/vodmark/internal/tools"
)

// DefaultBackingHeight is the vertical resolution objects are positioned in.
const DefaultBackingHeight = 1080

// Controller owns the canvas and everything attached to it. It is not safe
// for concurrent use.
type Controller struct {
	canvas  *canvas.Canvas
	blur    *blur.Synchronizer
	history *history.History
	tool    tools.Tool
	ctx     *tools.Context
	style   style.Style

	paused        bool
	backingHeight int
	historyLimit  int
	blurOpts      []blur.Option
	onError       func(error)
	onHistory     func()
}

type Option func(*Controller)

// WithBackingHeight fixes the backing height. Non-positive values are ignored.
func WithBackingHeight(h int) Option {
	return func(c *Controller) {
		if h > 0 {
			c.backingHeight = h
		}
	}
}

// WithHistoryLimit caps the undo log.
func WithHistoryLimit(n int) Option { return func(c *Controller) { c.historyLimit = n } }

// WithStyle sets the style pushed into tools on activation.
func WithStyle(st style.Style) Option { return func(c *Controller) { c.style = st } }

// WithBlurOptions passes options to the blur synchronizer.
func WithBlurOptions(opts ...blur.Option) Option {
	return func(c *Controller) { c.blurOpts = append(c.blurOpts, opts...) }
}

// WithErrorHandler receives history errors raised from event callbacks.
// The default logs them.
func WithErrorHandler(fn func(error)) Option { return func(c *Controller) { c.onError = fn } }

// WithHistoryChange is called after every append, undo or redo.
func WithHistoryChange(fn func()) Option { return func(c *Controller) { c.onHistory = fn } }

// New builds a controller with an empty 16:9 canvas.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		backingHeight: DefaultBackingHeight,
		style:         style.Default(),
		onError:       func(err error) { log.Printf("history: %v", err) },
	}
	for _, o := range opts {
		o(c)
	}
	h := c.backingHeight
	c.canvas = canvas.New(int(math.Floor(float64(h)*16/9)), h)
	c.blur = blur.New(c.canvas, c.blurOpts...)
	c.ctx = &tools.Context{Canvas: c.canvas, Blur: c.blur, History: c}

	hopts := []history.Option{history.WithLimit(c.historyLimit)}
	if c.onHistory != nil {
		hopts = append(hopts, history.WithOnChange(c.onHistory))
	}
	hist, err := history.New(c, hopts...)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	c.history = hist

	for _, name := range []canvas.EventName{canvas.ObjectAdded, canvas.ObjectModified, canvas.ObjectRemoved} {
		c.canvas.On(name, c.autoHistory)
	}
	return c, nil
}

func (c *Controller) autoHistory(canvas.Event) {
	if c.paused {
		return
	}
	c.AppendDefaultHistory()
}

// Snapshot serializes the canvas for the history.
func (c *Controller) Snapshot() (history.Snapshot, error) {
	b, err := c.canvas.ToJSON()
	if err != nil {
		return nil, err
	}
	return history.Snapshot(b), nil
}

// Restore replaces the canvas content with a history snapshot.
func (c *Controller) Restore(s history.Snapshot) error {
	return c.canvas.LoadFromJSON(s)
}

// AppendDefaultHistory records everything since the last entry.
func (c *Controller) AppendDefaultHistory() {
	if err := c.history.AppendDefault(); err != nil {
		c.onError(err)
	}
}

// WithoutAutoHistory runs fn without recording canvas events.
func (c *Controller) WithoutAutoHistory(fn func()) {
	prev := c.paused
	c.paused = true
	defer func() { c.paused = prev }()
	fn()
}

func (c *Controller) Canvas() *canvas.Canvas { return c.canvas }
func (c *Controller) Blur() *blur.Synchronizer { return c.blur }
func (c *Controller) History() *history.History { return c.history }
func (c *Controller) ActiveTool() tools.Tool { return c.tool }
func (c *Controller) Style() style.Style { return c.style }
func (c *Controller) CanUndo() bool { return c.history.CanUndo() }
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }
func (c *Controller) Overlays() []blur.Overlay { return c.blur.Overlays() }
func (c *Controller) BackingSize() (w, h int) { return c.canvas.BackingSize() }
func (c *Controller) DisplaySize() (w, h float64) { return c.canvas.DisplaySize() }

// SetActiveTool deactivates the current tool and activates t with the
// current style. A nil tool leaves the canvas without one.
func (c *Controller) SetActiveTool(t tools.Tool) {
	if c.tool != nil {
		c.tool.OnInactive()
	}
	c.tool = t
	if t == nil {
		return
	}
	t.OnActive(c.ctx)
	t.SetStyle(c.style)
}

// suspendTool runs fn with the active tool unbound so it drops references to
// objects fn may replace.
func (c *Controller) suspendTool(fn func() error) error {
	t := c.tool
	if t != nil {
		t.OnInactive()
	}
	err := fn()
	if t != nil {
		t.OnActive(c.ctx)
		t.SetStyle(c.style)
	}
	return err
}

// LoadState replaces the canvas content with a serialized document and makes
// it the history baseline without recording an entry.
func (c *Controller) LoadState(data []byte) error {
	return c.suspendTool(func() error {
		if err := c.canvas.LoadFromJSON(data); err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		c.blur.ResyncAll()
		if err := c.history.ReloadState(); err != nil {
			return err
		}
		c.canvas.RequestRender()
		return nil
	})
}

// State serializes the canvas.
func (c *Controller) State() ([]byte, error) {
	return c.canvas.ToJSON()
}

func (c *Controller) Undo() error { return c.step(c.history.StepBackward) }

func (c *Controller) Redo() error { return c.step(c.history.StepForward) }

func (c *Controller) step(fn func() error) error {
	return c.suspendTool(func() error {
		var err error
		c.WithoutAutoHistory(func() {
			err = fn()
			c.blur.ResyncAll()
		})
		c.canvas.RequestRender()
		return err
	})
}

// DeleteSelected removes the selected objects as one history entry. Nothing
// is recorded when the selection is empty.
func (c *Controller) DeleteSelected() {
	sel := c.canvas.ActiveObjects()
	if len(sel) == 0 {
		return
	}
	_ = c.suspendTool(func() error {
		c.WithoutAutoHistory(func() {
			c.canvas.Remove(sel...)
			c.canvas.DiscardActiveObject()
			c.blur.ResyncAll()
		})
		return nil
	})
	c.AppendDefaultHistory()
	c.canvas.RequestRender()
}

// Clear removes every object and overlay as one history entry.
func (c *Controller) Clear() {
	_ = c.suspendTool(func() error {
		c.WithoutAutoHistory(func() {
			c.canvas.Clear()
			c.blur.Clear()
		})
		return nil
	})
	c.AppendDefaultHistory()
	c.canvas.RequestRender()
}

// SetWidthHeight sets the display size. The backing height stays fixed and
// the backing width follows the display aspect ratio; the backing store only
// changes when those numbers do.
func (c *Controller) SetWidthHeight(w, h float64) {
	c.canvas.SetDisplaySize(w, h)
	if w <= 0 || h <= 0 {
		return
	}
	bh := c.backingHeight
	bw := int(math.Floor(float64(bh) * w / h))
	if cw, ch := c.canvas.BackingSize(); cw == bw && ch == bh {
		return
	}
	c.canvas.SetBackingSize(bw, bh)
	c.blur.ResyncAll()
	c.canvas.RequestRender()
}

func (c *Controller) SetFillColor(col style.Color) {
	c.style.Fill = col
	if c.tool != nil {
		c.tool.SetFillColor(col)
	}
}

func (c *Controller) SetOutlineColor(col style.Color) {
	c.style.Outline = col
	if c.tool != nil {
		c.tool.SetOutlineColor(col)
	}
}

func (c *Controller) SetTextColor(col style.Color) {
	c.style.Text = col
	if c.tool != nil {
		c.tool.SetTextColor(col)
	}
}

func (c *Controller) SetBorderWidth(w float64) {
	if w < 0 {
		w = 0
	}
	c.style.BorderWidth = w
	if c.tool != nil {
		c.tool.SetBorderWidth(w)
	}
}

// Render draws the backdrop, the blur regions and every object at backing
// resolution. The stroke being drawn with the brush is included.
func (c *Controller) Render(background image.Image) *image.RGBA {
	w, h := c.canvas.BackingSize()
	objs := c.canvas.Objects()
	if s := c.canvas.PendingStroke(); s != nil {
		objs = append(objs, s)
	}
	return render.Render(render.Scene{
		Width:      w,
		Height:     h,
		Background: background,
		Objects:    objs,
		Overlays:   c.blur.Overlays(),
	})
}
