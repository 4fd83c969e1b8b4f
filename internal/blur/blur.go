package blur

import (
	"image"
	"math"

	"github.com/google/uuid"

	"github.com/example/vodmark/internal/canvas"
)

// IDPrefix starts every generated blur id.
const IDPrefix = "blur-"

// DefaultAmount is the blur radius in pixels new regions get.
const DefaultAmount = 8.0

// Overlay is a blur region positioned in percent of the canvas backing
// size, so it tracks the canvas however large it is displayed.
type Overlay struct {
	ID     string
	Amount float64
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Rect maps the overlay onto an image of the given size.
func (o Overlay) Rect(width, height int) image.Rectangle {
	x0 := int(math.Round(o.Left / 100 * float64(width)))
	y0 := int(math.Round(o.Top / 100 * float64(height)))
	x1 := int(math.Round((o.Left + o.Width) / 100 * float64(width)))
	y1 := int(math.Round((o.Top + o.Height) / 100 * float64(height)))
	return image.Rect(x0, y0, x1, y1)
}

// Synchronizer keeps one overlay per live blur-tagged canvas object.
type Synchronizer struct {
	canvas   *canvas.Canvas
	overlays map[string]*Overlay
	order    []string
	newID    func() string

	movingID  canvas.ListenerID
	scalingID canvas.ListenerID
	closed    bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithIDGenerator replaces the uuid based id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Synchronizer) { s.newID = fn }
}

// New binds a synchronizer to c. Overlays follow objects while they are
// moved or scaled.
func New(c *canvas.Canvas, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		canvas:   c,
		overlays: make(map[string]*Overlay),
		newID:    func() string { return IDPrefix + uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	s.movingID = c.On(canvas.ObjectMoving, s.onTransform)
	s.scalingID = c.On(canvas.ObjectScaling, s.onTransform)
	return s
}

func (s *Synchronizer) onTransform(e canvas.Event) {
	if e.Target != nil {
		s.ResyncCanvasObject(e.Target)
	}
}

// Close unbinds the transform listeners.
func (s *Synchronizer) Close() {
	if s.closed {
		return
	}
	s.canvas.Off(canvas.ObjectMoving, s.movingID)
	s.canvas.Off(canvas.ObjectScaling, s.scalingID)
	s.closed = true
}

// AddObjectForBlur tags o with a fresh blur id and amount and creates its
// overlay.
func (s *Synchronizer) AddObjectForBlur(o *canvas.Object, amount float64) string {
	o.BlurID = s.newID()
	a := amount
	o.BlurAmount = &a
	s.ResyncCanvasObject(o)
	return o.BlurID
}

// ResyncCanvasObject creates the overlay for o if needed and recomputes its
// geometry. Objects without a blur id or amount are ignored.
func (s *Synchronizer) ResyncCanvasObject(o *canvas.Object) {
	if o == nil || !o.HasBlur() {
		return
	}
	ov, ok := s.overlays[o.BlurID]
	if !ok {
		ov = &Overlay{ID: o.BlurID}
		s.overlays[o.BlurID] = ov
		s.order = append(s.order, o.BlurID)
	}
	ov.Amount = *o.BlurAmount

	cw, ch := s.canvas.BackingSize()
	if cw <= 0 || ch <= 0 {
		ov.Left, ov.Top, ov.Width, ov.Height = 0, 0, 0, 0
		return
	}
	b := o.Bounds()
	ov.Left = b.X / float64(cw) * 100
	ov.Top = b.Y / float64(ch) * 100
	ov.Width = b.W / float64(cw) * 100
	ov.Height = b.H / float64(ch) * 100
}

// ResyncAll reconciles the overlays with the canvas: overlays without a live
// object are removed, the rest are repositioned, and live blur objects
// without an overlay get one.
func (s *Synchronizer) ResyncAll() {
	live := make(map[string]*canvas.Object)
	var liveOrder []string
	for _, o := range s.canvas.Objects() {
		if o.BlurID == "" {
			continue
		}
		if _, dup := live[o.BlurID]; !dup {
			liveOrder = append(liveOrder, o.BlurID)
		}
		live[o.BlurID] = o
	}

	kept := s.order[:0]
	for _, id := range s.order {
		o, ok := live[id]
		if !ok || !o.HasBlur() {
			delete(s.overlays, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	for _, id := range liveOrder {
		s.ResyncCanvasObject(live[id])
	}
}

// Remove drops a single overlay.
func (s *Synchronizer) Remove(id string) {
	if _, ok := s.overlays[id]; !ok {
		return
	}
	delete(s.overlays, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear removes every overlay.
func (s *Synchronizer) Clear() {
	s.overlays = make(map[string]*Overlay)
	s.order = nil
}

// Overlays returns the overlays in creation order.
func (s *Synchronizer) Overlays() []Overlay {
	out := make([]Overlay, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.overlays[id])
	}
	return out
}

// Overlay looks up one overlay by blur id.
func (s *Synchronizer) Overlay(id string) (Overlay, bool) {
	ov, ok := s.overlays[id]
	if !ok {
		return Overlay{}, false
	}
	return *ov, true
}

func (s *Synchronizer) Len() int { return len(s.overlays) }
