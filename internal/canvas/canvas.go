package canvas

import (
	"github.com/example/vodmark/internal/style"
)

// EventName identifies a canvas event.
type EventName string

const (
	MouseDown      EventName = "mouse:down"
	MouseMove      EventName = "mouse:move"
	MouseUp        EventName = "mouse:up"
	ObjectAdded    EventName = "object:added"
	ObjectModified EventName = "object:modified"
	ObjectRemoved  EventName = "object:removed"
	ObjectMoving   EventName = "object:moving"
	ObjectScaling  EventName = "object:scaling"
	PathCreated    EventName = "path:created"
)

// Event is delivered to listeners. Pointer is in backing coordinates and
// Target is the object concerned, if any.
type Event struct {
	Name    EventName
	Pointer Point
	Target  *Object
}

// Handler receives canvas events.
type Handler func(Event)

// ListenerID identifies a registration so it can be removed again.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn Handler
}

// Brush configures free drawing.
type Brush struct {
	Width float64
	Color style.Color
}

// Canvas owns the object list, the event listeners, the selection and the
// two sets of dimensions: display (how large it is shown) and backing (the
// pixel resolution objects are positioned in).
type Canvas struct {
	objects   []*Object
	listeners map[EventName][]listener
	nextID    ListenerID
	active    []*Object

	drawingMode      bool
	FreeDrawingBrush Brush
	stroke           *Object

	displayW, displayH float64
	backingW, backingH int

	renders    int
	renderHook func()
}

// New returns an empty canvas with the given backing size. The display size
// starts equal to it.
func New(width, height int) *Canvas {
	return &Canvas{
		listeners:        make(map[EventName][]listener),
		FreeDrawingBrush: Brush{Width: 8, Color: style.White},
		displayW:         float64(width),
		displayH:         float64(height),
		backingW:         width,
		backingH:         height,
	}
}

// On registers fn for name.
func (c *Canvas) On(name EventName, fn Handler) ListenerID {
	c.nextID++
	c.listeners[name] = append(c.listeners[name], listener{id: c.nextID, fn: fn})
	return c.nextID
}

// Off removes a registration. It reports whether one was found.
func (c *Canvas) Off(name EventName, id ListenerID) bool {
	ls := c.listeners[name]
	for i, l := range ls {
		if l.id == id {
			c.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns how many handlers are bound to name.
func (c *Canvas) ListenerCount(name EventName) int {
	return len(c.listeners[name])
}

// Fire delivers ev to the handlers registered when it was fired.
func (c *Canvas) Fire(ev Event) {
	ls := c.listeners[ev.Name]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Add appends objects on top and fires object:added for each.
func (c *Canvas) Add(objs ...*Object) {
	for _, o := range objs {
		if o == nil {
			continue
		}
		c.objects = append(c.objects, o)
		c.Fire(Event{Name: ObjectAdded, Target: o})
	}
	c.RequestRender()
}

// Remove deletes objects and fires object:removed for each one found.
func (c *Canvas) Remove(objs ...*Object) {
	for _, o := range objs {
		idx := c.indexOf(o)
		if idx < 0 {
			continue
		}
		c.objects = append(c.objects[:idx], c.objects[idx+1:]...)
		c.dropFromSelection(o)
		c.Fire(Event{Name: ObjectRemoved, Target: o})
	}
	c.RequestRender()
}

// Clear removes every object and the selection.
func (c *Canvas) Clear() {
	c.DiscardActiveObject()
	c.stroke = nil
	objs := c.objects
	c.objects = nil
	for _, o := range objs {
		c.Fire(Event{Name: ObjectRemoved, Target: o})
	}
	c.RequestRender()
}

func (c *Canvas) indexOf(o *Object) int {
	for i, obj := range c.objects {
		if obj == o {
			return i
		}
	}
	return -1
}

// Contains reports whether o is currently on the canvas.
func (c *Canvas) Contains(o *Object) bool { return c.indexOf(o) >= 0 }

// Objects returns the objects bottom to top.
func (c *Canvas) Objects() []*Object {
	out := make([]*Object, len(c.objects))
	copy(out, c.objects)
	return out
}

func (c *Canvas) Len() int { return len(c.objects) }

// BringToFront moves o to the top of the stack.
func (c *Canvas) BringToFront(o *Object) {
	idx := c.indexOf(o)
	if idx < 0 || idx == len(c.objects)-1 {
		return
	}
	c.objects = append(c.objects[:idx], c.objects[idx+1:]...)
	c.objects = append(c.objects, o)
	c.RequestRender()
}

// FindTarget returns the topmost selectable object under p.
func (c *Canvas) FindTarget(p Point) *Object {
	for i := len(c.objects) - 1; i >= 0; i-- {
		o := c.objects[i]
		if o.Selectable && o.HitBounds().Contains(p) {
			return o
		}
	}
	return nil
}

// Modified fires object:modified for o.
func (c *Canvas) Modified(o *Object) {
	c.Fire(Event{Name: ObjectModified, Target: o})
	c.RequestRender()
}

// Moving fires object:moving for o.
func (c *Canvas) Moving(o *Object) {
	c.Fire(Event{Name: ObjectMoving, Target: o})
	c.RequestRender()
}

// Scaling fires object:scaling for o.
func (c *Canvas) Scaling(o *Object) {
	c.Fire(Event{Name: ObjectScaling, Target: o})
	c.RequestRender()
}

// SetActiveObject selects o alone.
func (c *Canvas) SetActiveObject(o *Object) {
	if o == nil {
		c.active = nil
		return
	}
	c.active = []*Object{o}
}

// SetActiveObjects replaces the selection.
func (c *Canvas) SetActiveObjects(objs ...*Object) {
	c.active = append([]*Object(nil), objs...)
}

// ActiveObject returns the selected object when exactly one is selected.
func (c *Canvas) ActiveObject() *Object {
	if len(c.active) != 1 {
		return nil
	}
	return c.active[0]
}

// ActiveObjects returns the whole selection.
func (c *Canvas) ActiveObjects() []*Object {
	return append([]*Object(nil), c.active...)
}

// DiscardActiveObject clears the selection.
func (c *Canvas) DiscardActiveObject() {
	c.active = nil
}

func (c *Canvas) dropFromSelection(o *Object) {
	for i, a := range c.active {
		if a == o {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// SetDrawingMode toggles free drawing. Leaving the mode abandons any stroke
// in progress.
func (c *Canvas) SetDrawingMode(on bool) {
	c.drawingMode = on
	if !on {
		c.stroke = nil
	}
}

func (c *Canvas) IsDrawingMode() bool { return c.drawingMode }

// SetDisplaySize changes how large the canvas is shown without touching the
// backing store.
func (c *Canvas) SetDisplaySize(w, h float64) {
	c.displayW, c.displayH = w, h
}

func (c *Canvas) DisplaySize() (w, h float64) { return c.displayW, c.displayH }

// SetBackingSize changes the pixel resolution objects live in.
func (c *Canvas) SetBackingSize(w, h int) {
	c.backingW, c.backingH = w, h
}

func (c *Canvas) BackingSize() (w, h int) { return c.backingW, c.backingH }

// Pointer maps a display position into backing coordinates.
func (c *Canvas) Pointer(display Point) Point {
	if c.displayW <= 0 || c.displayH <= 0 {
		return display
	}
	return Point{
		X: display.X * float64(c.backingW) / c.displayW,
		Y: display.Y * float64(c.backingH) / c.displayH,
	}
}

// DispatchPointer converts a display position and fires the mouse event with
// the object under the pointer as target. In drawing mode the gesture also
// builds a free-hand path.
func (c *Canvas) DispatchPointer(name EventName, display Point) {
	p := c.Pointer(display)
	if c.drawingMode {
		c.freeDraw(name, p)
	}
	ev := Event{Name: name, Pointer: p}
	if !c.drawingMode {
		ev.Target = c.FindTarget(p)
	}
	c.Fire(ev)
}

func (c *Canvas) freeDraw(name EventName, p Point) {
	switch name {
	case MouseDown:
		o := NewObject(KindPath, p)
		o.Stroke = c.FreeDrawingBrush.Color
		o.Fill = style.Transparent
		o.StrokeWidth = c.FreeDrawingBrush.Width
		o.SetPath([]Point{p})
		c.stroke = o
	case MouseMove:
		if c.stroke == nil {
			return
		}
		c.stroke.SetPath(append(c.stroke.Path, p))
		c.RequestRender()
	case MouseUp:
		o := c.stroke
		if o == nil {
			return
		}
		c.stroke = nil
		c.Add(o)
		c.Fire(Event{Name: PathCreated, Pointer: p, Target: o})
	}
}

// PendingStroke returns the free-hand path being drawn, if any.
func (c *Canvas) PendingStroke() *Object { return c.stroke }

// RequestRender asks the host to repaint.
func (c *Canvas) RequestRender() {
	c.renders++
	if c.renderHook != nil {
		c.renderHook()
	}
}

// SetRenderHook installs fn to be called on every render request.
func (c *Canvas) SetRenderHook(fn func()) { c.renderHook = fn }

// RenderRequests returns how many renders have been requested.
func (c *Canvas) RenderRequests() int { return c.renders }
