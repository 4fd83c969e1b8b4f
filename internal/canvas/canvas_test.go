package canvas

import (
	"strings"
	"testing"

	"github.com/example/vodmark/internal/style"
)

func TestListenersOnOff(t *testing.T) {
	c := New(100, 100)
	calls := 0
	id := c.On(MouseDown, func(Event) { calls++ })
	c.On(MouseDown, func(Event) { calls += 10 })
	c.DispatchPointer(MouseDown, Point{1, 1})
	if calls != 11 {
		t.Fatalf("calls = %d, want 11", calls)
	}
	if !c.Off(MouseDown, id) {
		t.Fatal("expected listener to be removed")
	}
	if c.Off(MouseDown, id) {
		t.Fatal("second removal should report false")
	}
	if got := c.ListenerCount(MouseDown); got != 1 {
		t.Fatalf("ListenerCount = %d, want 1", got)
	}
	c.DispatchPointer(MouseDown, Point{1, 1})
	if calls != 21 {
		t.Fatalf("calls = %d, want 21", calls)
	}
}

func TestHandlerRemovingItselfDuringFire(t *testing.T) {
	c := New(10, 10)
	var id ListenerID
	seen := 0
	id = c.On(ObjectAdded, func(Event) {
		seen++
		c.Off(ObjectAdded, id)
	})
	c.On(ObjectAdded, func(Event) { seen++ })
	c.Add(NewObject(KindRect, Point{}))
	if seen != 2 {
		t.Fatalf("seen = %d, want 2", seen)
	}
}

func TestAddRemoveEvents(t *testing.T) {
	c := New(100, 100)
	var names []EventName
	for _, n := range []EventName{ObjectAdded, ObjectRemoved} {
		c.On(n, func(e Event) { names = append(names, e.Name) })
	}
	a := NewObject(KindRect, Point{})
	b := NewObject(KindRect, Point{})
	c.Add(a, b)
	c.SetActiveObjects(a, b)
	c.Remove(a)
	if c.Len() != 1 || c.Contains(a) {
		t.Fatalf("unexpected objects after remove: %d", c.Len())
	}
	if got := c.ActiveObject(); got != b {
		t.Fatalf("selection should only hold b, got %v", got)
	}
	c.Clear()
	want := []EventName{ObjectAdded, ObjectAdded, ObjectRemoved, ObjectRemoved}
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("events = %v, want %v", names, want)
		}
	}
	if c.ActiveObjects() != nil {
		t.Fatal("clear should drop the selection")
	}
}

func TestBoundsHonoursOrigin(t *testing.T) {
	o := NewObject(KindRect, Point{50, 80})
	o.Width, o.Height = 40, 70
	o.OriginX, o.OriginY = OriginRight, OriginBottom
	if got := o.Bounds(); got != (Rect{10, 10, 40, 70}) {
		t.Fatalf("Bounds = %+v", got)
	}
	o.ScaleX = 2
	o.OriginX = OriginCenter
	if got := o.Bounds(); got != (Rect{10, 10, 80, 70}) {
		t.Fatalf("scaled Bounds = %+v", got)
	}
}

func TestFindTargetTopmostSelectable(t *testing.T) {
	c := New(100, 100)
	bottom := NewObject(KindRect, Point{0, 0})
	bottom.Width, bottom.Height = 50, 50
	bottom.Selectable = true
	top := bottom.Clone()
	hidden := bottom.Clone()
	hidden.Selectable = false
	c.Add(bottom, top, hidden)
	if got := c.FindTarget(Point{25, 25}); got != top {
		t.Fatalf("FindTarget returned %p, want top %p", got, top)
	}
	if got := c.FindTarget(Point{90, 90}); got != nil {
		t.Fatalf("expected no target, got %+v", got)
	}
}

func TestPointerScalesDisplayToBacking(t *testing.T) {
	c := New(1920, 1080)
	c.SetDisplaySize(960, 540)
	var got Point
	c.On(MouseMove, func(e Event) { got = e.Pointer })
	c.DispatchPointer(MouseMove, Point{100, 50})
	if got != (Point{200, 100}) {
		t.Fatalf("pointer = %+v", got)
	}
}

func TestFreeDrawingCreatesPath(t *testing.T) {
	c := New(100, 100)
	c.FreeDrawingBrush = Brush{Width: 3, Color: style.RGB(255, 0, 0)}
	c.SetDrawingMode(true)
	created := 0
	c.On(PathCreated, func(Event) { created++ })
	c.DispatchPointer(MouseDown, Point{10, 10})
	c.DispatchPointer(MouseMove, Point{20, 5})
	c.DispatchPointer(MouseMove, Point{30, 40})
	if c.Len() != 0 {
		t.Fatal("path should only be added on mouse up")
	}
	c.DispatchPointer(MouseUp, Point{30, 40})
	if created != 1 || c.Len() != 1 {
		t.Fatalf("created=%d len=%d", created, c.Len())
	}
	p := c.Objects()[0]
	if p.Type != KindPath || len(p.Path) != 3 || p.StrokeWidth != 3 {
		t.Fatalf("unexpected path %+v", p)
	}
	if b := p.Bounds(); b != (Rect{10, 5, 20, 35}) {
		t.Fatalf("path bounds = %+v", b)
	}
}

func TestJSONRoundTripKeepsBlurFields(t *testing.T) {
	c := New(1920, 1080)
	zero := 0.0
	o := NewObject(KindRect, Point{10, 10})
	o.Width, o.Height = 5, 5
	o.BlurID = "blur-x"
	o.BlurAmount = &zero
	plain := NewObject(KindCircle, Point{1, 1})
	plain.SetCircleRadius(3)
	c.Add(o, plain)

	data, err := c.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), `"blurAmount":0`) {
		t.Fatalf("zero blur amount missing from %s", data)
	}

	other := New(1920, 1080)
	if err := other.LoadFromJSON(data); err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	objs := other.Objects()
	if len(objs) != 2 {
		t.Fatalf("loaded %d objects", len(objs))
	}
	if objs[0].BlurAmount == nil || *objs[0].BlurAmount != 0 || objs[0].BlurID != "blur-x" {
		t.Fatalf("blur fields lost: %+v", objs[0])
	}
	if objs[1].BlurAmount != nil {
		t.Fatal("plain object gained a blur amount")
	}
	again, err := other.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if string(again) != string(data) {
		t.Fatalf("round trip changed document:\n%s\n%s", data, again)
	}
}

func TestEmptyDocumentHasObjectArray(t *testing.T) {
	data, err := New(10, 10).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), `"objects":[]`) {
		t.Fatalf("unexpected %s", data)
	}
}

func TestLoadFromJSONRejectsGarbage(t *testing.T) {
	if err := New(10, 10).LoadFromJSON([]byte("{")); err == nil {
		t.Fatal("expected error")
	}
}
