package blur

import (
	"fmt"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/example/vodmark/internal/canvas"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("blur-%d", n)
	})
}

func rect(x, y, w, h float64) *canvas.Object {
	o := canvas.NewObject(canvas.KindRect, canvas.Point{X: x, Y: y})
	o.Width, o.Height = w, h
	return o
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAddObjectForBlurAssignsUUID(t *testing.T) {
	c := canvas.New(1000, 500)
	s := New(c)
	o := rect(100, 50, 200, 100)
	c.Add(o)
	id := s.AddObjectForBlur(o, 8)
	if !strings.HasPrefix(id, IDPrefix) || len(id) != len(IDPrefix)+36 {
		t.Fatalf("unexpected id %q", id)
	}
	ov, ok := s.Overlay(id)
	if !ok {
		t.Fatal("overlay not created")
	}
	if ov.Amount != 8 || !near(ov.Left, 10) || !near(ov.Top, 10) || !near(ov.Width, 20) || !near(ov.Height, 20) {
		t.Fatalf("unexpected overlay %+v", ov)
	}
}

func TestResyncHonoursOrigin(t *testing.T) {
	c := canvas.New(1000, 1000)
	s := New(c, sequentialIDs())
	o := rect(300, 400, 100, 200)
	o.OriginX = canvas.OriginRight
	o.OriginY = canvas.OriginBottom
	o.ScaleX = 2
	c.Add(o)
	s.AddObjectForBlur(o, 4)
	ov, _ := s.Overlay(o.BlurID)
	if !near(ov.Left, 10) || !near(ov.Top, 20) || !near(ov.Width, 20) || !near(ov.Height, 20) {
		t.Fatalf("unexpected overlay %+v", ov)
	}
}

func TestZeroAmountIsKept(t *testing.T) {
	c := canvas.New(100, 100)
	s := New(c, sequentialIDs())
	o := rect(0, 0, 10, 10)
	c.Add(o)
	s.AddObjectForBlur(o, 0)
	if s.Len() != 1 {
		t.Fatalf("zero blur overlay dropped, len=%d", s.Len())
	}
	s.ResyncAll()
	if s.Len() != 1 {
		t.Fatalf("zero blur overlay collected, len=%d", s.Len())
	}
}

func TestObjectWithoutAmountIgnored(t *testing.T) {
	c := canvas.New(100, 100)
	s := New(c)
	o := rect(0, 0, 10, 10)
	o.BlurID = "blur-orphan"
	c.Add(o)
	s.ResyncCanvasObject(o)
	s.ResyncAll()
	if s.Len() != 0 {
		t.Fatalf("object without amount produced an overlay")
	}
}

func TestResyncAllCollectsOrphans(t *testing.T) {
	c := canvas.New(100, 100)
	s := New(c, sequentialIDs())
	a, b := rect(0, 0, 10, 10), rect(20, 20, 10, 10)
	c.Add(a, b)
	s.AddObjectForBlur(a, 8)
	s.AddObjectForBlur(b, 8)
	c.Remove(a)
	s.ResyncAll()
	if _, ok := s.Overlay(a.BlurID); ok {
		t.Fatal("orphaned overlay survived")
	}
	if got := s.Overlays(); len(got) != 1 || got[0].ID != b.BlurID {
		t.Fatalf("unexpected overlays %+v", got)
	}
}

func TestResyncAllAfterBulkLoad(t *testing.T) {
	src := canvas.New(100, 100)
	s1 := New(src, sequentialIDs())
	o := rect(10, 10, 50, 50)
	src.Add(o)
	s1.AddObjectForBlur(o, 6)
	data, err := src.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	dst := canvas.New(100, 100)
	s2 := New(dst)
	if err := dst.LoadFromJSON(data); err != nil {
		t.Fatal(err)
	}
	s2.ResyncAll()
	ov, ok := s2.Overlay(o.BlurID)
	if !ok || ov.Amount != 6 || !near(ov.Width, 50) {
		t.Fatalf("overlay not rebuilt from loaded state: %+v", ov)
	}
}

func TestMovingAndScalingEventsResync(t *testing.T) {
	c := canvas.New(100, 100)
	s := New(c, sequentialIDs())
	o := rect(0, 0, 10, 10)
	c.Add(o)
	s.AddObjectForBlur(o, 8)
	o.Left = 50
	c.Moving(o)
	if ov, _ := s.Overlay(o.BlurID); !near(ov.Left, 50) {
		t.Fatalf("moving not tracked: %+v", ov)
	}
	o.ScaleY = 3
	c.Scaling(o)
	if ov, _ := s.Overlay(o.BlurID); !near(ov.Height, 30) {
		t.Fatalf("scaling not tracked: %+v", ov)
	}
	s.Close()
	if c.ListenerCount(canvas.ObjectMoving) != 0 || c.ListenerCount(canvas.ObjectScaling) != 0 {
		t.Fatal("Close left listeners bound")
	}
}

func TestClear(t *testing.T) {
	c := canvas.New(100, 100)
	s := New(c, sequentialIDs())
	o := rect(0, 0, 10, 10)
	c.Add(o)
	s.AddObjectForBlur(o, 8)
	s.Clear()
	if s.Len() != 0 || len(s.Overlays()) != 0 {
		t.Fatal("Clear left overlays")
	}
}

func TestOverlayRect(t *testing.T) {
	ov := Overlay{Left: 10, Top: 20, Width: 50, Height: 25}
	if got := ov.Rect(200, 100); got != image.Rect(20, 20, 120, 45) {
		t.Fatalf("Rect = %v", got)
	}
}
