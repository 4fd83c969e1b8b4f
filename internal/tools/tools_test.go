package tools

import (
	"testing"

	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/style"
)

type spyHistory struct {
	commits int
	quiet   int
}

func (s *spyHistory) AppendDefaultHistory() { s.commits++ }
func (s *spyHistory) WithoutAutoHistory(fn func()) { s.quiet++; fn() }

func setup(w, h int) (*canvas.Canvas, *spyHistory, *Context) {
	c := canvas.New(w, h)
	hist := &spyHistory{}
	return c, hist, &Context{Canvas: c, History: hist}
}

func dragPointer(c *canvas.Canvas, from, to canvas.Point) {
	c.DispatchPointer(canvas.MouseDown, from)
	c.DispatchPointer(canvas.MouseMove, to)
	c.DispatchPointer(canvas.MouseUp, to)
}

func pointerListeners(c *canvas.Canvas) [3]int {
	return [3]int{
		c.ListenerCount(canvas.MouseDown),
		c.ListenerCount(canvas.MouseMove),
		c.ListenerCount(canvas.MouseUp),
	}
}

func TestRectangleDrag(t *testing.T) {
	c, hist, ctx := setup(1920, 1080)
	r := NewRect()
	r.OnActive(ctx)
	dragPointer(c, canvas.Point{X: 10, Y: 10}, canvas.Point{X: 50, Y: 80})
	objs := c.Objects()
	if len(objs) != 1 {
		t.Fatalf("objects = %d", len(objs))
	}
	o := objs[0]
	if o.Type != canvas.KindRect || o.Left != 10 || o.Top != 10 || o.Width != 40 || o.Height != 70 {
		t.Fatalf("unexpected rect %+v", o)
	}
	if o.OriginX != canvas.OriginLeft || o.OriginY != canvas.OriginTop {
		t.Fatalf("origin = %s/%s", o.OriginX, o.OriginY)
	}
	if hist.commits != 1 {
		t.Fatalf("commits = %d, want 1", hist.commits)
	}
	if r.InProgress() != nil {
		t.Fatal("shape still in progress after mouse-up")
	}
}

func TestReverseDragFlipsOrigin(t *testing.T) {
	c, _, ctx := setup(200, 200)
	r := NewRect()
	r.OnActive(ctx)
	dragPointer(c, canvas.Point{X: 50, Y: 50}, canvas.Point{X: 20, Y: 30})
	o := c.Objects()[0]
	if o.OriginX != canvas.OriginRight || o.OriginY != canvas.OriginBottom {
		t.Fatalf("origin = %s/%s", o.OriginX, o.OriginY)
	}
	if b := o.Bounds(); b != (canvas.Rect{X: 20, Y: 30, W: 30, H: 20}) {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestCircleAndEllipseGeometry(t *testing.T) {
	c, _, ctx := setup(200, 200)
	circle := NewCircle()
	circle.OnActive(ctx)
	dragPointer(c, canvas.Point{}, canvas.Point{X: 30, Y: 10})
	circle.OnInactive()

	ellipse := NewEllipse()
	ellipse.OnActive(ctx)
	dragPointer(c, canvas.Point{}, canvas.Point{X: 30, Y: 10})

	objs := c.Objects()
	if objs[0].Radius != 15 || objs[0].Width != 30 || objs[0].Height != 30 {
		t.Fatalf("circle %+v", objs[0])
	}
	if objs[1].RX != 15 || objs[1].RY != 5 {
		t.Fatalf("ellipse rx=%v ry=%v", objs[1].RX, objs[1].RY)
	}
}

func TestClickWithoutDragLeavesNothing(t *testing.T) {
	c, hist, ctx := setup(100, 100)
	r := NewTriangle()
	r.OnActive(ctx)
	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 5, Y: 5})
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: 5, Y: 5})
	if c.Len() != 0 || hist.commits != 0 {
		t.Fatalf("len=%d commits=%d", c.Len(), hist.commits)
	}
}

func TestListenersAreSymmetric(t *testing.T) {
	all := []Tool{NewRect(), NewCircle(), NewEllipse(), NewTriangle(), NewLine(), NewBrush(), NewText(), NewSelect(), NewBlur(), NewMultiShape()}
	for _, tool := range all {
		c, _, ctx := setup(100, 100)
		before := pointerListeners(c)
		tool.OnActive(ctx)
		if got := pointerListeners(c); got != [3]int{1, 1, 1} {
			t.Fatalf("%s: active listeners = %v", tool.Name(), got)
		}
		tool.OnInactive()
		if got := pointerListeners(c); got != before {
			t.Fatalf("%s: listeners after deactivation = %v, want %v", tool.Name(), got, before)
		}
	}
}

func TestSwitchShapeMidStroke(t *testing.T) {
	c, hist, ctx := setup(200, 200)
	m := NewMultiShape()
	m.OnActive(ctx)
	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 10, Y: 10})
	c.DispatchPointer(canvas.MouseMove, canvas.Point{X: 40, Y: 40})
	m.SetActiveShape(ShapeCircle)
	if got := pointerListeners(c); got != [3]int{1, 1, 1} {
		t.Fatalf("listeners after switch = %v", got)
	}
	if c.Len() != 1 || hist.commits != 1 {
		t.Fatalf("in-progress shape not finalized: len=%d commits=%d", c.Len(), hist.commits)
	}
	c.DispatchPointer(canvas.MouseMove, canvas.Point{X: 90, Y: 90})
	if o := c.Objects()[0]; o.Width != 30 {
		t.Fatalf("finished rect still follows the pointer: %+v", o)
	}
	dragPointer(c, canvas.Point{X: 100, Y: 100}, canvas.Point{X: 120, Y: 110})
	if objs := c.Objects(); len(objs) != 2 || objs[1].Type != canvas.KindCircle {
		t.Fatalf("second shape not a circle: %d objects", len(objs))
	}
	if m.ActiveShape() != ShapeCircle {
		t.Fatalf("active shape = %v", m.ActiveShape())
	}
}

func TestMultiIgnoresOutOfRange(t *testing.T) {
	m := NewMultiShape()
	m.SetActiveIndex(7)
	m.SetActiveIndex(-1)
	if m.ActiveShape() != ShapeRectangle {
		t.Fatalf("active shape = %v", m.ActiveShape())
	}
}

func TestMultiPushesStyle(t *testing.T) {
	_, _, ctx := setup(100, 100)
	m := NewMultiShape()
	m.OnActive(ctx)
	red := style.RGB(255, 0, 0)
	m.SetFillColor(red)
	m.SetBorderWidth(3)
	m.SetActiveShape(ShapeEllipse)
	got := m.ActiveTool().Style()
	if got.Fill != red || got.BorderWidth != 3 {
		t.Fatalf("sub-tool style = %+v", got)
	}
}

func TestShapeRefreshRestylesInProgress(t *testing.T) {
	c, _, ctx := setup(100, 100)
	r := NewRect()
	r.OnActive(ctx)
	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 1, Y: 1})
	blue := style.RGB(0, 0, 255)
	r.SetOutlineColor(blue)
	if r.InProgress().Stroke != blue {
		t.Fatalf("stroke = %v", r.InProgress().Stroke)
	}
}

func TestLineUsesFillColour(t *testing.T) {
	c, hist, ctx := setup(100, 100)
	l := NewLine()
	green := style.RGB(0, 255, 0)
	l.SetFillColor(green)
	l.OnActive(ctx)
	dragPointer(c, canvas.Point{X: 10, Y: 20}, canvas.Point{X: 60, Y: 5})
	o := c.Objects()[0]
	if o.Stroke != green || o.Fill != green || o.StrokeWidth != DefaultLineWidth {
		t.Fatalf("line style %+v", o)
	}
	if o.X1 != 10 || o.Y1 != 20 || o.X2 != 60 || o.Y2 != 5 {
		t.Fatalf("endpoints %v,%v %v,%v", o.X1, o.Y1, o.X2, o.Y2)
	}
	if hist.commits != 1 {
		t.Fatalf("commits = %d", hist.commits)
	}
}

func TestBrushDrawsPaths(t *testing.T) {
	c, _, ctx := setup(100, 100)
	b := NewBrush()
	b.SetFillColor(style.Black)
	b.OnActive(ctx)
	if !c.IsDrawingMode() || c.FreeDrawingBrush.Width != DefaultLineWidth || c.FreeDrawingBrush.Color != style.Black {
		t.Fatalf("brush not configured: %+v", c.FreeDrawingBrush)
	}
	dragPointer(c, canvas.Point{X: 1, Y: 1}, canvas.Point{X: 9, Y: 9})
	if c.Len() != 1 || c.Objects()[0].Type != canvas.KindPath {
		t.Fatalf("path not created")
	}
	b.OnInactive()
	if c.IsDrawingMode() {
		t.Fatal("drawing mode left on")
	}
}

func TestTextCreatesAndEdits(t *testing.T) {
	c, _, ctx := setup(1920, 1080)
	added := 0
	c.On(canvas.ObjectAdded, func(canvas.Event) { added++ })
	modified := 0
	c.On(canvas.ObjectModified, func(canvas.Event) { modified++ })

	tt := NewText()
	tt.SetBold(true)
	tt.OnActive(ctx)
	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 100, Y: 100})
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: 100, Y: 100})
	o := tt.Editing()
	if o == nil || o.Text != DefaultText || o.FontWeight != canvas.FontWeightBold || o.FontSize != DefaultFontSize {
		t.Fatalf("unexpected textbox %+v", o)
	}
	if added != 1 || c.ActiveObject() != o {
		t.Fatalf("added=%d active=%v", added, c.ActiveObject())
	}
	tt.SetText("hello")
	if o.Text != "hello" || modified != 1 {
		t.Fatalf("text=%q modified=%d", o.Text, modified)
	}

	tt.OnInactive()
	if tt.Editing() != nil || c.ActiveObject() != nil || o.Selectable {
		t.Fatal("deactivation left the textbox active")
	}
	tt.OnActive(ctx)
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: 105, Y: 105})
	if tt.Editing() != o || c.Len() != 1 {
		t.Fatalf("click on a textbox should edit it, len=%d", c.Len())
	}
}

func TestTextForgetsRemovedTextbox(t *testing.T) {
	c, _, ctx := setup(1920, 1080)
	modified := 0
	c.On(canvas.ObjectModified, func(canvas.Event) { modified++ })

	tt := NewText()
	tt.OnActive(ctx)
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: 100, Y: 100})
	o := tt.Editing()
	if o == nil {
		t.Fatal("no textbox created")
	}
	c.Remove(o)
	if tt.Editing() != nil {
		t.Fatal("removed textbox is still being edited")
	}
	tt.SetText("gone")
	tt.RefreshSettings()
	if o.Text == "gone" || modified != 0 {
		t.Fatalf("edited a removed textbox: text=%q modified=%d", o.Text, modified)
	}
}

func TestSelectMovesAndScales(t *testing.T) {
	c, _, ctx := setup(400, 400)
	o := canvas.NewObject(canvas.KindRect, canvas.Point{X: 100, Y: 100})
	o.Width, o.Height = 50, 50
	c.Add(o)
	moving, scaling, modified := 0, 0, 0
	c.On(canvas.ObjectMoving, func(canvas.Event) { moving++ })
	c.On(canvas.ObjectScaling, func(canvas.Event) { scaling++ })
	c.On(canvas.ObjectModified, func(canvas.Event) { modified++ })

	s := NewSelect()
	s.OnActive(ctx)
	dragPointer(c, canvas.Point{X: 110, Y: 110}, canvas.Point{X: 130, Y: 140})
	if o.Left != 120 || o.Top != 130 || moving != 1 || modified != 1 {
		t.Fatalf("move: left=%v top=%v moving=%d modified=%d", o.Left, o.Top, moving, modified)
	}

	dragPointer(c, canvas.Point{X: 170, Y: 180}, canvas.Point{X: 220, Y: 180})
	if o.ScaleX != 2 || o.ScaleY != 1 || scaling != 1 || modified != 2 {
		t.Fatalf("scale: sx=%v sy=%v scaling=%d modified=%d", o.ScaleX, o.ScaleY, scaling, modified)
	}
	if b := o.Bounds(); b.X != 120 || b.Y != 130 {
		t.Fatalf("scaling moved the anchor: %+v", b)
	}

	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 5, Y: 5})
	if c.ActiveObject() != nil {
		t.Fatal("click on empty space kept the selection")
	}
	s.OnInactive()
	if o.Selectable {
		t.Fatal("objects left selectable")
	}
}

func TestBlurToolRegistersOverlay(t *testing.T) {
	c, hist, ctx := setup(1000, 500)
	ctx.Blur = blur.New(c)
	b := NewBlur()
	b.SetBlurAmount(12)
	b.OnActive(ctx)
	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 100, Y: 50})
	o := b.InProgress()
	if o == nil || o.Stroke != style.White || o.StrokeWidth != 2 || !o.LockRotation {
		t.Fatalf("in-progress blur rect %+v", o)
	}
	c.DispatchPointer(canvas.MouseMove, canvas.Point{X: 300, Y: 150})
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: 300, Y: 150})
	if !o.HasBlur() || *o.BlurAmount != 12 {
		t.Fatalf("blur not tagged: %+v", o)
	}
	if !o.Stroke.IsTransparent() || o.StrokeWidth != 0 {
		t.Fatalf("guide outline not removed: %+v", o)
	}
	ov, ok := ctx.Blur.Overlay(o.BlurID)
	if !ok || ov.Width != 20 || ov.Height != 20 || ov.Amount != 12 {
		t.Fatalf("overlay %+v", ov)
	}
	if hist.commits != 1 {
		t.Fatalf("commits = %d", hist.commits)
	}

	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: 10, Y: 10})
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: 10, Y: 10})
	if ctx.Blur.Len() != 1 || c.Len() != 1 {
		t.Fatalf("zero-size blur kept: overlays=%d objects=%d", ctx.Blur.Len(), c.Len())
	}
}
