package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/style"
)

func rectObject(x, y, w, h float64) *canvas.Object {
	o := canvas.NewObject(canvas.KindRect, canvas.Point{X: x, Y: y})
	o.Width, o.Height = w, h
	o.Fill = style.Transparent
	o.Stroke = style.Transparent
	return o
}

func TestRenderEmptyScene(t *testing.T) {
	img := Render(Scene{Width: 32, Height: 16})
	if img.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if img.RGBAAt(3, 3).A != 0 {
		t.Fatal("empty scene should be transparent")
	}
}

func TestRenderFilledRect(t *testing.T) {
	o := rectObject(10, 10, 20, 20)
	o.Fill = style.RGB(255, 0, 0)
	img := Render(Scene{Width: 64, Height: 64, Objects: []*canvas.Object{o}})
	if got := img.RGBAAt(15, 15); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("inside = %+v", got)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("outside = %+v", got)
	}
}

func TestRenderStrokeIsRing(t *testing.T) {
	o := rectObject(10, 10, 40, 40)
	o.Stroke = style.RGB(0, 0, 255)
	o.StrokeWidth = 4
	img := Render(Scene{Width: 64, Height: 64, Objects: []*canvas.Object{o}})
	if got := img.RGBAAt(10, 30); got.B != 255 || got.A != 255 {
		t.Fatalf("edge = %+v", got)
	}
	if got := img.RGBAAt(30, 30); got.A != 0 {
		t.Fatalf("interior = %+v", got)
	}
}

func TestRenderOriginRightBottom(t *testing.T) {
	o := rectObject(30, 30, 20, 20)
	o.OriginX = canvas.OriginRight
	o.OriginY = canvas.OriginBottom
	o.Fill = style.White
	img := Render(Scene{Width: 64, Height: 64, Objects: []*canvas.Object{o}})
	if img.RGBAAt(15, 15).A != 255 || img.RGBAAt(35, 35).A != 0 {
		t.Fatal("origin not honoured")
	}
}

func TestRenderLine(t *testing.T) {
	o := canvas.NewObject(canvas.KindLine, canvas.Point{})
	o.SetEndpoints(0, 50, 100, 50)
	o.Stroke = style.White
	o.StrokeWidth = 8
	img := Render(Scene{Width: 100, Height: 100, Objects: []*canvas.Object{o}})
	if img.RGBAAt(50, 50).A != 255 {
		t.Fatal("line not drawn")
	}
	if img.RGBAAt(50, 60).A != 0 {
		t.Fatal("line too wide")
	}
}

func TestRenderText(t *testing.T) {
	o := canvas.NewObject(canvas.KindTextbox, canvas.Point{X: 4, Y: 4})
	o.FontSize = 24
	o.Fill = style.White
	o.SetText("Hi")
	img := Render(Scene{Width: 80, Height: 40, Objects: []*canvas.Object{o}})
	drawn := false
	for y := 4; y < 34 && !drawn; y++ {
		for x := 4; x < 40; x++ {
			if img.RGBAAt(x, y).A > 0 {
				drawn = true
				break
			}
		}
	}
	if !drawn {
		t.Fatal("text not drawn")
	}
}

func TestRenderBlursOverlayRegion(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{A: 255}
			if x >= 10 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			bg.SetRGBA(x, y, c)
		}
	}
	ov := blur.Overlay{ID: "blur-1", Amount: 2, Width: 100, Height: 100}
	img := Render(Scene{Width: 20, Height: 10, Background: bg, Overlays: []blur.Overlay{ov}})
	if r := img.RGBAAt(9, 5).R; r == 0 || r == 255 {
		t.Fatalf("edge pixel not blurred: %d", r)
	}
}

func TestBoxRadius(t *testing.T) {
	cases := []struct {
		amount float64
		want   int
	}{
		{0, 0},
		{-1, 0},
		{0.2, 1},
		{8, 8},
	}
	for _, c := range cases {
		if got := BoxRadius(c.amount); got != c.want {
			t.Fatalf("BoxRadius(%v) = %d, want %d", c.amount, got, c.want)
		}
	}
}

func TestBlurRegionLeavesOutsideAlone(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(2, 2, color.RGBA{R: 255, A: 255})
	img.SetRGBA(8, 8, color.RGBA{R: 255, A: 255})
	BlurRegion(img, image.Rect(0, 0, 5, 5), 2)
	if img.RGBAAt(8, 8).R != 255 {
		t.Fatal("pixel outside region changed")
	}
	if img.RGBAAt(2, 2).R == 255 {
		t.Fatal("pixel inside region not blurred")
	}
}
