// Package render rasterizes a canvas document onto an RGBA image.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/example/vodmark/internal/blur"
	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/style"
)

// ellipseSegments is how many edges approximate a full ellipse.
const ellipseSegments = 72

// Scene is everything needed to produce one frame at backing resolution.
type Scene struct {
	Width, Height int
	// Background is scaled to fill the frame. Nil leaves it transparent.
	Background image.Image
	Objects    []*canvas.Object
	Overlays   []blur.Overlay
}

// Render draws the background, blurs the overlay regions of it and then
// paints the objects in order.
func Render(s Scene) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(s.Width, 0), max(s.Height, 0)))
	if dst.Bounds().Empty() {
		return dst
	}
	if s.Background != nil {
		xdraw.BiLinear.Scale(dst, dst.Bounds(), s.Background, s.Background.Bounds(), draw.Src, nil)
	}
	for _, ov := range s.Overlays {
		BlurRegion(dst, ov.Rect(s.Width, s.Height), ov.Amount)
	}
	p := newPainter(dst)
	defer p.faces.close()
	for _, o := range s.Objects {
		p.object(o)
	}
	return dst
}

type painter struct {
	dst   *image.RGBA
	r     *vector.Rasterizer
	faces faceCache
}

func newPainter(dst *image.RGBA) *painter {
	b := dst.Bounds()
	return &painter{dst: dst, r: vector.NewRasterizer(b.Dx(), b.Dy()), faces: faceCache{}}
}

type pt struct{ x, y float64 }

// subpath adds a closed polygon. Outer contours are wound one way and holes
// the other so the rasterizer cuts them out.
func (p *painter) subpath(pts []pt, hole bool) {
	if len(pts) < 3 {
		return
	}
	if (area(pts) > 0) != hole {
		pts = reversed(pts)
	}
	p.r.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, q := range pts[1:] {
		p.r.LineTo(float32(q.x), float32(q.y))
	}
	p.r.ClosePath()
}

func (p *painter) fill(c style.Color) {
	if !c.IsTransparent() {
		p.r.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c.NRGBA()), image.Point{})
	}
	b := p.dst.Bounds()
	p.r.Reset(b.Dx(), b.Dy())
}

func area(pts []pt) float64 {
	a := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return a / 2
}

func reversed(pts []pt) []pt {
	out := make([]pt, len(pts))
	for i, q := range pts {
		out[len(pts)-1-i] = q
	}
	return out
}

// rotate turns pts by the object angle around its anchor.
func rotate(o *canvas.Object, pts []pt) []pt {
	if o.Angle == 0 {
		return pts
	}
	sin, cos := math.Sincos(o.Angle * math.Pi / 180)
	for i, q := range pts {
		dx, dy := q.x-o.Left, q.y-o.Top
		pts[i] = pt{o.Left + dx*cos - dy*sin, o.Top + dx*sin + dy*cos}
	}
	return pts
}

func boxPts(r canvas.Rect) []pt {
	return []pt{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
}

func ellipsePts(r canvas.Rect) []pt {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	pts := make([]pt, ellipseSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = pt{cx + r.W/2*math.Cos(a), cy + r.H/2*math.Sin(a)}
	}
	return pts
}

func trianglePts(r canvas.Rect) []pt {
	return []pt{{r.X + r.W/2, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
}

func (p *painter) object(o *canvas.Object) {
	b := o.Bounds()
	switch o.Type {
	case canvas.KindRect:
		p.closedShape(o, b, boxPts)
	case canvas.KindCircle, canvas.KindEllipse:
		p.closedShape(o, b, ellipsePts)
	case canvas.KindTriangle:
		p.closedShape(o, b, trianglePts)
	case canvas.KindLine:
		pts := rotate(o, []pt{{o.X1, o.Y1}, {o.X2, o.Y2}})
		p.polyline(pts, o.StrokeWidth, false)
		p.fill(o.Stroke)
	case canvas.KindPath:
		pts := make([]pt, len(o.Path))
		for i, q := range o.Path {
			pts[i] = pt{q.X, q.Y}
		}
		p.polyline(rotate(o, pts), o.StrokeWidth, true)
		p.fill(o.Stroke)
	case canvas.KindTextbox:
		if err := p.text(o, b); err != nil {
			log.Printf("render text: %v", err)
		}
	}
}

// closedShape fills the interior and then strokes the outline centred on the
// edge, as a ring between the grown and shrunk outline.
func (p *painter) closedShape(o *canvas.Object, b canvas.Rect, outline func(canvas.Rect) []pt) {
	if b.W <= 0 && b.H <= 0 {
		return
	}
	p.subpath(rotate(o, outline(b)), false)
	p.fill(o.Fill)

	sw := o.StrokeWidth
	if sw <= 0 || o.Stroke.IsTransparent() {
		return
	}
	p.subpath(rotate(o, outline(b.Inset(-sw/2))), false)
	if inner := b.Inset(sw / 2); inner.W > 0 && inner.H > 0 {
		p.subpath(rotate(o, outline(inner)), true)
	}
	p.fill(o.Stroke)
}

// polyline strokes pts with the given width. Round joins and caps are added
// when round is set.
func (p *painter) polyline(pts []pt, width float64, round bool) {
	if len(pts) == 0 || width <= 0 {
		return
	}
	hw := width / 2
	dot := func(c pt) {
		p.subpath(ellipsePts(canvas.Rect{X: c.x - hw, Y: c.y - hw, W: width, H: width}), false)
	}
	if len(pts) == 1 {
		dot(pts[0])
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.x-a.x, b.y-a.y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		p.subpath([]pt{{a.x + nx, a.y + ny}, {b.x + nx, b.y + ny}, {b.x - nx, b.y - ny}, {a.x - nx, a.y - ny}}, false)
	}
	if round {
		for _, c := range pts {
			dot(c)
		}
	}
}

func (p *painter) text(o *canvas.Object, b canvas.Rect) error {
	if o.Text == "" || o.Fill.IsTransparent() {
		return nil
	}
	size := o.FontSize
	if size <= 0 {
		size = 16
	}
	if _, h := o.ScaledSize(); o.Height > 0 {
		size *= h / o.Height
	}
	face, err := p.faces.face(keyFor(o.FontFamily, o.FontWeight, o.FontStyle), size)
	if err != nil {
		return err
	}
	src := image.NewUniform(o.Fill.NRGBA())
	d := font.Drawer{Dst: p.dst, Src: src, Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	thick := math.Max(1, size/15)
	for i, line := range strings.Split(o.Text, "\n") {
		adv := float64(d.MeasureString(line)) / 64
		x := b.X
		switch o.TextAlign {
		case "center":
			x += (b.W - adv) / 2
		case "right":
			x += b.W - adv
		}
		y := b.Y + float64(i)*size*canvas.LineHeight + float64(ascent)
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
		d.DrawString(line)
		if o.Underline && adv > 0 {
			u := image.Rect(int(x), int(y+thick), int(math.Ceil(x+adv)), int(math.Ceil(y+2*thick)))
			draw.Draw(p.dst, u, src, image.Point{}, draw.Over)
		}
	}
	return nil
}

// Fill paints the whole of img with c.
func Fill(img draw.Image, c color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
