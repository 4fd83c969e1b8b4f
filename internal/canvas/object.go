package canvas

import (
	"math"
	"strings"

	"github.com/example/vodmark/internal/style"
)

// Kind names the primitive an Object draws.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindEllipse  Kind = "ellipse"
	KindTriangle Kind = "triangle"
	KindLine     Kind = "line"
	KindPath     Kind = "path"
	KindTextbox  Kind = "textbox"
)

// Origin values for OriginX and OriginY.
const (
	OriginLeft   = "left"
	OriginRight  = "right"
	OriginTop    = "top"
	OriginBottom = "bottom"
	OriginCenter = "center"
)

const (
	FontWeightNormal = 400
	FontWeightBold   = 700
)

// LineHeight is the text line spacing as a multiple of the font size.
const LineHeight = 1.16

// Point is a position in backing pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis aligned box.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Inset grows the box by d on every side when d is negative.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Object is a drawable primitive owned by a Canvas. Left/Top is the anchor
// point named by OriginX/OriginY and Width/Height is the unscaled box.
type Object struct {
	Type         Kind        `json:"type"`
	OriginX      string      `json:"originX"`
	OriginY      string      `json:"originY"`
	Left         float64     `json:"left"`
	Top          float64     `json:"top"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	ScaleX       float64     `json:"scaleX"`
	ScaleY       float64     `json:"scaleY"`
	Angle        float64     `json:"angle,omitempty"`
	Fill         style.Color `json:"fill"`
	Stroke       style.Color `json:"stroke"`
	StrokeWidth  float64     `json:"strokeWidth"`
	Selectable   bool        `json:"selectable"`
	LockRotation bool        `json:"lockRotation,omitempty"`

	Radius float64 `json:"radius,omitempty"`
	RX     float64 `json:"rx,omitempty"`
	RY     float64 `json:"ry,omitempty"`

	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	Path []Point `json:"path,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`

	// BlurID ties the object to a blur overlay. BlurAmount is nil when the
	// object carries no blur; zero is a valid amount.
	BlurID     string   `json:"blurId,omitempty"`
	BlurAmount *float64 `json:"blurAmount,omitempty"`
}

// NewObject returns an object of kind anchored top-left at p with unit scale.
func NewObject(kind Kind, p Point) *Object {
	return &Object{
		Type:    kind,
		OriginX: OriginLeft,
		OriginY: OriginTop,
		Left:    p.X,
		Top:     p.Y,
		ScaleX:  1,
		ScaleY:  1,
	}
}

func (o *Object) sx() float64 {
	if o.ScaleX == 0 {
		return 1
	}
	return o.ScaleX
}

func (o *Object) sy() float64 {
	if o.ScaleY == 0 {
		return 1
	}
	return o.ScaleY
}

// ScaledSize is the on-canvas size after scaling.
func (o *Object) ScaledSize() (w, h float64) {
	return o.Width * o.sx(), o.Height * o.sy()
}

// Bounds returns the scaled box honouring the origin.
func (o *Object) Bounds() Rect {
	w, h := o.ScaledSize()
	x := o.Left
	switch o.OriginX {
	case OriginRight:
		x -= w
	case OriginCenter:
		x -= w / 2
	}
	y := o.Top
	switch o.OriginY {
	case OriginBottom:
		y -= h
	case OriginCenter:
		y -= h / 2
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// HitBounds is Bounds grown by half the stroke so thin shapes stay clickable.
func (o *Object) HitBounds() Rect {
	pad := math.Max(o.StrokeWidth/2, 4)
	return o.Bounds().Inset(-pad)
}

// HasBlur reports whether the object is tagged as a blur region.
func (o *Object) HasBlur() bool {
	return o.BlurID != "" && o.BlurAmount != nil
}

// SetCircleRadius sets the radius and the box that encloses it.
func (o *Object) SetCircleRadius(r float64) {
	o.Radius = r
	o.Width = 2 * r
	o.Height = 2 * r
}

// SetEllipseRadii sets both radii and the enclosing box.
func (o *Object) SetEllipseRadii(rx, ry float64) {
	o.RX = rx
	o.RY = ry
	o.Width = 2 * rx
	o.Height = 2 * ry
}

// SetEndpoints moves a line and keeps its box anchored top-left.
func (o *Object) SetEndpoints(x1, y1, x2, y2 float64) {
	o.X1, o.Y1, o.X2, o.Y2 = x1, y1, x2, y2
	o.OriginX = OriginLeft
	o.OriginY = OriginTop
	o.Left = math.Min(x1, x2)
	o.Top = math.Min(y1, y2)
	o.Width = math.Abs(x2 - x1)
	o.Height = math.Abs(y2 - y1)
}

// SetPath replaces the points of a path and refits its box.
func (o *Object) SetPath(pts []Point) {
	o.Path = pts
	if len(pts) == 0 {
		o.Width, o.Height = 0, 0
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	o.OriginX = OriginLeft
	o.OriginY = OriginTop
	o.Left, o.Top = minX, minY
	o.Width, o.Height = maxX-minX, maxY-minY
}

// Translate shifts the object by d, including line endpoints and path points.
func (o *Object) Translate(dx, dy float64) {
	o.Left += dx
	o.Top += dy
	switch o.Type {
	case KindLine:
		o.X1 += dx
		o.X2 += dx
		o.Y1 += dy
		o.Y2 += dy
	case KindPath:
		for i := range o.Path {
			o.Path[i].X += dx
			o.Path[i].Y += dy
		}
	}
}

// SetText updates the text and refits the textbox to an estimate of its
// rendered extent.
func (o *Object) SetText(s string) {
	o.Text = s
	o.FitText()
}

// FitText recomputes the textbox size from its text and font size.
func (o *Object) FitText() {
	size := o.FontSize
	if size <= 0 {
		size = 16
	}
	lines := strings.Split(o.Text, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	o.Width = math.Max(float64(longest)*size*0.6, size)
	o.Height = float64(len(lines)) * size * LineHeight
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	c := *o
	if o.Path != nil {
		c.Path = append([]Point(nil), o.Path...)
	}
	if o.BlurAmount != nil {
		v := *o.BlurAmount
		c.BlurAmount = &v
	}
	return &c
}
