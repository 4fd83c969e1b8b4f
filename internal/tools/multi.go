package tools

import "github.com/example/vodmark/internal/canvas"

// Multi groups several tools behind one toolbar entry. Only the selected
// sub-tool is bound to the canvas and the group's style is pushed down to it.
type Multi struct {
	Base
	name  string
	tools []Tool
	idx   int
}

func NewMulti(name string, tools ...Tool) *Multi {
	m := &Multi{Base: newBase(), name: name, tools: tools}
	m.refresh = m.RefreshSettings
	return m
}

func (m *Multi) Name() string { return m.name }

// ActiveIndex is the position of the selected sub-tool.
func (m *Multi) ActiveIndex() int { return m.idx }

// ActiveTool returns the selected sub-tool or nil when the group is empty.
func (m *Multi) ActiveTool() Tool {
	if m.idx < 0 || m.idx >= len(m.tools) {
		return nil
	}
	return m.tools[m.idx]
}

func (m *Multi) Tools() []Tool { return append([]Tool(nil), m.tools...) }

// SetActiveIndex switches sub-tool. Out of range indexes are ignored.
func (m *Multi) SetActiveIndex(i int) {
	if i < 0 || i >= len(m.tools) || i == m.idx {
		return
	}
	ctx := m.ctx
	if ctx != nil {
		m.tools[m.idx].OnInactive()
	}
	m.idx = i
	if ctx != nil {
		m.tools[m.idx].OnActive(ctx)
	}
	m.RefreshSettings()
}

// OnActive activates the selected sub-tool. The group itself binds no
// listeners so each pointer event reaches the sub-tool exactly once.
func (m *Multi) OnActive(ctx *Context) {
	m.ctx = ctx
	if t := m.ActiveTool(); t != nil {
		t.OnActive(ctx)
	}
	m.RefreshSettings()
}

func (m *Multi) OnInactive() {
	if t := m.ActiveTool(); t != nil && m.ctx != nil {
		t.OnInactive()
	}
	m.ctx = nil
}

func (m *Multi) OnMouseDown(e canvas.Event) {
	if t := m.ActiveTool(); t != nil {
		t.OnMouseDown(e)
	}
}

func (m *Multi) OnMouseMove(e canvas.Event) {
	if t := m.ActiveTool(); t != nil {
		t.OnMouseMove(e)
	}
}

func (m *Multi) OnMouseUp(e canvas.Event) {
	if t := m.ActiveTool(); t != nil {
		t.OnMouseUp(e)
	}
}

func (m *Multi) RefreshSettings() {
	if t := m.ActiveTool(); t != nil {
		t.SetStyle(m.style)
	}
}

// ShapeIndex selects a sub-tool of the shape group.
type ShapeIndex int

const (
	ShapeRectangle ShapeIndex = iota
	ShapeCircle
	ShapeEllipse
	ShapeTriangle
)

var shapeNames = [...]string{"rect", "circle", "ellipse", "triangle"}

func (s ShapeIndex) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// ParseShapeIndex maps a shape name to its index.
func ParseShapeIndex(name string) (ShapeIndex, bool) {
	for i, n := range shapeNames {
		if n == name {
			return ShapeIndex(i), true
		}
	}
	return 0, false
}

// MultiShape is the shape group: rectangle, circle, ellipse and triangle.
type MultiShape struct {
	*Multi
}

func NewMultiShape() *MultiShape {
	return &MultiShape{Multi: NewMulti("shape", NewRect(), NewCircle(), NewEllipse(), NewTriangle())}
}

func (m *MultiShape) ActiveShape() ShapeIndex { return ShapeIndex(m.idx) }

func (m *MultiShape) SetActiveShape(s ShapeIndex) { m.SetActiveIndex(int(s)) }
