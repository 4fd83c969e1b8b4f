package tools

import "strings"

// Toolbox holds one instance of every tool so settings survive switching.
type Toolbox struct {
	Brush  *Brush
	Line   *Line
	Shapes *MultiShape
	Text   *Text
	Select *Select
	Blur   *Blur
}

func NewToolbox() *Toolbox {
	return &Toolbox{
		Brush:  NewBrush(),
		Line:   NewLine(),
		Shapes: NewMultiShape(),
		Text:   NewText(),
		Select: NewSelect(),
		Blur:   NewBlur(),
	}
}

// Names lists what ByName accepts.
func (tb *Toolbox) Names() []string {
	return []string{"brush", "line", "shape", "rect", "circle", "ellipse", "triangle", "text", "select", "blur"}
}

// ByName returns the tool for name. Shape names select that shape inside the
// shape group and return the group.
func (tb *Toolbox) ByName(name string) (Tool, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "brush", "pen":
		return tb.Brush, true
	case "line":
		return tb.Line, true
	case "shape", "shapes":
		return tb.Shapes, true
	case "text":
		return tb.Text, true
	case "select", "move":
		return tb.Select, true
	case "blur":
		return tb.Blur, true
	}
	if idx, ok := ParseShapeIndex(name); ok {
		tb.Shapes.SetActiveShape(idx)
		return tb.Shapes, true
	}
	return nil, false
}
