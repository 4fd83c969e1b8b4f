// Package script drives a drawing controller from a line oriented command
// language so annotations can be produced without a window.
//
// Each line is a command followed by its arguments, for example
//
//	tool shape
//	shape ellipse
//	fill #ff0000
//	drag 10 10 200 120
//	undo
//
// Blank lines and lines starting with # are ignored.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/drawing"
	"github.com/example/vodmark/internal/style"
	"github.com/example/vodmark/internal/tools"
)

// ErrUnknownCommand is returned for commands the runner does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Runner executes commands against one controller.
type Runner struct {
	ctl     *drawing.Controller
	box     *tools.Toolbox
	baseDir string
	steps   int
}

type Option func(*Runner)

// WithToolbox shares tool instances with another user of the controller.
func WithToolbox(tb *tools.Toolbox) Option { return func(r *Runner) { r.box = tb } }

// WithBaseDir resolves relative paths given to load.
func WithBaseDir(dir string) Option { return func(r *Runner) { r.baseDir = dir } }

// WithDragSteps sets how many move events drag generates.
func WithDragSteps(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.steps = n
		}
	}
}

func New(ctl *drawing.Controller, opts ...Option) *Runner {
	r := &Runner{ctl: ctl, steps: 8}
	for _, o := range opts {
		o(r)
	}
	if r.box == nil {
		r.box = tools.NewToolbox()
	}
	return r
}

func (r *Runner) Toolbox() *tools.Toolbox { return r.box }

// Run executes every line of rd and stops at the first error.
func (r *Runner) Run(rd io.Reader) error {
	sc := bufio.NewScanner(rd)
	n := 0
	for sc.Scan() {
		n++
		if err := r.Exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// RunFile executes the script at path. Relative load paths resolve against
// the script's directory unless a base dir was set.
func (r *Runner) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if r.baseDir == "" {
		r.baseDir = filepath.Dir(path)
	}
	if err := r.Run(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Exec runs a single command line.
func (r *Runner) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	name = strings.ToLower(name)

	switch name {
	case "tool":
		if err := want(args, 1); err != nil {
			return err
		}
		t, ok := r.box.ByName(args[0])
		if !ok {
			return fmt.Errorf("unknown tool %q", args[0])
		}
		if r.ctl.ActiveTool() != t {
			r.ctl.SetActiveTool(t)
		}
	case "shape":
		if err := want(args, 1); err != nil {
			return err
		}
		idx, ok := tools.ParseShapeIndex(strings.ToLower(args[0]))
		if !ok {
			return fmt.Errorf("unknown shape %q", args[0])
		}
		r.box.Shapes.SetActiveShape(idx)
	case "fill", "outline", "text-color":
		if rest == "" {
			return fmt.Errorf("%s needs a colour", name)
		}
		c, err := style.ParseColor(rest)
		if err != nil {
			return err
		}
		switch name {
		case "fill":
			r.ctl.SetFillColor(c)
		case "outline":
			r.ctl.SetOutlineColor(c)
		default:
			r.ctl.SetTextColor(c)
		}
	case "border":
		v, err := floats(args, 1)
		if err != nil {
			return err
		}
		r.ctl.SetBorderWidth(v[0])
	case "width":
		v, err := floats(args, 1)
		if err != nil {
			return err
		}
		r.box.Brush.SetWidth(v[0])
		r.box.Line.SetWidth(v[0])
	case "blur-amount":
		v, err := floats(args, 1)
		if err != nil {
			return err
		}
		r.box.Blur.SetBlurAmount(v[0])
	case "font-size":
		v, err := floats(args, 1)
		if err != nil {
			return err
		}
		r.box.Text.SetFontSize(v[0])
	case "font":
		if rest == "" {
			return errors.New("font needs a family")
		}
		r.box.Text.SetFontFamily(rest)
	case "bold", "italic", "underline":
		on, err := flag(args)
		if err != nil {
			return err
		}
		switch name {
		case "bold":
			r.box.Text.SetBold(on)
		case "italic":
			r.box.Text.SetItalic(on)
		default:
			r.box.Text.SetUnderline(on)
		}
	case "align":
		if err := want(args, 1); err != nil {
			return err
		}
		switch a := strings.ToLower(args[0]); a {
		case tools.AlignLeft, tools.AlignCenter, tools.AlignRight:
			r.box.Text.SetAlign(a)
		default:
			return fmt.Errorf("unknown alignment %q", args[0])
		}
	case "size":
		v, err := floats(args, 2)
		if err != nil {
			return err
		}
		r.ctl.SetWidthHeight(v[0], v[1])
	case "down", "move", "up":
		v, err := floats(args, 2)
		if err != nil {
			return err
		}
		ev := map[string]canvas.EventName{"down": canvas.MouseDown, "move": canvas.MouseMove, "up": canvas.MouseUp}[name]
		r.ctl.Canvas().DispatchPointer(ev, canvas.Point{X: v[0], Y: v[1]})
	case "drag":
		v, err := floats(args, 4)
		if err != nil {
			return err
		}
		r.drag(v[0], v[1], v[2], v[3])
	case "type":
		text, err := unquote(rest)
		if err != nil {
			return err
		}
		if r.box.Text.Editing() == nil {
			return errors.New("type: no textbox is being edited")
		}
		r.box.Text.SetText(text)
	case "select":
		return r.selectAt(args)
	case "delete":
		r.ctl.DeleteSelected()
	case "undo":
		return r.ctl.Undo()
	case "redo":
		return r.ctl.Redo()
	case "clear":
		r.ctl.Clear()
	case "load":
		if rest == "" {
			return errors.New("load needs a file")
		}
		return r.load(rest)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return nil
}

func (r *Runner) drag(x0, y0, x1, y1 float64) {
	c := r.ctl.Canvas()
	c.DispatchPointer(canvas.MouseDown, canvas.Point{X: x0, Y: y0})
	for i := 1; i <= r.steps; i++ {
		f := float64(i) / float64(r.steps)
		c.DispatchPointer(canvas.MouseMove, canvas.Point{X: x0 + (x1-x0)*f, Y: y0 + (y1-y0)*f})
	}
	c.DispatchPointer(canvas.MouseUp, canvas.Point{X: x1, Y: y1})
}

// selectAt selects the topmost object under a display point, every object
// with "all", or nothing with "none".
func (r *Runner) selectAt(args []string) error {
	c := r.ctl.Canvas()
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "all":
			c.SetActiveObjects(c.Objects()...)
			return nil
		case "none":
			c.DiscardActiveObject()
			return nil
		}
	}
	v, err := floats(args, 2)
	if err != nil {
		return err
	}
	p := c.Pointer(canvas.Point{X: v[0], Y: v[1]})
	objs := c.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		if objs[i].HitBounds().Contains(p) {
			c.SetActiveObject(objs[i])
			return nil
		}
	}
	c.DiscardActiveObject()
	return nil
}

func (r *Runner) load(path string) error {
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.ctl.LoadState(b)
}

func want(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

func floats(args []string, n int) ([]float64, error) {
	if err := want(args, n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

// flag reads an optional on/off argument. No argument means on.
func flag(args []string) (bool, error) {
	if len(args) == 0 {
		return true, nil
	}
	switch strings.ToLower(args[0]) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid switch %q", args[0])
	}
	return v, nil
}

// unquote accepts either a Go quoted string or raw text.
func unquote(s string) (string, error) {
	if strings.HasPrefix(s, `"`) {
		v, err := strconv.Unquote(s)
		if err != nil {
			return "", fmt.Errorf("invalid quoted text %s", s)
		}
		return v, nil
	}
	return s, nil
}
