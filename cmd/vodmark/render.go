package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/example/vodmark/internal/render"
)

// renderCmd replays state and scripts without a window and writes a PNG.
type renderCmd struct {
	*root
	scene    sceneFlags
	output   string
	toStdout bool
	shadow   bool
	shadowO  render.ShadowOptions
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	c := &renderCmd{root: r.subFlags("render"), shadowO: render.DefaultShadowOptions()}
	fs := c.fs
	c.scene.register(fs)
	fs.StringVar(&c.output, "output", "vodmark.png", "output file path")
	fs.BoolVar(&c.toStdout, "stdout", false, "write the PNG to stdout")
	fs.BoolVar(&c.shadow, "shadow", false, "add a drop shadow around the frame")
	fs.IntVar(&c.shadowO.Radius, "shadow-radius", c.shadowO.Radius, "shadow blur radius in pixels")
	fs.Var((*pointValue)(&c.shadowO.Offset), "shadow-offset", "shadow offset as x,y")
	fs.Float64Var(&c.shadowO.Opacity, "shadow-opacity", c.shadowO.Opacity, "shadow opacity between 0 and 1")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c, msg: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	if c.scene.state == "" && len(c.scene.scripts) == 0 && c.scene.backdrop == "" {
		return nil, &UsageError{of: c, msg: "nothing to render: give -backdrop, -state or -script"}
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	ctl, box, err := c.newController()
	if err != nil {
		return err
	}
	bg, err := c.scene.build(ctl, box)
	if err != nil {
		return err
	}
	var frame image.Image
	if bg != nil {
		frame = bg
	}
	img := ctl.Render(frame)
	if c.shadow {
		img = render.ApplyShadow(img, c.shadowO).Image
	}
	if c.toStdout {
		return png.Encode(c.root.stdout, img)
	}
	if err := writePNG(c.output, img); err != nil {
		return err
	}
	fmt.Fprintf(c.root.stderr, "saved %s\n", c.output)
	if c.notifier != nil {
		c.notifier.Export(c.output)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// pointValue parses "x,y" into an image.Point.
type pointValue image.Point

var _ flag.Value = (*pointValue)(nil)

func (p *pointValue) String() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func (p *pointValue) Set(v string) error {
	xs, ys, ok := strings.Cut(v, ",")
	if !ok {
		return fmt.Errorf("expected x,y, got %q", v)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return fmt.Errorf("invalid y %q", ys)
	}
	p.X, p.Y = x, y
	return nil
}
