package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/vodmark/internal/backdrop"
	"github.com/example/vodmark/internal/drawing"
	"github.com/example/vodmark/internal/script"
	"github.com/example/vodmark/internal/tools"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// sceneFlags are shared by every command that builds a canvas.
type sceneFlags struct {
	backdrop string
	state    string
	scripts  stringList
}

func (s *sceneFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.backdrop, "backdrop", "", "frame to draw over: file path, clipboard, screen[:monitor] or solid:<colour>")
	fs.StringVar(&s.state, "state", "", "canvas state JSON to load")
	fs.Var(&s.scripts, "script", "drawing script to run (repeatable)")
}

func (r *root) subFlags(name string) *root {
	sub := r.subcommand(name)
	sub.fs = flag.NewFlagSet(sub.program, flag.ContinueOnError)
	if r.stderr != nil {
		sub.fs.SetOutput(r.stderr)
	}
	return sub
}

func (r *root) newController() (*drawing.Controller, *tools.Toolbox, error) {
	ctl, err := drawing.New(r.config.ControllerOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	box := tools.NewToolbox()
	r.config.ConfigureToolbox(box)
	return ctl, box, nil
}

// build loads the backdrop, matches the canvas aspect to it and replays the
// state file and scripts in order.
func (s *sceneFlags) build(ctl *drawing.Controller, box *tools.Toolbox) (*image.RGBA, error) {
	img, err := backdrop.Open(s.backdrop)
	if err != nil {
		return nil, fmt.Errorf("failed to load backdrop %q: %w", s.backdrop, err)
	}
	if img != nil {
		b := img.Bounds()
		ctl.SetWidthHeight(float64(b.Dx()), float64(b.Dy()))
	}
	if s.state != "" {
		data, err := os.ReadFile(s.state)
		if err != nil {
			return nil, fmt.Errorf("failed to read state: %w", err)
		}
		if err := ctl.LoadState(data); err != nil {
			return nil, fmt.Errorf("%s: %w", s.state, err)
		}
	}
	for _, path := range s.scripts {
		if err := script.New(ctl, script.WithToolbox(box)).RunFile(path); err != nil {
			return nil, err
		}
	}
	return img, nil
}
