package main

import (
	"fmt"

	"github.com/example/vodmark/internal/appstate"
	"github.com/example/vodmark/internal/tools"
)

// annotateCmd opens the drawing window.
type annotateCmd struct {
	*root
	scene  sceneFlags
	output string
	save   string
	tool   string
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	a := &annotateCmd{root: r.subFlags("annotate")}
	fs := a.fs
	a.scene.register(fs)
	fs.StringVar(&a.output, "output", "vodmark.png", "file written by the save shortcut")
	fs.StringVar(&a.save, "save-state", "", "state JSON written next to the image (default: output with .json)")
	fs.StringVar(&a.tool, "tool", "", "tool selected at start: brush, line, rect, circle, ellipse, triangle, text, select or blur")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		a.scene.backdrop = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: a, msg: "annotate takes at most one backdrop"}
	}
	if a.tool != "" {
		if _, ok := tools.NewToolbox().ByName(a.tool); !ok {
			return nil, &UsageError{of: a, msg: fmt.Sprintf("unknown tool %q", a.tool)}
		}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	ctl, box, err := a.newController()
	if err != nil {
		return err
	}
	img, err := a.scene.build(ctl, box)
	if err != nil {
		return err
	}
	st := appstate.New(ctl,
		appstate.WithToolbox(box),
		appstate.WithBackdrop(img),
		appstate.WithTheme(a.activeTheme),
		appstate.WithNotifier(a.notifier),
		appstate.WithOutput(a.output),
		appstate.WithStatePath(a.save),
		appstate.WithTool(a.tool),
	)
	st.Run()
	return nil
}
