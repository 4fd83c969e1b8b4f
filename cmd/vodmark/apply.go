package main

import (
	"fmt"
	"os"
)

// applyCmd runs scripts against a state file and writes the resulting state.
type applyCmd struct {
	*root
	scene  sceneFlags
	output string
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	c := &applyCmd{root: r.subFlags("apply")}
	fs := c.fs
	fs.StringVar(&c.scene.state, "state", "", "canvas state JSON to start from")
	fs.StringVar(&c.output, "output", "", "where to write the state (default stdout)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, &UsageError{of: c, msg: "apply needs at least one script"}
	}
	c.scene.scripts = append(c.scene.scripts, fs.Args()...)
	return c, nil
}

func (c *applyCmd) Run() error {
	ctl, box, err := c.newController()
	if err != nil {
		return err
	}
	if _, err := c.scene.build(ctl, box); err != nil {
		return err
	}
	data, err := ctl.State()
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if c.output == "" {
		_, err := fmt.Fprintln(c.stdout, string(data))
		return err
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
