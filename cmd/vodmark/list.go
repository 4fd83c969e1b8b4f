package main

import (
	"fmt"
	"strconv"

	"github.com/example/vodmark/internal/style"
)

type colorsCmd struct {
	*root
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	c := &colorsCmd{root: r.subFlags("colors")}
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *colorsCmd) Run() error {
	for i, nc := range style.Palette() {
		fmt.Fprintf(c.stdout, "%2d %-12s %s\n", i, nc.Name, nc.Color.Hex())
	}
	return nil
}

type widthsCmd struct {
	*root
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	c := &widthsCmd{root: r.subFlags("widths")}
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *widthsCmd) Run() error {
	for i, w := range style.BorderWidths() {
		fmt.Fprintf(c.stdout, "%d %spx\n", i, strconv.FormatFloat(w, 'f', -1, 64))
	}
	return nil
}

// themesCmd lists theme names, or prints one theme's fields.
type themesCmd struct {
	*root
	show string
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	c := &themesCmd{root: r.subFlags("themes")}
	c.fs.StringVar(&c.show, "show", "", "print the colours of one theme")
	c.fs.Usage = usageFunc(c)
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *themesCmd) Run() error {
	loader := c.config.ThemeLoader()
	if c.show == "" {
		for _, n := range loader.Names() {
			fmt.Fprintln(c.stdout, n)
		}
		return nil
	}
	t, err := loader.Load(c.show)
	if err != nil {
		return err
	}
	for _, kv := range t.Fields() {
		fmt.Fprintf(c.stdout, "%s = %s\n", kv[0], kv[1])
	}
	return nil
}
