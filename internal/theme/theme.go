// Package theme holds the colours used by the annotation window chrome.
package theme

import (
	"embed"

	"github.com/example/vodmark/internal/style"
)

//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the palette for the window around the canvas.
type Theme struct {
	Name string

	Background style.Color // behind the canvas
	Foreground style.Color

	ToolbarBackground style.Color
	ToolbarSeparator  style.Color

	ButtonBackground      style.Color
	ButtonBackgroundHover style.Color
	ButtonBackgroundPress style.Color
	ButtonActive          style.Color // the selected tool
	ButtonText            style.Color
	ButtonTextActive      style.Color
	ButtonBorder          style.Color

	// Canvas
	CheckerLight     style.Color
	CheckerDark      style.Color
	SelectionOutline style.Color
	Handle           style.Color
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            style.RGB(220, 220, 220),
		Foreground:            style.Black,
		ToolbarBackground:     style.RGB(220, 220, 220),
		ToolbarSeparator:      style.RGB(170, 170, 170),
		ButtonBackground:      style.RGB(200, 200, 200),
		ButtonBackgroundHover: style.RGB(180, 180, 180),
		ButtonBackgroundPress: style.RGB(150, 150, 150),
		ButtonActive:          style.RGB(90, 130, 200),
		ButtonText:            style.Black,
		ButtonTextActive:      style.White,
		ButtonBorder:          style.Black,
		CheckerLight:          style.RGB(220, 220, 220),
		CheckerDark:           style.RGB(192, 192, 192),
		SelectionOutline:      style.RGB(0, 120, 215),
		Handle:                style.White,
	}
}
