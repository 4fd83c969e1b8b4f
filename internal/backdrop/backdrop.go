// Package backdrop loads the frame annotations are drawn over: an image
// file, the clipboard, a screen grab or a solid colour.
package backdrop

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/vodmark/internal/clipboard"
	"github.com/example/vodmark/internal/style"
)

// SolidSize is the size of backdrops created from a colour.
var SolidSize = image.Pt(1920, 1080)

var (
	// ErrUnsupported is returned when screen capture is unavailable.
	ErrUnsupported = errors.New("screen capture is not supported on this platform")
	errNoMonitors  = errors.New("no monitors available")
)

// Monitor describes one output in the screen layout.
type Monitor struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Open resolves a backdrop source. Accepted forms are "clipboard",
// "screen" or "screen:<monitor>", "solid:<colour>" and a file path. An
// empty source returns a nil image.
func Open(source string) (*image.RGBA, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return nil, nil
	case source == "clipboard":
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("clipboard backdrop: %w", err)
		}
		return toRGBA(img), nil
	case source == "screen" || strings.HasPrefix(source, "screen:"):
		_, sel, _ := strings.Cut(source, ":")
		return Screen(sel)
	case strings.HasPrefix(source, "solid:"):
		c, err := style.ParseColor(strings.TrimPrefix(source, "solid:"))
		if err != nil {
			return nil, err
		}
		return Solid(SolidSize.X, SolidSize.Y, c), nil
	}
	return Load(source)
}

// Load decodes an image file.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return toRGBA(img), nil
}

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// Screen captures the whole screen, or the monitor matching selector.
func Screen(selector string) (*image.RGBA, error) {
	shot, err := captureRoot()
	if err != nil {
		return nil, err
	}
	if selector == "" {
		return shot, nil
	}
	monitors, err := Monitors()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, selector)
	if err != nil {
		return nil, err
	}
	return Crop(shot, mon.Rect)
}

// FindMonitor selects by "primary", index ("1" or "#1") or name substring.
// An empty selector picks the first monitor.
func FindMonitor(monitors []Monitor, selector string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	switch sel {
	case "":
		return monitors[0], nil
	case "primary":
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return Monitor{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, m := range monitors {
		if strings.Contains(strings.ToLower(m.Name), sel) {
			return m, nil
		}
	}
	return Monitor{}, fmt.Errorf("monitor %q not found", selector)
}

// Crop copies rect out of src into a new image at the origin.
func Crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
