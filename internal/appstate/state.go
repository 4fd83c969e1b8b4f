// Package appstate hosts a drawing controller in a desktop window.
package appstate

import (
	"image"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/vodmark/internal/drawing"
	"github.com/example/vodmark/internal/notify"
	"github.com/example/vodmark/internal/theme"
	"github.com/example/vodmark/internal/tools"
)

// AppState holds the window configuration.
type AppState struct {
	ctl       *drawing.Controller
	box       *tools.Toolbox
	backdrop  *image.RGBA
	theme     *theme.Theme
	notifier  *notify.Notifier
	output    string
	statePath string
	tool      string
	title     string

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithToolbox shares tool instances, for example with a script runner.
func WithToolbox(tb *tools.Toolbox) Option { return func(a *AppState) { a.box = tb } }

// WithBackdrop sets the frame shown under the annotations.
func WithBackdrop(img *image.RGBA) Option { return func(a *AppState) { a.backdrop = img } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithNotifier reports saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOutput sets the PNG written by save.
func WithOutput(out string) Option { return func(a *AppState) { a.output = out } }

// WithStatePath sets where save writes the canvas document. By default it
// sits next to the PNG with a .json extension.
func WithStatePath(p string) Option { return func(a *AppState) { a.statePath = p } }

// WithTool picks the tool active when the window opens.
func WithTool(name string) Option { return func(a *AppState) { a.tool = name } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState for ctl.
func New(ctl *drawing.Controller, opts ...Option) *AppState {
	a := &AppState{ctl: ctl, title: "vodmark", updateCh: make(chan struct{}, 1)}
	for _, o := range opts {
		o(a)
	}
	if a.box == nil {
		a.box = tools.NewToolbox()
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	return a
}

// NotifyChanged requests a repaint after the controller was changed from
// outside the window.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) session() *session {
	s := newSession(a.ctl, a.box, a.theme)
	s.backdrop = a.backdrop
	s.notifier = a.notifier
	if a.output != "" {
		s.output = a.output
	}
	s.statePath = a.statePath
	if a.tool != "" {
		s.selectTool(a.tool)
	}
	return s
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// windowSize picks an initial size that shows the canvas at half its
// backing resolution.
func (a *AppState) windowSize() (int, int) {
	fitToolbar()
	bw, bh := a.ctl.BackingSize()
	if a.backdrop != nil {
		b := a.backdrop.Bounds()
		bw = bh * b.Dx() / max(b.Dy(), 1)
	}
	return bw/2 + toolbarWidth, bh/2 + titleHeight + bottomHeight
}

func (a *AppState) Main(s screen.Screen) {
	width, height := a.windowSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		log.Printf("new window: %v", err)
		a.notifyClose()
		return
	}
	defer w.Release()
	defer a.notifyClose()

	ss := a.session()
	ss.quit = func() { w.Send(lifecycle.Event{To: lifecycle.StageDead}) }
	ss.resize(width, height)
	defer a.ctl.Canvas().SetRenderHook(nil)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	// the newest frame replaces one not yet uploaded
	frames := make(chan *image.RGBA, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for img := range frames {
			publish(s, w, img)
		}
	}()
	defer func() {
		close(frames)
		wg.Wait()
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			ss.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			if e.External {
				ss.dirty = true
			}
			img := ss.compose()
			select {
			case frames <- img:
			default:
				select {
				case <-frames:
				default:
				}
				frames <- img
			}
		case mouse.Event:
			ss.pointer(image.Pt(int(e.X), int(e.Y)), e.Button, e.Direction)
			w.Send(paint.Event{})
		case key.Event:
			ss.key(e)
			w.Send(paint.Event{})
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func publish(s screen.Screen, w screen.Window, img *image.RGBA) {
	b, err := s.NewBuffer(img.Bounds().Size())
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	draw.Draw(b.RGBA(), b.Bounds(), img, image.Point{}, draw.Src)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
