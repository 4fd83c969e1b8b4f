package appstate

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/vodmark/internal/canvas"
	"github.com/example/vodmark/internal/clipboard"
	"github.com/example/vodmark/internal/drawing"
	"github.com/example/vodmark/internal/notify"
	"github.com/example/vodmark/internal/style"
	"github.com/example/vodmark/internal/theme"
	"github.com/example/vodmark/internal/tools"
)

const messageDuration = 2 * time.Second

// session is the window state that does not depend on the shiny driver.
type session struct {
	ctl       *drawing.Controller
	box       *tools.Toolbox
	backdrop  *image.RGBA
	theme     *theme.Theme
	notifier  *notify.Notifier
	output    string
	statePath string

	width, height int
	toolName      string
	pressed       bool

	message      string
	messageUntil time.Time
	now          func() time.Time

	writeImage func(image.Image) error
	writeState func([]byte) error
	readImage  func() (image.Image, error)
	readState  func() ([]byte, error)
	quit       func()

	actions map[string]func()
	keys    map[KeyShortcut]string

	toolButtons []*CacheButton
	swatches    []image.Rectangle
	widthRows   []image.Rectangle
	shortcuts   []*Shortcut
	hoverTool   int
	hoverShort  int

	frame *image.RGBA
	dirty bool
}

func newSession(ctl *drawing.Controller, box *tools.Toolbox, th *theme.Theme) *session {
	s := &session{
		ctl:        ctl,
		box:        box,
		theme:      th,
		output:     "vodmark.png",
		now:        time.Now,
		writeImage: clipboard.WriteImage,
		writeState: clipboard.WriteState,
		readImage:  clipboard.ReadImage,
		readState:  clipboard.ReadState,
		quit:       func() {},
		hoverTool:  -1,
		hoverShort: -1,
		dirty:      true,
	}
	ctl.Canvas().SetRenderHook(func() { s.dirty = true })
	s.registerActions()
	for _, d := range toolDefs {
		s.toolButtons = append(s.toolButtons, &CacheButton{Button: &ToolButton{def: d, theme: th, onSelect: s.selectTool}})
	}
	for _, sc := range shortcutBar {
		s.shortcuts = append(s.shortcuts, &Shortcut{label: sc.label, action: sc.action, theme: th, run: s.run})
	}
	if ctl.ActiveTool() == nil {
		s.selectTool("rect")
	}
	return s
}

func (s *session) register(name string, keys KeyboardShortcuts, fn func()) {
	s.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			s.keys[sc] = name
		}
	}
}

func (s *session) registerActions() {
	s.actions = map[string]func(){}
	s.keys = map[KeyShortcut]string{}
	for _, d := range toolDefs {
		name := d.name
		s.register("tool:"+name, shortcutList{{Rune: d.key}}, func() { s.selectTool(name) })
	}
	ctrl := key.ModControl
	s.register("undo", shortcutList{{Code: key.CodeZ, Modifiers: ctrl}}, func() {
		if err := s.ctl.Undo(); err != nil {
			log.Printf("undo: %v", err)
		}
	})
	s.register("redo", shortcutList{{Code: key.CodeY, Modifiers: ctrl}, {Code: key.CodeZ, Modifiers: ctrl | key.ModShift}}, func() {
		if err := s.ctl.Redo(); err != nil {
			log.Printf("redo: %v", err)
		}
	})
	s.register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, s.ctl.DeleteSelected)
	s.register("clear", shortcutList{{Code: key.CodeL, Modifiers: ctrl}}, s.ctl.Clear)
	s.register("deselect", shortcutList{{Code: key.CodeEscape}}, s.ctl.Canvas().DiscardActiveObject)
	s.register("save", shortcutList{{Code: key.CodeS, Modifiers: ctrl}}, s.save)
	s.register("copy", shortcutList{{Code: key.CodeC, Modifiers: ctrl}}, s.copyImage)
	s.register("copystate", shortcutList{{Code: key.CodeC, Modifiers: ctrl | key.ModShift}}, s.copyState)
	s.register("paste", shortcutList{{Code: key.CodeV, Modifiers: ctrl}}, s.paste)
	s.register("quit", shortcutList{{Rune: 'q'}}, func() { s.quit() })
}

// run executes a named action.
func (s *session) run(name string) {
	if fn, ok := s.actions[name]; ok {
		fn()
		s.dirty = true
	}
}

func (s *session) selectTool(name string) {
	t, ok := s.box.ByName(name)
	if !ok {
		return
	}
	s.ctl.SetActiveTool(t)
	s.toolName = name
}

func (s *session) flash(msg string) {
	s.message = msg
	s.messageUntil = s.now().Add(messageDuration)
	log.Print(msg)
}

// background avoids handing the renderer a typed nil.
func (s *session) background() image.Image {
	if s.backdrop == nil {
		return nil
	}
	return s.backdrop
}

// canvasRect is the window area showing the canvas: the largest rectangle
// with the backdrop's aspect ratio (16:9 without one) centred in the space
// left by the chrome.
func (s *session) canvasRect() image.Rectangle {
	area := image.Rect(toolbarWidth, titleHeight, s.width, s.height-bottomHeight)
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return image.Rectangle{}
	}
	aspect := 16.0 / 9.0
	if s.backdrop != nil && !s.backdrop.Bounds().Empty() {
		b := s.backdrop.Bounds()
		aspect = float64(b.Dx()) / float64(b.Dy())
	}
	w, h := area.Dx(), int(math.Round(float64(area.Dx())/aspect))
	if h > area.Dy() {
		w, h = int(math.Round(float64(area.Dy())*aspect)), area.Dy()
	}
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func (s *session) resize(w, h int) {
	s.width, s.height = w, h
	s.layout()
	r := s.canvasRect()
	s.ctl.SetWidthHeight(float64(r.Dx()), float64(r.Dy()))
	s.dirty = true
}

// layout positions the toolbar and shortcut bar controls.
func (s *session) layout() {
	y := titleHeight
	for _, b := range s.toolButtons {
		b.SetRect(image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}

	y += 4
	x := 4
	s.swatches = s.swatches[:0]
	for range style.Palette() {
		if x+swatchSize > toolbarWidth {
			x = 4
			y += swatchSize + 2
		}
		s.swatches = append(s.swatches, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 2
	}
	y += swatchSize + 6

	s.widthRows = s.widthRows[:0]
	for range style.BorderWidths() {
		s.widthRows = append(s.widthRows, image.Rect(0, y, toolbarWidth, y+widthRowSize))
		y += widthRowSize
	}

	x = toolbarWidth + 4
	top := s.height - bottomHeight + 2
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for _, sc := range s.shortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, top, x+w+2, top+bottomHeight-4))
		x += w + 12
	}
}

// pointer routes a mouse event to the chrome or, inside the canvas and for
// the rest of a drag that started there, to the canvas in display
// coordinates.
func (s *session) pointer(p image.Point, btn mouse.Button, dir mouse.Direction) {
	if dir == mouse.DirPress && s.message != "" && s.now().Before(s.messageUntil) {
		s.messageUntil = time.Time{}
		s.dirty = true
		return
	}
	r := s.canvasRect()
	if !s.pressed && !p.In(r) {
		s.hover(p)
		if dir == mouse.DirPress {
			s.clickChrome(p, btn)
		}
		return
	}
	dp := canvas.Point{X: float64(p.X - r.Min.X), Y: float64(p.Y - r.Min.Y)}
	c := s.ctl.Canvas()
	switch dir {
	case mouse.DirPress:
		if btn != mouse.ButtonLeft {
			return
		}
		s.pressed = true
		c.DispatchPointer(canvas.MouseDown, dp)
	case mouse.DirRelease:
		if !s.pressed || btn != mouse.ButtonLeft {
			return
		}
		s.pressed = false
		c.DispatchPointer(canvas.MouseUp, dp)
	case mouse.DirNone:
		c.DispatchPointer(canvas.MouseMove, dp)
	}
}

func (s *session) hover(p image.Point) {
	s.hoverTool, s.hoverShort = -1, -1
	for i, b := range s.toolButtons {
		if p.In(b.Rect()) {
			s.hoverTool = i
		}
	}
	for i, sc := range s.shortcuts {
		if p.In(sc.Rect()) {
			s.hoverShort = i
		}
	}
}

func (s *session) clickChrome(p image.Point, btn mouse.Button) {
	s.dirty = true
	for _, b := range s.toolButtons {
		if p.In(b.Rect()) && btn == mouse.ButtonLeft {
			b.Activate()
			return
		}
	}
	for _, sc := range s.shortcuts {
		if p.In(sc.Rect()) && btn == mouse.ButtonLeft {
			sc.Activate()
			return
		}
	}
	pal := style.Palette()
	for i, r := range s.swatches {
		if p.In(r) {
			s.pickColor(pal[i].Color, btn)
			return
		}
	}
	widths := style.BorderWidths()
	for i, r := range s.widthRows {
		if p.In(r) {
			s.pickWidth(widths[i])
			return
		}
	}
}

// pickColor sets the outline colour on right click, the text colour when
// the text tool is active and the fill colour otherwise.
func (s *session) pickColor(c style.Color, btn mouse.Button) {
	switch {
	case btn == mouse.ButtonRight:
		s.ctl.SetOutlineColor(c)
	case s.toolName == "text":
		s.ctl.SetTextColor(c)
	default:
		s.ctl.SetFillColor(c)
	}
}

// pickWidth sets the stroke width of the brush and line tools, or the
// border width of everything else.
func (s *session) pickWidth(w float64) {
	switch s.toolName {
	case "brush":
		s.box.Brush.SetWidth(math.Max(w, 1))
	case "line":
		s.box.Line.SetWidth(math.Max(w, 1))
	default:
		s.ctl.SetBorderWidth(w)
	}
}

// key handles typing into the edited textbox first and shortcuts second.
func (s *session) key(e key.Event) {
	if e.Direction == key.DirRelease {
		return
	}
	s.dirty = true
	if s.ctl.ActiveTool() == tools.Tool(s.box.Text) && s.box.Text.Editing() != nil {
		if s.typeText(e) {
			return
		}
	}
	if name, ok := s.lookup(e); ok {
		s.run(name)
	}
}

func (s *session) lookup(e key.Event) (string, bool) {
	if name, ok := s.keys[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]; ok {
		return name, true
	}
	if e.Rune > 0 {
		name, ok := s.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers &^ key.ModShift}]
		return name, ok
	}
	return "", false
}

// typeText edits the textbox being written. It reports false for keys that
// should fall through to shortcuts.
func (s *session) typeText(e key.Event) bool {
	if e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		return false
	}
	tb := s.box.Text.Editing()
	switch e.Code {
	case key.CodeEscape:
		// reactivating the tool ends the edit
		s.ctl.SetActiveTool(s.box.Text)
		return true
	case key.CodeDeleteBackspace:
		if _, size := utf8.DecodeLastRuneInString(tb.Text); size > 0 {
			s.box.Text.SetText(tb.Text[:len(tb.Text)-size])
		}
		return true
	case key.CodeReturnEnter:
		s.box.Text.SetText(tb.Text + "\n")
		return true
	}
	if e.Rune >= 0x20 && unicode.IsPrint(e.Rune) {
		s.box.Text.SetText(tb.Text + string(e.Rune))
		return true
	}
	return false
}

func (s *session) statePathFor() string {
	if s.statePath != "" {
		return s.statePath
	}
	return strings.TrimSuffix(s.output, filepath.Ext(s.output)) + ".json"
}

// save writes the rendered PNG and the canvas document beside it.
func (s *session) save() {
	if err := s.savePNG(); err != nil {
		log.Printf("save: %v", err)
		s.flash("save failed")
		return
	}
	state, err := s.ctl.State()
	if err == nil {
		err = os.WriteFile(s.statePathFor(), state, 0o644)
	}
	if err != nil {
		log.Printf("save state: %v", err)
	}
	s.notifier.Save(s.output)
	s.flash(fmt.Sprintf("saved %s", s.output))
}

func (s *session) savePNG() error {
	out, err := os.Create(s.output)
	if err != nil {
		return err
	}
	if err := png.Encode(out, s.ctl.Render(s.background())); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (s *session) copyImage() {
	img := s.ctl.Render(s.background())
	if err := s.writeImage(img); err != nil {
		log.Printf("copy: %v", err)
		s.flash("copy failed")
		return
	}
	s.notifier.Copy("image", img)
	s.flash("image copied to clipboard")
}

func (s *session) copyState() {
	state, err := s.ctl.State()
	if err == nil {
		err = s.writeState(state)
	}
	if err != nil {
		log.Printf("copy state: %v", err)
		s.flash("copy failed")
		return
	}
	s.notifier.Copy("annotations", nil)
	s.flash("annotations copied to clipboard")
}

// paste loads canvas state from the clipboard, or failing that replaces
// the backdrop with a clipboard image.
func (s *session) paste() {
	state, err := s.readState()
	if err == nil {
		if err := s.ctl.LoadState(state); err != nil {
			log.Printf("paste: %v", err)
			s.flash("paste failed")
			return
		}
		s.flash("pasted annotations")
		return
	}
	if !errors.Is(err, clipboard.ErrNoState) {
		log.Printf("paste state: %v", err)
	}
	img, err := s.readImage()
	if err != nil {
		log.Printf("paste: %v", err)
		s.flash("nothing to paste")
		return
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	s.backdrop = rgba
	s.resize(s.width, s.height)
	s.flash("pasted backdrop")
}

// compose draws the full window.
func (s *session) compose() *image.RGBA {
	th := s.theme
	dst := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	fillRect(dst, dst.Bounds(), th.Background)

	r := s.canvasRect()
	if !r.Empty() {
		drawCheckerboard(dst, r, 8, th.CheckerLight, th.CheckerDark)
		if s.dirty || s.frame == nil {
			s.frame = s.ctl.Render(s.background())
			s.dirty = false
		}
		if !s.frame.Bounds().Empty() {
			xdraw.ApproxBiLinear.Scale(dst, r, s.frame, s.frame.Bounds(), draw.Over, nil)
		}
		s.drawSelection(dst, r)
	}
	s.drawTitle(dst)
	s.drawToolbar(dst)
	s.drawShortcuts(dst)
	s.drawMessage(dst)
	return dst
}

// toDisplay maps a backing rectangle into window pixels inside r.
func (s *session) toDisplay(b canvas.Rect, r image.Rectangle) image.Rectangle {
	bw, bh := s.ctl.BackingSize()
	if bw == 0 || bh == 0 {
		return image.Rectangle{}
	}
	sx := float64(r.Dx()) / float64(bw)
	sy := float64(r.Dy()) / float64(bh)
	return image.Rect(
		r.Min.X+int(math.Floor(b.X*sx)),
		r.Min.Y+int(math.Floor(b.Y*sy)),
		r.Min.X+int(math.Ceil((b.X+b.W)*sx)),
		r.Min.Y+int(math.Ceil((b.Y+b.H)*sy)),
	)
}

func (s *session) drawSelection(dst *image.RGBA, r image.Rectangle) {
	for _, o := range s.ctl.Canvas().ActiveObjects() {
		b := s.toDisplay(o.Bounds(), r)
		strokeRect(dst, b.Inset(-1), s.theme.SelectionOutline, 1)
		if o.Type == canvas.KindLine || o.Type == canvas.KindPath {
			continue
		}
		hs := s.toDisplay(canvas.Rect{W: tools.HandleSize, H: tools.HandleSize}, image.Rectangle{Max: r.Size()}).Dx()
		h := image.Rect(b.Max.X-hs, b.Max.Y-hs, b.Max.X+hs, b.Max.Y+hs)
		fillRect(dst, h, s.theme.Handle)
		strokeRect(dst, h, s.theme.SelectionOutline, 1)
	}
}

func (s *session) drawTitle(dst *image.RGBA) {
	fillRect(dst, image.Rect(0, 0, s.width, titleHeight), s.theme.ToolbarBackground)
	title := "vodmark"
	if s.ctl.CanUndo() {
		title += " *"
	}
	drawLabel(dst, 4, 16, title, s.theme.Foreground)
	st := s.ctl.Style()
	info := fmt.Sprintf("fill %s  outline %s  text %s  border %g", st.Fill.Hex(), st.Outline.Hex(), st.Text.Hex(), st.BorderWidth)
	drawLabel(dst, toolbarWidth+4, 16, info, s.theme.Foreground)
}

func (s *session) drawToolbar(dst *image.RGBA) {
	th := s.theme
	fillRect(dst, image.Rect(0, titleHeight, toolbarWidth, s.height-bottomHeight), th.ToolbarBackground)
	fillRect(dst, image.Rect(toolbarWidth-1, titleHeight, toolbarWidth, s.height-bottomHeight), th.ToolbarSeparator)
	for i, b := range s.toolButtons {
		state := StateDefault
		if tb := b.Button.(*ToolButton); tb.def.name == s.toolName {
			state = StatePressed
		} else if i == s.hoverTool {
			state = StateHover
		}
		b.Draw(dst, state)
	}

	st := s.ctl.Style()
	pal := style.Palette()
	for i, r := range s.swatches {
		c := pal[i].Color
		if c.IsTransparent() {
			drawCheckerboard(dst, r, 4, th.CheckerLight, th.CheckerDark)
		} else {
			fillRect(dst, r, c)
		}
		switch c {
		case st.Fill:
			strokeRect(dst, r, th.ButtonActive, 2)
		case st.Outline:
			strokeRect(dst, r.Inset(-1), th.ButtonBorder, 1)
		}
	}

	widths := style.BorderWidths()
	for i, r := range s.widthRows {
		bg := th.ButtonBackground
		if widths[i] == s.currentWidth() {
			bg = th.ButtonBackgroundPress
		}
		fillRect(dst, r, bg)
		drawLabel(dst, r.Min.X+4, r.Min.Y+12, fmt.Sprintf("%g", widths[i]), th.ButtonText)
		if w := int(widths[i]); w > 0 {
			mid := r.Min.Y + r.Dy()/2
			fillRect(dst, image.Rect(r.Min.X+24, mid-w/2, r.Max.X-4, mid-w/2+max(w, 1)), th.ButtonText)
		}
	}
}

func (s *session) currentWidth() float64 {
	switch s.toolName {
	case "brush":
		return s.box.Brush.Width()
	case "line":
		return s.box.Line.Width()
	}
	return s.ctl.Style().BorderWidth
}

func (s *session) drawShortcuts(dst *image.RGBA) {
	fillRect(dst, image.Rect(0, s.height-bottomHeight, s.width, s.height), s.theme.ToolbarBackground)
	for i, sc := range s.shortcuts {
		state := StateDefault
		if i == s.hoverShort {
			state = StateHover
		}
		sc.Draw(dst, state)
	}
}

func (s *session) drawMessage(dst *image.RGBA) {
	if s.message == "" || !s.now().Before(s.messageUntil) {
		return
	}
	face := loadMessageFace()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(s.theme.Foreground), Face: face}
	w := d.MeasureString(s.message).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	px := (s.width - w) / 2
	py := (s.height-ascent-descent)/2 + ascent
	box := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	bg := s.theme.Background
	bg.A = 0.9
	fillRect(dst, box, bg)
	strokeRect(dst, box, s.theme.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(s.message)
}
