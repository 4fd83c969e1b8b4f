package render

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	mono, bold, italic bool
}

var (
	fontsOnce sync.Once
	fonts     map[fontKey]*opentype.Font
	fontsErr  error
)

func loadFonts() {
	src := []struct {
		key fontKey
		ttf []byte
	}{
		{fontKey{}, goregular.TTF},
		{fontKey{bold: true}, gobold.TTF},
		{fontKey{italic: true}, goitalic.TTF},
		{fontKey{bold: true, italic: true}, gobolditalic.TTF},
		{fontKey{mono: true}, gomono.TTF},
		{fontKey{mono: true, bold: true}, gomonobold.TTF},
		{fontKey{mono: true, italic: true}, gomonoitalic.TTF},
		{fontKey{mono: true, bold: true, italic: true}, gomonobolditalic.TTF},
	}
	fonts = make(map[fontKey]*opentype.Font, len(src))
	for _, e := range src {
		f, err := opentype.Parse(e.ttf)
		if err != nil {
			fontsErr = fmt.Errorf("parse font: %w", err)
			return
		}
		fonts[e.key] = f
	}
}

// keyFor picks a Go font for a family name. Families containing "mono" get
// Go Mono, everything else Go.
func keyFor(family string, weight int, style string) fontKey {
	return fontKey{
		mono:   strings.Contains(strings.ToLower(family), "mono"),
		bold:   weight >= 600,
		italic: style == "italic" || style == "oblique",
	}
}

type faceKey struct {
	font fontKey
	size float64
}

// faceCache hands out faces for one render call. Faces are not safe for
// concurrent use so each call gets its own cache.
type faceCache map[faceKey]font.Face

func (c faceCache) face(k fontKey, size float64) (font.Face, error) {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fontsErr
	}
	fk := faceKey{font: k, size: size}
	if f, ok := c[fk]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fonts[k], &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	c[fk] = f
	return f, nil
}

func (c faceCache) close() {
	for _, f := range c {
		f.Close()
	}
}
