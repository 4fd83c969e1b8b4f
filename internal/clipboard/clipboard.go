// Package clipboard moves rendered annotations and serialized canvas state
// through the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
)

// ErrNoState is returned when the clipboard text is not a canvas document.
var ErrNoState = errors.New("clipboard does not contain canvas state")

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stateText accepts clipboard text that looks like a serialized canvas.
func stateText(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.Contains(s, `"objects"`) {
		return nil, ErrNoState
	}
	return []byte(s), nil
}
