//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package backdrop

import "image"

func captureRoot() (*image.RGBA, error) { return nil, ErrUnsupported }

// Monitors is not available on this platform.
func Monitors() ([]Monitor, error) { return nil, ErrUnsupported }
