package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow added to exported frames.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult is the padded image and where the original frame landed in it.
type ShadowResult struct {
	Image  *image.RGBA
	Offset image.Point
}

func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// ApplyShadow pads img and composites it over a blurred copy of its alpha.
// The result is zero based. With no opacity img is returned unchanged.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	src := img.Bounds()
	if src.Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	total := src.Union(shadow)

	mask := image.NewGray(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			mask.Pix[mask.PixOffset(x-padded.Min.X, y-padded.Min.Y)] = img.RGBAAt(x, y).A
		}
	}
	mask = blurGray(mask, radius)

	dst := image.NewRGBA(total.Sub(total.Min))
	tint := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, mask.Bounds().Add(shadow.Min.Sub(total.Min)), tint, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(dst, src.Sub(total.Min), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(total.Min)}
}
