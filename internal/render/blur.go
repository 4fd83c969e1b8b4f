package render

import (
	"image"
	"math"
)

// blurPasses is how many box passes approximate a gaussian.
const blurPasses = 3

// BoxRadius converts a gaussian blur amount (sigma in pixels) into the radius
// of each of the box passes BlurRegion runs.
func BoxRadius(amount float64) int {
	if amount <= 0 {
		return 0
	}
	w := math.Sqrt(12*amount*amount/blurPasses + 1)
	r := int(math.Round((w - 1) / 2))
	if r < 1 {
		r = 1
	}
	return r
}

// BlurRegion blurs r of img in place. Pixels outside r are not sampled so
// the region reads as frosted glass over whatever is underneath.
func BlurRegion(img *image.RGBA, r image.Rectangle, amount float64) {
	r = r.Intersect(img.Bounds())
	radius := BoxRadius(amount)
	if r.Empty() || radius == 0 {
		return
	}
	w, h := r.Dx(), r.Dy()
	buf := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(buf[y*w*4:(y+1)*w*4], img.Pix[off:off+w*4])
	}
	for i := 0; i < blurPasses; i++ {
		buf = boxBlur(buf, w, h, w*4, 4, radius)
	}
	for y := 0; y < h; y++ {
		off := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(img.Pix[off:off+w*4], buf[y*w*4:(y+1)*w*4])
	}
}

func blurGray(src *image.Gray, radius int) *image.Gray {
	out := image.NewGray(src.Bounds())
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	b := src.Bounds()
	out.Pix = boxBlur(src.Pix, b.Dx(), b.Dy(), src.Stride, 1, radius)
	return out
}

// boxBlur runs a separable box blur over pix, which holds h rows of w pixels
// with the given number of interleaved channels. The window is clamped at the
// edges.
func boxBlur(pix []uint8, w, h, stride, channels, radius int) []uint8 {
	tmp := make([]uint8, len(pix))
	dst := make([]uint8, len(pix))
	prefix := make([]int, max(w, h)+1)

	for y := 0; y < h; y++ {
		row := y * stride
		for c := 0; c < channels; c++ {
			for x := 0; x < w; x++ {
				prefix[x+1] = prefix[x] + int(pix[row+x*channels+c])
			}
			for x := 0; x < w; x++ {
				x0 := max(x-radius, 0)
				x1 := min(x+radius, w-1)
				tmp[row+x*channels+c] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
			}
		}
	}

	for x := 0; x < w; x++ {
		for c := 0; c < channels; c++ {
			col := x*channels + c
			for y := 0; y < h; y++ {
				prefix[y+1] = prefix[y] + int(tmp[y*stride+col])
			}
			for y := 0; y < h; y++ {
				y0 := max(y-radius, 0)
				y1 := min(y+radius, h-1)
				dst[y*stride+col] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
			}
		}
	}
	return dst
}
