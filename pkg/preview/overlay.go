package preview

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/cropforge/cropforge/pkg/dataset"
)

// Overlay draws annotation boxes onto a rendered sample so emitted
// coordinates can be checked against drawn pixels. Boxes are colored by
// class; the input image is not modified.
func Overlay(img image.Image, anns []dataset.Annotation) *image.NRGBA {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	stroke := max(2, int(0.004*float64(min(w, h))))

	for _, ann := range anns {
		r, g, b := ClassColor(ann.ClassID).RGB255()
		drawBox(nrgba, ann, w, h, color.NRGBA{R: r, G: g, B: b, A: 255}, stroke)
	}
	return nrgba
}

// boxToPixels converts a normalized center-form annotation to corner
// pixel coordinates, clamped to the image.
func boxToPixels(ann dataset.Annotation, w, h int) (x0, y0, x1, y1 int) {
	x0 = int(clamp(ann.XCenter-ann.Width/2, 0, 1)*float64(w) + 0.5)
	y0 = int(clamp(ann.YCenter-ann.Height/2, 0, 1)*float64(h) + 0.5)
	x1 = int(clamp(ann.XCenter+ann.Width/2, 0, 1)*float64(w) + 0.5)
	y1 = int(clamp(ann.YCenter+ann.Height/2, 0, 1)*float64(h) + 0.5)
	if x1 <= x0 {
		x1 = min(x0+1, w)
	}
	if y1 <= y0 {
		y1 = min(y0+1, h)
	}
	return x0, y0, x1, y1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func drawBox(img *image.NRGBA, ann dataset.Annotation, w, h int, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := boxToPixels(ann, w, h)
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
