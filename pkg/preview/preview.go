// Package preview renders layout schematics and annotation overlays.
//
// A schematic is a quick raster of one layout's geometry: colored
// rectangles on a neutral background, one color per element class, with
// optional class-ID labels when a system font can be found. It answers
// "what did the placement engine do" without running the compositor.
//
// An overlay draws emitted annotation boxes back onto a rendered sample
// so annotation coordinates can be verified against actual pixels.
package preview

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/cropforge/cropforge/pkg/dataset"
)

// Options configure a Schematic raster.
type Options struct {
	// Background is the canvas fill as a hex color. Default "#1a1a1a".
	Background string

	// Scale resizes the raster relative to canvas pixels. Default 1.0.
	Scale float64

	// NoLabels skips class-ID labels even when a font is available.
	NoLabels bool
}

// goldenAngle spaces consecutive class hues far apart on the wheel.
const goldenAngle = 137.508

// ClassColor returns a stable, visually distinct color for a class ID.
func ClassColor(classID int) colorful.Color {
	hue := math.Mod(float64(classID)*goldenAngle, 360)
	return colorful.Hsv(hue, 0.65, 0.95)
}

// Schematic rasters one layout of a set as colored class rectangles.
func Schematic(set *dataset.LayoutSet, index int, opts Options) (image.Image, error) {
	if set == nil || len(set.Layouts) == 0 {
		return nil, fmt.Errorf("layout set is empty")
	}
	if index < 0 || index >= len(set.Layouts) {
		return nil, fmt.Errorf("layout index %d out of range (0-%d)", index, len(set.Layouts)-1)
	}

	bg := opts.Background
	if bg == "" {
		bg = "#1a1a1a"
	}
	bgColor, err := dataset.ParseHexColor(bg)
	if err != nil {
		return nil, err
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1.0
	}
	w := max(1, int(math.Round(float64(set.Canvas.Width)*scale)))
	h := max(1, int(math.Round(float64(set.Canvas.Height)*scale)))

	dc := gg.NewContext(w, h)
	dc.SetColor(bgColor)
	dc.Clear()

	drawLabels := !opts.NoLabels
	if drawLabels {
		if face := loadFace(math.Max(10, 14*scale)); face != nil {
			dc.SetFontFace(face)
		} else {
			// No system font resolves; render label-free
			drawLabels = false
		}
	}

	for _, p := range set.Layouts[index] {
		c := ClassColor(p.ClassID)
		x := float64(p.X) * scale
		y := float64(p.Y) * scale
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale

		dc.DrawRectangle(x, y, pw, ph)
		dc.SetRGBA(c.R, c.G, c.B, 0.55)
		dc.FillPreserve()
		dc.SetRGBA(c.R, c.G, c.B, 1)
		dc.SetLineWidth(2)
		dc.Stroke()

		if drawLabels {
			dc.SetRGB(1, 1, 1)
			dc.DrawStringAnchored(strconv.Itoa(p.ClassID), x+pw/2, y+ph/2, 0.5, 0.5)
		}
	}

	return dc.Image(), nil
}
