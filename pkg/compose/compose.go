// Package compose rasterizes layouts into labeled synthetic images.
//
// A [Renderer] draws each placed element onto a background-filled canvas,
// applies the cosmetic variant (rotation in right angles, uniform scale,
// optional photometric jitter) and emits the encoded raster together
// with annotation lines describing the drawn boxes. Geometry search and
// rendering are decoupled: the same layout can be rendered many times
// under different cosmetics without recomputing placements.
package compose

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/imageio"
)

// Canonical cosmetic variant axes.
var (
	// Rotations are the supported right-angle rotations in degrees.
	Rotations = []int{0, 90, 180, 270}

	// Scales are the canonical uniform scale factors for sweeps.
	Scales = []float64{0.8, 1.0, 1.2}
)

// ValidRotation reports whether deg is one of the supported right angles.
func ValidRotation(deg int) bool {
	switch deg {
	case 0, 90, 180, 270:
		return true
	}
	return false
}

// RotationSet returns the rotation axis for a sweep: all four right
// angles when enabled, otherwise just 0.
func RotationSet(enabled bool) []int {
	if enabled {
		return Rotations
	}
	return []int{0}
}

// ScaleSet returns the scale axis for a sweep: the canonical factors
// when enabled, otherwise just 1.0.
func ScaleSet(enabled bool) []float64 {
	if enabled {
		return Scales
	}
	return []float64{1.0}
}

// =============================================================================
// Renderer
// =============================================================================

// Renderer rasterizes layouts for one canvas spec. Images holds the
// decoded source elements indexed like the element list the layouts were
// computed against; a nil entry means that element failed to decode and
// any layout referencing it aborts rather than rendering a partial
// sample.
type Renderer struct {
	Canvas  dataset.CanvasSpec
	Images  []image.Image
	Format  string // output encoding, defaults to jpg
	Quality int    // lossy encoder quality, defaults to 92
}

// Render draws one layout under one cosmetic variant and returns the
// encoded sample. The caller supplies the filename stem (uniqueness is
// the session's concern) and the random source used for augmentation
// draws.
func (r *Renderer) Render(layout dataset.Layout, cos dataset.Cosmetic, rng *rand.Rand, stem string) (*dataset.Result, error) {
	bgHex := cos.Background
	if bgHex == "" {
		bgHex = "#000000"
	}
	bg, err := dataset.ParseHexColor(bgHex)
	if err != nil {
		return nil, err
	}
	if !ValidRotation(cos.Rotation) {
		return nil, fmt.Errorf("unsupported rotation %d (must be 0, 90, 180 or 270)", cos.Rotation)
	}
	scale := cos.Scale
	if scale <= 0 {
		scale = 1.0
	}
	if cos.Augment && rng == nil {
		return nil, fmt.Errorf("augmentation requires a random source")
	}

	canvas := imaging.New(r.Canvas.Width, r.Canvas.Height, bg)
	anns := make([]dataset.Annotation, 0, len(layout))

	for _, p := range layout {
		if p.ElementIndex < 0 || p.ElementIndex >= len(r.Images) {
			return nil, fmt.Errorf("layout references element %d outside the %d loaded images", p.ElementIndex, len(r.Images))
		}
		src := r.Images[p.ElementIndex]
		if src == nil {
			return nil, fmt.Errorf("element %d has no decoded image", p.ElementIndex)
		}

		sprite, box := transform(src, p, cos.Rotation, scale, r.Canvas)
		if box.Empty() {
			continue
		}
		canvas = imaging.Paste(canvas, sprite, box.Min)

		// The annotation describes the drawn extent clipped to the
		// canvas, so normalized values stay within [0,1] even when a
		// scaled-up sprite hangs over an edge.
		clipped := box.Intersect(image.Rect(0, 0, r.Canvas.Width, r.Canvas.Height))
		if clipped.Empty() {
			continue
		}
		anns = append(anns, dataset.Annotate(p.ClassID, clipped.Min.X, clipped.Min.Y, clipped.Dx(), clipped.Dy(), r.Canvas))
	}

	if cos.Augment {
		canvas = Augment(canvas, rng)
	}

	format := r.Format
	if format == "" {
		format = dataset.FormatJPG
	}
	data, err := imageio.Encode(canvas, format, r.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return &dataset.Result{
		Stem:       stem,
		Filename:   stem + "." + format,
		Format:     format,
		Image:      data,
		Annotation: dataset.FormatAnnotations(anns),
		Canvas:     r.Canvas,
		Cosmetic:   cos,
		Placements: layout,
	}, nil
}

// transform resizes and rotates one element sprite and computes where its
// axis-aligned footprint lands. The footprint is centered on the base
// placement's center; 90 and 270 degree rotations swap the footprint's
// width and height because the occupied extent of a non-square sprite
// really does swap.
func transform(src image.Image, p dataset.Placement, rotation int, scale float64, canvas dataset.CanvasSpec) (image.Image, image.Rectangle) {
	rw := max(1, int(math.Round(float64(p.Width)*scale)))
	rh := max(1, int(math.Round(float64(p.Height)*scale)))

	sprite := src
	b := src.Bounds()
	if b.Dx() != rw || b.Dy() != rh {
		sprite = imaging.Resize(src, rw, rh, imaging.Lanczos)
	}

	fw, fh := rw, rh
	switch rotation {
	case 90:
		sprite = imaging.Rotate90(sprite)
		fw, fh = rh, rw
	case 180:
		sprite = imaging.Rotate180(sprite)
	case 270:
		sprite = imaging.Rotate270(sprite)
		fw, fh = rh, rw
	}

	cx := float64(p.X) + float64(p.Width)/2
	cy := float64(p.Y) + float64(p.Height)/2
	x0 := int(math.Round(cx - float64(fw)/2))
	y0 := int(math.Round(cy - float64(fh)/2))

	return sprite, image.Rect(x0, y0, x0+fw, y0+fh)
}
