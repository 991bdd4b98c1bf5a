package placement

import (
	"math"
	"math/rand/v2"

	"github.com/cropforge/cropforge/pkg/dataset"
)

// =============================================================================
// Constants
// =============================================================================

// Placement constraint defaults. Callers may reconfigure via [Options];
// zero-valued fields fall back to these.
const (
	// DefaultMaxScale caps an element at 30% of each canvas dimension.
	DefaultMaxScale = 0.3

	// DefaultSpacing is the minimum pixel gap required between any two
	// placed rectangles.
	DefaultSpacing = 20

	// DefaultMaxAttempts bounds the random position search per element.
	DefaultMaxAttempts = 100

	// DefaultGridStep is the candidate coordinate pitch in pixels for
	// grid enumeration.
	DefaultGridStep = 50

	// LayoutAttemptFactor scales a density target into the grid retry
	// budget: enumeration gives up after target*factor attempts.
	LayoutAttemptFactor = 10
)

// Position density tiers for grid enumeration.
const (
	DensityLow     = "low"
	DensityMedium  = "medium"
	DensityHigh    = "high"
	DensityMaximum = "maximum"
)

// DensityTargets maps each density tier to its layout count target.
var DensityTargets = map[string]int{
	DensityLow:     50,
	DensityMedium:  200,
	DensityHigh:    500,
	DensityMaximum: 1000,
}

// DensityNames lists density tiers in ascending order.
var DensityNames = []string{DensityLow, DensityMedium, DensityHigh, DensityMaximum}

// =============================================================================
// Options
// =============================================================================

// Options configures the placement search for [PlaceOnce] and
// [EnumerateLayouts].
type Options struct {
	// Spacing is the minimum gap in pixels between any two placed
	// rectangles. Default: 20.
	Spacing int

	// MaxAttempts bounds the random position search per element in
	// single-layout mode. Default: 100.
	MaxAttempts int

	// MaxScale caps element size as a fraction of each canvas dimension.
	// Default: 0.3.
	MaxScale float64

	// GridStep is the candidate coordinate pitch in pixels for grid
	// enumeration. Default: 50.
	GridStep int
}

var defaultOpts = Options{
	Spacing:     DefaultSpacing,
	MaxAttempts: DefaultMaxAttempts,
	MaxScale:    DefaultMaxScale,
	GridStep:    DefaultGridStep,
}

// normalized returns a copy with zero-valued fields replaced by defaults.
// Pass nil for all defaults.
func (o *Options) normalized() Options {
	out := defaultOpts
	if o == nil {
		return out
	}
	if o.Spacing > 0 {
		out.Spacing = o.Spacing
	}
	if o.MaxAttempts > 0 {
		out.MaxAttempts = o.MaxAttempts
	}
	if o.MaxScale > 0 {
		out.MaxScale = o.MaxScale
	}
	if o.GridStep > 0 {
		out.GridStep = o.GridStep
	}
	return out
}

// =============================================================================
// Items - Elements Prepared for Placement
// =============================================================================

// Item is one element to place: its index into the caller's element
// list, its class label, and its intrinsic pixel size.
type Item struct {
	Index   int
	ClassID int
	Width   int
	Height  int
}

// ItemsFromElements builds placement items from source elements. Elements
// whose size cannot be determined are returned as skipped indices rather
// than items; the caller logs them as placement failures.
func ItemsFromElements(elems []dataset.SourceElement) (items []Item, skipped []int) {
	for i := range elems {
		w, h, ok := elems[i].EstimatedSize()
		if !ok {
			skipped = append(skipped, i)
			continue
		}
		items = append(items, Item{Index: i, ClassID: elems[i].ClassID, Width: w, Height: h})
	}
	return items, skipped
}

// =============================================================================
// Sizing Rule
// =============================================================================

// FitToCanvas downscales an element so that both its width and height fit
// within maxScale of the corresponding canvas dimension. The scale factor
// is min(maxWidth/width, maxHeight/height), applied uniformly to both
// axes so aspect ratio is preserved. Elements already within bounds are
// returned unchanged: the rule never scales up, and applying it twice
// returns the same dimensions as applying it once.
func FitToCanvas(width, height int, canvas dataset.CanvasSpec, maxScale float64) (int, int) {
	if maxScale <= 0 {
		maxScale = DefaultMaxScale
	}
	maxW := float64(canvas.Width) * maxScale
	maxH := float64(canvas.Height) * maxScale
	fw, fh := float64(width), float64(height)
	if fw <= maxW && fh <= maxH {
		return width, height
	}
	scale := min(maxW/fw, maxH/fh)
	w := int(math.Round(fw * scale))
	h := int(math.Round(fh * scale))
	return max(w, 1), max(h, 1)
}

// =============================================================================
// Overlap Test
// =============================================================================

// Overlaps reports whether two rectangles intrude on each other's spacing
// margin: true unless the rectangles are separated on at least one axis
// by more than the spacing.
func Overlaps(a, b dataset.Placement, spacing int) bool {
	return a.X+a.Width+spacing >= b.X &&
		a.X <= b.X+b.Width+spacing &&
		a.Y+a.Height+spacing >= b.Y &&
		a.Y <= b.Y+b.Height+spacing
}

func overlapsAny(placed dataset.Layout, p dataset.Placement, spacing int) bool {
	for _, q := range placed {
		if Overlaps(q, p, spacing) {
			return true
		}
	}
	return false
}

// =============================================================================
// Single-Layout Random Placement
// =============================================================================

// PlaceOnce computes a single layout by random search. Elements are
// processed in order; each tries up to MaxAttempts uniformly random
// in-bounds positions and keeps the first that clears every already
// placed rectangle by the spacing margin. Elements keep their intrinsic
// size unless they exceed the canvas outright, in which case they are
// rescued by the sizing rule before the search.
//
// An element that finds no valid slot is dropped from the layout and
// returned for the caller to log; dropped elements never fail the layout.
func PlaceOnce(items []Item, canvas dataset.CanvasSpec, rng *rand.Rand, opts *Options) (dataset.Layout, []Item) {
	o := opts.normalized()
	layout := make(dataset.Layout, 0, len(items))
	var dropped []Item

	for _, it := range items {
		w, h := it.Width, it.Height
		if w > canvas.Width || h > canvas.Height {
			w, h = FitToCanvas(w, h, canvas, o.MaxScale)
		}
		maxX := canvas.Width - w
		maxY := canvas.Height - h
		if maxX < 0 || maxY < 0 || w <= 0 || h <= 0 {
			dropped = append(dropped, it)
			continue
		}

		placed := false
		for range o.MaxAttempts {
			p := dataset.Placement{
				ElementIndex: it.Index,
				ClassID:      it.ClassID,
				X:            rng.IntN(maxX + 1),
				Y:            rng.IntN(maxY + 1),
				Width:        w,
				Height:       h,
			}
			if overlapsAny(layout, p, o.Spacing) {
				continue
			}
			layout = append(layout, p)
			placed = true
			break
		}
		if !placed {
			dropped = append(dropped, it)
		}
	}

	return layout, dropped
}
