package placement

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cropforge/cropforge/pkg/dataset"
)

// =============================================================================
// Grid-Based Multi-Layout Enumeration
// =============================================================================

// EnumerateLayouts enumerates layouts for a variation sweep by placing
// elements on a freshly shuffled coordinate grid per attempt. Every
// element is first capped by the sizing rule, then placed on candidates
// {0, step, 2*step, ...} in both axes. Layouts are not deduplicated;
// on realistic canvases the candidate space makes repeats unlikely.
//
// Unlike single-layout mode, a grid candidate must place all elements;
// partial candidates are discarded and enumeration retries with a fresh
// shuffle. Enumeration stops when the density target is reached or the
// attempt budget (target * LayoutAttemptFactor) is exhausted; falling
// short of the target is not an error, the layouts found so far are
// returned.
func EnumerateLayouts(items []Item, canvas dataset.CanvasSpec, density string, rng *rand.Rand, opts *Options) ([]dataset.Layout, error) {
	target, ok := DensityTargets[density]
	if !ok {
		return nil, fmt.Errorf("unknown position density %q (valid: %s)",
			density, strings.Join(DensityNames, ", "))
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no placeable elements")
	}
	o := opts.normalized()

	// Resolve scaled sizes once; the sizing rule is deterministic.
	sized := make([]Item, len(items))
	for i, it := range items {
		it.Width, it.Height = FitToCanvas(it.Width, it.Height, canvas, o.MaxScale)
		sized[i] = it
	}

	budget := target * LayoutAttemptFactor
	layouts := make([]dataset.Layout, 0, target)
	for attempt := 0; attempt < budget && len(layouts) < target; attempt++ {
		if l, ok := buildGridLayout(sized, canvas, rng, o); ok {
			layouts = append(layouts, l)
		}
	}
	return layouts, nil
}

// buildGridLayout attempts one complete layout on the candidate grid.
// Elements are placed in order; all must place or the candidate fails.
func buildGridLayout(items []Item, canvas dataset.CanvasSpec, rng *rand.Rand, o Options) (dataset.Layout, bool) {
	layout := make(dataset.Layout, 0, len(items))
	for _, it := range items {
		p, ok := placeOnGrid(layout, it, canvas, rng, o)
		if !ok {
			return nil, false
		}
		layout = append(layout, p)
	}
	return layout, true
}

// placeOnGrid scans shuffled x and y candidates and returns the first
// combination that clears every committed rectangle.
func placeOnGrid(placed dataset.Layout, it Item, canvas dataset.CanvasSpec, rng *rand.Rand, o Options) (dataset.Placement, bool) {
	xs := gridCandidates(canvas.Width-it.Width, o.GridStep)
	ys := gridCandidates(canvas.Height-it.Height, o.GridStep)
	if len(xs) == 0 || len(ys) == 0 {
		return dataset.Placement{}, false
	}
	rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	rng.Shuffle(len(ys), func(i, j int) { ys[i], ys[j] = ys[j], ys[i] })

	for _, x := range xs {
		for _, y := range ys {
			p := dataset.Placement{
				ElementIndex: it.Index,
				ClassID:      it.ClassID,
				X:            x,
				Y:            y,
				Width:        it.Width,
				Height:       it.Height,
			}
			if !overlapsAny(placed, p, o.Spacing) {
				return p, true
			}
		}
	}
	return dataset.Placement{}, false
}

// gridCandidates returns {0, step, 2*step, ...} up to limit inclusive.
// Empty when limit is negative, i.e. the element exceeds the canvas.
func gridCandidates(limit, step int) []int {
	if limit < 0 {
		return nil
	}
	coords := make([]int, 0, limit/step+1)
	for v := 0; v <= limit; v += step {
		coords = append(coords, v)
	}
	return coords
}
