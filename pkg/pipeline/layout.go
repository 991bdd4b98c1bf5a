package pipeline

import (
	"math/rand/v2"

	"github.com/cropforge/cropforge/pkg/compose"
	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/errors"
	"github.com/cropforge/cropforge/pkg/placement"
)

// =============================================================================
// Fixed Batch Layout
// =============================================================================

// PlaceGroups partitions elements into groups of opts.BatchSize and places
// each group once by random search, producing one layout per group. The
// group count is ceil(N / BatchSize); a final short group is placed like
// any other. Elements that find no valid slot are dropped from their
// layout and returned as the dropped count.
//
// The rng is the session's seeded source, so a fixed seed reproduces the
// same batch exactly.
func PlaceGroups(elems []dataset.SourceElement, canvas dataset.CanvasSpec, rng *rand.Rand, opts Options) ([]dataset.Layout, int, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, 0, err
	}
	if len(elems) < MinBatchElements {
		return nil, 0, errors.New(errors.ErrCodeInvalidConfig,
			"fixed batch mode needs at least %d elements, got %d", MinBatchElements, len(elems))
	}

	items, skipped := placement.ItemsFromElements(elems)
	for _, idx := range skipped {
		opts.Logger.Warn("element has no usable size, dropping", "element", elems[idx].Name)
	}
	dropped := len(skipped)

	popts := opts.PlacementOptions()
	var layouts []dataset.Layout
	for start := 0; start < len(items); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(items))
		layout, droppedItems := placement.PlaceOnce(items[start:end], canvas, rng, popts)
		for _, it := range droppedItems {
			opts.Logger.Warn("element found no free slot, dropping",
				"element", elems[it.Index].Name, "canvas", canvas.Name)
		}
		dropped += len(droppedItems)
		layouts = append(layouts, layout)
	}

	return layouts, dropped, nil
}

// =============================================================================
// Sweep Layout Enumeration
// =============================================================================

// EnumerateLayoutSet runs grid enumeration for one canvas and wraps the
// result in a serializable layout set. Enumeration is a pure function of
// the elements, the canvas and the layout options: it draws from a fresh
// random source seeded by opts.Seed, never from shared state, which is
// what makes layout sets cacheable.
//
// Falling short of the density target degrades gracefully; only finding
// no layouts at all is an error (recoverable at the sweep level, where
// remaining canvases continue).
func EnumerateLayoutSet(elems []dataset.SourceElement, canvas dataset.CanvasSpec, opts Options) (dataset.LayoutSet, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return dataset.LayoutSet{}, err
	}

	items, skipped := placement.ItemsFromElements(elems)
	for _, idx := range skipped {
		opts.Logger.Warn("element has no usable size, excluding from layouts", "element", elems[idx].Name)
	}
	if len(items) == 0 {
		return dataset.LayoutSet{}, errors.New(errors.ErrCodeInvalidElements,
			"none of the %d elements have a usable size", len(elems))
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	layouts, err := placement.EnumerateLayouts(items, canvas, opts.Density, rng, opts.PlacementOptions())
	if err != nil {
		return dataset.LayoutSet{}, errors.Wrap(errors.ErrCodeLayoutFailed, err,
			"enumerate layouts for canvas %s", canvas.Name)
	}
	if len(layouts) == 0 {
		return dataset.LayoutSet{}, errors.New(errors.ErrCodeLayoutFailed,
			"no layouts found for canvas %s at density %s (elements may be too large for the canvas)",
			canvas.Name, opts.Density)
	}

	target := placement.DensityTargets[opts.Density]
	if len(layouts) < target {
		opts.Logger.Warn("layout enumeration fell short of density target",
			"canvas", canvas.Name, "found", len(layouts), "target", target)
	}

	return dataset.LayoutSet{
		Version:  dataset.LayoutSetVersion,
		Canvas:   canvas,
		Seed:     opts.Seed,
		Density:  opts.Density,
		GridStep: opts.GridStep,
		Elements: elementInfos(elems),
		Layouts:  layouts,
	}, nil
}

// =============================================================================
// Sweep Estimation
// =============================================================================

// SweepEstimate is the worst-case size of a sweep, computed before any
// layouts are enumerated so callers can confirm large runs up front.
type SweepEstimate struct {
	Canvases      int `json:"canvases"`
	LayoutTarget  int `json:"layout_target"` // per canvas
	Backgrounds   int `json:"backgrounds"`
	Rotations     int `json:"rotations"`
	Scales        int `json:"scales"`
	Images        int `json:"images"`                // canvases × target × backgrounds × rotations × scales
	AttemptBudget int `json:"layout_attempt_budget"` // total grid candidates the enumeration may try
}

// EstimateSweep computes the worst-case image count for a sweep
// configuration. Actual runs may produce fewer images when enumeration
// falls short of the density target or individual samples fail.
func EstimateSweep(opts Options) (SweepEstimate, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return SweepEstimate{}, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return SweepEstimate{}, err
	}

	canvases, err := opts.CanvasSpecs()
	if err != nil {
		return SweepEstimate{}, err
	}
	backgrounds, err := opts.BackgroundList()
	if err != nil {
		return SweepEstimate{}, err
	}
	rotations := compose.RotationSet(opts.Rotate)
	scales := compose.ScaleSet(opts.Scaling)

	target := placement.DensityTargets[opts.Density]
	return SweepEstimate{
		Canvases:      len(canvases),
		LayoutTarget:  target,
		Backgrounds:   len(backgrounds),
		Rotations:     len(rotations),
		Scales:        len(scales),
		Images:        len(canvases) * target * len(backgrounds) * len(rotations) * len(scales),
		AttemptBudget: len(canvases) * target * placement.LayoutAttemptFactor,
	}, nil
}
