package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cropforge/cropforge/pkg/cache"
	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/errors"
	"github.com/cropforge/cropforge/pkg/observability"
	"github.com/cropforge/cropforge/pkg/registry"
	"github.com/cropforge/cropforge/pkg/session"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Each Execute call constructs a fresh session, so
// repeated runs cannot leak counters or random state into each other.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry registry.Store // optional; nil disables run recording
	Logger   *log.Logger

	// TTL bounds the lifetime of cached layout sets. Zero means
	// cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.ElementsDir)
	elems, err := r.loadElements(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.ElementsDir, len(elems), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.ElementCount = len(elems)
	result.ElementsHash = ElementsHash(elems)

	r.Logger.Info("loaded elements",
		"count", len(elems),
		"duration", result.Stats.LoadTime)

	sess := session.NewSeeded(opts.Seed)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Mode, len(elems))
	sets, dropped, cacheInfo, err := r.computeLayouts(ctx, elems, sess, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo = cacheInfo
	layoutCount := 0
	for _, set := range sets {
		layoutCount += len(set.Layouts)
	}
	result.Stats.LayoutCount = layoutCount
	observability.Pipeline().OnLayoutComplete(ctx, opts.Mode, layoutCount, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Sets = sets

	r.Logger.Info("computed layouts",
		"mode", opts.Mode,
		"layouts", layoutCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	cosmetics, err := cosmeticsFor(opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	requested := layoutCount * len(cosmetics)

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format, requested)
	images := DecodeImages(elems, opts.Logger)
	summary, err := renderAll(ctx, sets, images, cosmetics, sess, opts, requested)
	result.Stats.RenderTime = time.Since(renderStart)
	created := 0
	if summary != nil {
		summary.Dropped = dropped
		created = summary.ImagesCreated
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, created, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Summary = summary

	r.Logger.Info("rendered samples",
		"created", summary.ImagesCreated,
		"requested", summary.ImagesRequested,
		"duration", result.Stats.RenderTime)

	r.recordRun(ctx, sess, summary, sets)

	return result, nil
}

// loadElements returns the run's source elements: the caller-supplied
// in-memory set when present, otherwise a directory load.
func (r *Runner) loadElements(opts Options) ([]dataset.SourceElement, error) {
	if len(opts.Elements) > 0 {
		fillSizes(opts.Elements, opts.Logger)
		return opts.Elements, nil
	}
	return Load(opts.ElementsDir, opts.Logger)
}

// computeLayouts dispatches the layout stage: one randomly placed layout
// per element group in fixed mode, cached grid enumeration per canvas in
// sweep mode.
func (r *Runner) computeLayouts(ctx context.Context, elems []dataset.SourceElement, sess *session.Session, opts Options) ([]dataset.LayoutSet, int, CacheInfo, error) {
	var info CacheInfo

	canvases, err := opts.CanvasSpecs()
	if err != nil {
		return nil, 0, info, err
	}

	if opts.IsFixed() {
		canvas := canvases[0]
		if len(canvases) > 1 {
			opts.Logger.Warn("fixed batch mode uses a single canvas, ignoring extras", "canvas", canvas.Name)
		}
		layouts, dropped, err := PlaceGroups(elems, canvas, sess.RNG(), opts)
		if err != nil {
			return nil, 0, info, err
		}
		set := dataset.LayoutSet{
			Version:  dataset.LayoutSetVersion,
			Canvas:   canvas,
			Seed:     sess.Seed,
			Elements: elementInfos(elems),
			Layouts:  layouts,
		}
		return []dataset.LayoutSet{set}, dropped, info, nil
	}

	// Sweep: elements without a usable size never enter any layout.
	dropped := 0
	for i := range elems {
		if _, _, ok := elems[i].EstimatedSize(); !ok {
			dropped++
		}
	}

	var sets []dataset.LayoutSet
	for i, canvas := range canvases {
		if err := ctx.Err(); err != nil {
			return nil, dropped, info, err
		}
		set, hit, err := r.LayoutWithCacheInfo(ctx, elems, canvas, opts)
		if err != nil {
			if errors.IsRecoverable(err) {
				opts.Logger.Warn("skipping canvas", "canvas", canvas.Name, "error", err)
				continue
			}
			return nil, dropped, info, err
		}
		if hit {
			info.LayoutHits++
		} else {
			info.LayoutMisses++
		}
		sets = append(sets, set)
		if opts.Progress != nil {
			opts.Progress(PhaseLayout, i+1, len(canvases), canvas.Name)
		}
	}
	if len(sets) == 0 {
		return nil, dropped, info, errors.New(errors.ErrCodeLayoutFailed,
			"no layouts could be enumerated for any canvas")
	}
	return sets, dropped, info, nil
}

// cosmeticsFor returns the cosmetic variants for the run: fixed batches
// render each group once under the first background, sweeps render the
// full background × rotation × scale product.
func cosmeticsFor(opts Options) ([]dataset.Cosmetic, error) {
	if opts.IsSweep() {
		return opts.Cosmetics()
	}
	backgrounds, err := opts.BackgroundList()
	if err != nil {
		return nil, err
	}
	return []dataset.Cosmetic{{
		Background: backgrounds[0],
		Rotation:   0,
		Scale:      1.0,
		Augment:    opts.Augment,
	}}, nil
}

// LayoutWithCacheInfo enumerates a layout set for one canvas with caching
// and returns cache hit info. The cache key is a content hash over the
// element classes and sizes plus every placement knob, so any change to
// the inputs misses cleanly.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, elems []dataset.SourceElement, canvas dataset.CanvasSpec, opts Options) (dataset.LayoutSet, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return dataset.LayoutSet{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(ElementsHash(elems), opts.LayoutKeyOpts(canvas))

	// Try cache first (unless bypassed)
	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := dataset.UnmarshalLayoutSet(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Enumerate
	set, err := EnumerateLayoutSet(elems, canvas, opts)
	if err != nil {
		return dataset.LayoutSet{}, false, err
	}

	// Cache the result
	if !opts.NoCache {
		if data, err := dataset.MarshalLayoutSet(set); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, r.ttl())
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return set, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, elems []dataset.SourceElement, canvas dataset.CanvasSpec, opts Options) (dataset.LayoutSet, error) {
	set, _, err := r.LayoutWithCacheInfo(ctx, elems, canvas, opts)
	return set, err
}

// recordRun persists the batch outcome to the run registry when one is
// configured. Registry failures are logged, never fail the batch.
func (r *Runner) recordRun(ctx context.Context, sess *session.Session, summary *dataset.Summary, sets []dataset.LayoutSet) {
	if r.Registry == nil {
		return
	}
	names := make([]string, len(sets))
	for i, set := range sets {
		names[i] = set.Canvas.Name
	}
	now := time.Now()
	run := registry.Run{
		ID:              summary.RunID,
		Mode:            summary.Mode,
		Canvases:        names,
		ImagesCreated:   summary.ImagesCreated,
		ImagesRequested: summary.ImagesRequested,
		Dropped:         summary.Dropped,
		Seed:            sess.Seed,
		StartedAt:       sess.Started,
		FinishedAt:      now,
		DurationMS:      now.Sub(sess.Started).Milliseconds(),
	}
	if err := r.Registry.Save(ctx, run); err != nil {
		r.Logger.Warn("failed to record run", "run_id", run.ID, "error", err)
	}
}

// Close releases resources held by the runner (the cache and, when
// configured, the run registry).
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Registry != nil {
		if err := r.Registry.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}
