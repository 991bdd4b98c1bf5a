// Package pipeline provides the core generation pipeline for CropForge.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read source elements from a directory scan or manifest
//  2. Layout: Compute non-overlapping placements (fixed batches or grid sweeps)
//  3. Render: Rasterize layouts under cosmetic variants and encode samples
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ElementsDir: "./elements",
//	    Mode:        dataset.ModeFixed,
//	    Canvases:    "fhd",
//	    Format:      "jpg",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary := result.Summary
//
// Run individual stages:
//
//	// Load only
//	elems, err := pipeline.Load(dir, logger)
//
//	// Enumerate layouts for one canvas, with caching
//	set, err := runner.Layout(ctx, elems, canvas, opts)
//
//	// Render an existing layout set
//	summary, err := pipeline.RenderSet(ctx, set, images, sess, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cropforge/cropforge/pkg/cache"
	"github.com/cropforge/cropforge/pkg/compose"
	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/errors"
	"github.com/cropforge/cropforge/pkg/placement"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultBatchSize is the number of elements composed per image in
	// fixed batch mode.
	DefaultBatchSize = 3

	// MinBatchElements is the smallest element set accepted in fixed batch
	// mode. Fewer elements cannot fill a batch, so the run is rejected
	// before any generation starts.
	MinBatchElements = 3

	// DefaultCanvas is the default target canvas preset.
	DefaultCanvas = dataset.CanvasFHD

	// DefaultBackground is the default canvas fill color.
	DefaultBackground = "#000000"

	// DefaultDensity is the default layout density tier for sweeps.
	DefaultDensity = placement.DensityMedium

	// DefaultGridStep is the default candidate pitch in pixels for grid
	// enumeration. This matches placement.DefaultGridStep.
	DefaultGridStep = placement.DefaultGridStep

	// DefaultSeed is the default random seed. A fixed default keeps runs
	// reproducible and lets layout enumeration hit the cache; pass a
	// different seed to vary the output.
	DefaultSeed = uint64(42)

	// DefaultQuality is the default lossy encoder quality.
	DefaultQuality = dataset.DefaultJPEGQuality
)

// DefaultMode is the default generation mode.
const DefaultMode = dataset.ModeFixed

// DefaultFormat is the default output image format.
const DefaultFormat = dataset.FormatJPG

// DefaultPrefix is the default filename prefix for generated samples.
const DefaultPrefix = compose.DefaultStemPrefix

// Progress phase names reported to the Progress callback.
const (
	PhaseLoad   = "load"
	PhaseLayout = "layout"
	PhaseRender = "render"
)

// ValidModes is the set of supported generation modes.
var ValidModes = map[string]bool{
	dataset.ModeFixed: true,
	dataset.ModeSweep: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Progress receives pipeline progress callbacks. The phase is one of the
// Phase* constants; current counts from 1 to total within the phase;
// status is a short human-readable label for the current unit of work.
type Progress func(phase string, current, total int, status string)

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	ElementsDir string                  `json:"elements_dir,omitempty"`
	Elements    []dataset.SourceElement `json:"-"` // pre-loaded elements, bypass the directory scan

	// Layout options
	Mode      string `json:"mode,omitempty"` // fixed or sweep
	Canvases  string `json:"canvases,omitempty"`
	BatchSize int    `json:"batch_size,omitempty"`
	Density   string `json:"density,omitempty"`
	GridStep  int    `json:"grid_step,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
	NoCache   bool   `json:"no_cache,omitempty"` // bypass the layout cache entirely

	// Render options
	Backgrounds string `json:"backgrounds,omitempty"`
	Rotate      bool   `json:"rotate,omitempty"`
	Scaling     bool   `json:"scaling,omitempty"`
	Augment     bool   `json:"augment,omitempty"`
	Format      string `json:"format,omitempty"`
	Quality     int    `json:"quality,omitempty"`
	Prefix      string `json:"prefix,omitempty"`
	OutputDir   string `json:"output_dir,omitempty"` // when set, samples are written to disk as they render

	// Runtime options (not serialized)
	Logger   *log.Logger `json:"-"`
	Progress Progress    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Summary is the batch-level report including every generated sample.
	Summary *dataset.Summary

	// Sets are the layout sets the run rendered, one per canvas.
	Sets []dataset.LayoutSet

	// ElementsHash is the content hash of the loaded elements.
	ElementsHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which layout sets hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	LayoutCount  int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for the layout stage.
type CacheInfo struct {
	LayoutHits   int // layout sets served from cache
	LayoutMisses int // layout sets enumerated fresh
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a generation mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid mode: %q (must be one of: fixed, sweep)", mode)
	}
	return nil
}

// ValidateFormat checks that an output image format is valid.
func ValidateFormat(format string) error {
	if !dataset.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: jpg, png, webp)", format)
	}
	return nil
}

// ValidateDensity checks that a layout density tier is valid.
func ValidateDensity(density string) error {
	if _, ok := placement.DensityTargets[density]; !ok {
		return errors.New(errors.ErrCodeInvalidDensity,
			"invalid density: %q (must be one of: %s)",
			density, strings.Join(placement.DensityNames, ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for element loading.
func (o *Options) ValidateForLoad() error {
	if o.ElementsDir == "" && len(o.Elements) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"elements directory or in-memory elements are required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Canvases == "" {
		o.Canvases = DefaultCanvas
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Density == "" {
		o.Density = DefaultDensity
	}
	if o.GridStep == 0 {
		o.GridStep = DefaultGridStep
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.BatchSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"batch size must be positive, got %d", o.BatchSize)
	}
	if o.GridStep < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"grid step must be positive, got %d", o.GridStep)
	}
	if _, err := o.CanvasSpecs(); err != nil {
		return err
	}
	return ValidateDensity(o.Density)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Backgrounds == "" {
		o.Backgrounds = DefaultBackground
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Quality < 1 || o.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"quality must be between 1 and 100, got %d", o.Quality)
	}
	if err := errors.ValidateStemPrefix(o.Prefix); err != nil {
		return err
	}
	if _, err := o.BackgroundList(); err != nil {
		return err
	}
	return nil
}

// IsFixed returns true if this is a fixed batch run.
func (o *Options) IsFixed() bool {
	return o.Mode == "" || o.Mode == dataset.ModeFixed
}

// IsSweep returns true if this is a variation sweep run.
func (o *Options) IsSweep() bool {
	return o.Mode == dataset.ModeSweep
}

// CanvasSpecs resolves the canvas list: preset names or WIDTHxHEIGHT specs,
// comma-separated.
func (o *Options) CanvasSpecs() ([]dataset.CanvasSpec, error) {
	canvases := o.Canvases
	if canvases == "" {
		canvases = DefaultCanvas
	}
	specs, err := dataset.ParseCanvasList(canvases)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCanvas, err, "resolve canvases")
	}
	return specs, nil
}

// BackgroundList resolves the comma-separated background color list.
func (o *Options) BackgroundList() ([]string, error) {
	backgrounds := o.Backgrounds
	if backgrounds == "" {
		backgrounds = DefaultBackground
	}
	colors, err := dataset.ParseColorList(backgrounds)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "resolve backgrounds")
	}
	for _, c := range colors {
		if err := errors.ValidateHexColor(c); err != nil {
			return nil, err
		}
	}
	return colors, nil
}

// Cosmetics expands the render option axes into the cosmetic cross-product:
// every background under every rotation under every scale, in a fixed order
// so sweeps are deterministic.
func (o *Options) Cosmetics() ([]dataset.Cosmetic, error) {
	backgrounds, err := o.BackgroundList()
	if err != nil {
		return nil, err
	}
	rotations := compose.RotationSet(o.Rotate)
	scales := compose.ScaleSet(o.Scaling)

	cosmetics := make([]dataset.Cosmetic, 0, len(backgrounds)*len(rotations)*len(scales))
	for _, bg := range backgrounds {
		for _, rot := range rotations {
			for _, scale := range scales {
				cosmetics = append(cosmetics, dataset.Cosmetic{
					Background: bg,
					Rotation:   rot,
					Scale:      scale,
					Augment:    o.Augment,
				})
			}
		}
	}
	return cosmetics, nil
}

// PlacementOptions returns the placement search configuration.
func (o *Options) PlacementOptions() *placement.Options {
	return &placement.Options{GridStep: o.GridStep}
}

// LayoutKeyOpts returns cache key options for layout enumeration on the
// given canvas.
func (o *Options) LayoutKeyOpts(canvas dataset.CanvasSpec) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		CanvasWidth:  canvas.Width,
		CanvasHeight: canvas.Height,
		Density:      o.Density,
		GridStep:     o.GridStep,
		Spacing:      placement.DefaultSpacing,
		MaxScale:     placement.DefaultMaxScale,
		Seed:         o.Seed,
	}
}
