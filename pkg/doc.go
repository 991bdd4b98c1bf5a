// Package pkg provides the core libraries for Cropforge synthetic
// dataset generation.
//
// # Overview
//
// Cropforge composites cropped UI elements onto procedurally generated
// canvases and emits YOLO annotations alongside every image. The pkg
// directory is organized into four main areas:
//
//  1. Domain types ([dataset]) - canvases, placements, layouts, results
//  2. Engine ([placement], [compose], [pipeline]) - layout search and rendering
//  3. Infrastructure ([cache], [registry], [config], [session]) - persistence and state
//  4. Tooling ([preview], [organize], [imageio]) - inspection and collection support
//
// # Architecture
//
// The typical data flow through Cropforge:
//
//	Collector crops (class-prefixed images)
//	         ↓
//	    [pipeline] package (load + validate elements)
//	         ↓
//	    [placement] package (grid search, non-overlap layouts)
//	         ↓
//	    [compose] package (raster composition + augmentation)
//	         ↓
//	    [dataset] package (YOLO annotations, layout set files)
//	         ↓
//	    images + labels on disk, run record in [registry]
//
// # Quick Start
//
// Generate a batch end to end:
//
//	import (
//	    "context"
//	    "github.com/cropforge/cropforge/pkg/cache"
//	    "github.com/cropforge/cropforge/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    ElementsDir: "./elements",
//	    Mode:        "fixed",
//	    OutputDir:   "./output",
//	})
//
// Or run the stages separately, persisting the layout hand-off:
//
//	elems, _ := pipeline.Load("./elements", nil)
//	set, _, _ := runner.LayoutWithCacheInfo(ctx, elems, canvas, opts)
//	dataset.WriteLayoutSetFile(set, "layouts.json")
//
// # Main Packages
//
// ## Domain Types
//
// [dataset] - The shared vocabulary: [dataset.CanvasSpec],
// [dataset.Placement], [dataset.LayoutSet], [dataset.Result] and
// [dataset.Summary], plus canvas/background presets, hex color parsing
// and the YOLO annotation codec.
//
// ## Engine
//
// [placement] - Deterministic grid-based layout search. Elements are
// scaled to fit, shuffled candidate cells are probed with a spacing
// margin, and [placement.EnumerateLayouts] collects as many
// non-overlapping layouts as the density tier asks for.
//
// [compose] - Draws a layout: background fill, per-element rotation and
// scaling, optional photometric augmentation, and encoding to JPEG, PNG
// or WebP.
//
// [pipeline] - Orchestration shared by the CLI and the HTTP API: element
// loading, the layout/render stages, sweep estimation and the
// [pipeline.Runner] that wires in caching and run recording.
//
// ## Infrastructure
//
// [cache] - Layout set cache keyed by a content hash of elements plus
// layout parameters. File backend for the CLI, Redis for servers, a null
// backend to disable caching.
//
// [registry] - Run records (what was requested, what was produced). File
// backend for the CLI, MongoDB for servers.
//
// [config] - The optional cropforge.toml file. Precedence is flags >
// file > defaults.
//
// [session] - Seeded randomness scoped to one generation run, so equal
// seeds reproduce equal datasets.
//
// [errors] - Coded errors shared across packages; codes map to HTTP
// statuses at the API boundary.
//
// [observability] - Run/stage timing hooks used by the pipeline and the
// server middleware.
//
// ## Tooling
//
// [preview] - Layout schematics (colored class rectangles) and
// annotation overlays for verifying emitted coordinates.
//
// [organize] - Sorts collector downloads into per-platform
// images/labels trees, one-shot or watching a directory.
//
// [imageio] - Decoding and encoding for the supported raster formats.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/placement/...  # Specific package
//
// [dataset]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/dataset
// [placement]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/placement
// [compose]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/compose
// [pipeline]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/cache
// [registry]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/registry
// [config]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/config
// [session]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/session
// [errors]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/observability
// [preview]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/preview
// [organize]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/organize
// [imageio]: https://pkg.go.dev/github.com/cropforge/cropforge/pkg/imageio
package pkg
