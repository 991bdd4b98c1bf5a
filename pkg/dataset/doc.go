// Package dataset provides serialization types for synthetic dataset runs.
//
// This package defines the canonical wire format for CropForge's data,
// used for JSON files, API responses, caching, and annotation output.
//
// # Architecture
//
// The package sits at the serialization boundary between the generation
// pipeline and external formats:
//
//   - [LayoutSet], [Layout], [Placement]: Serialization types (this package)
//   - pkg/placement: Layout computation (random and grid placement)
//   - pkg/compose: Raster rendering of layouts into labeled images
//
// # Core Types
//
//   - [SourceElement]: A cropped element image plus its class metadata
//   - [Layout]: One arrangement of placements on a canvas
//   - [LayoutSet]: A reproducible batch of layouts for one canvas
//   - [Cosmetic]: Per-image variation (background, rotation, scale)
//   - [Annotation]: One normalized bounding-box record
//   - [Result], [Summary]: Per-image and per-run outputs
//
// # Constants
//
// This package is the single source of truth for run-level constants:
//
//	dataset.ModeFixed      // "fixed"
//	dataset.ModeSweep      // "sweep"
//	dataset.FormatJPG      // "jpg"
//	dataset.CanvasFHD      // "fhd" (1920x1080)
//
// # Layout Serialization
//
// Layout sets use a versioned JSON format:
//
//	set, _ := dataset.ReadLayoutSetFile("layouts.json")  // File → LayoutSet
//	dataset.WriteLayoutSetFile(set, "layouts.json")      // LayoutSet → File
//	data, _ := dataset.MarshalLayoutSet(set)             // LayoutSet → []byte
//	parsed, _ := dataset.UnmarshalLayoutSet(data)        // []byte → LayoutSet
//
// Unmarshaling validates the version, canvas dimensions, element
// references, and placement bounds.
//
// # Annotation Format
//
// Annotations use one line per box, values normalized to [0,1]:
//
//	classId x_center y_center width height
//
// Format and parse with [FormatAnnotations] and [ParseAnnotations]; both
// round-trip to six decimal digits.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package dataset
