// Package placement computes non-overlapping, in-bounds element layouts
// for synthetic image composition.
//
// Given N source elements with intrinsic pixel sizes and a target canvas,
// the package produces layouts where every placed rectangle sits fully
// inside the canvas and no two rectangles come closer than the spacing
// margin on both axes.
//
// # Two Placement Modes
//
// [PlaceOnce] performs single-layout random search for plain batches:
// each element tries a bounded number of uniformly random positions and
// is dropped from the layout when none works. Dropping is per-element
// and recoverable; the layout is emitted with whatever fit.
//
// [EnumerateLayouts] performs grid-based enumeration for variation
// sweeps: element coordinates are restricted to a step grid, candidate
// orders are shuffled per layout, and a layout only counts when every
// element placed. It retries with fresh shuffles until a density target
// (low=50, medium=200, high=500, maximum=1000) is met or the attempt
// budget runs out, then degrades gracefully to however many layouts were
// found.
//
// # Sizing Rule
//
// [FitToCanvas] caps element size at a fraction (default 30%) of each
// canvas dimension, scaling uniformly by min(maxW/w, maxH/h) so aspect
// ratio is preserved. The rule never scales up and is idempotent. Grid
// enumeration applies it to every element; random placement applies it
// only to rescue elements that exceed the canvas outright.
//
// # Determinism
//
// All randomness flows through the caller-supplied *rand.Rand, so a
// seeded source reproduces layouts exactly. The package keeps no state
// between calls.
package placement
