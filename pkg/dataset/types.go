package dataset

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Generation modes.
const (
	ModeFixed = "fixed"
	ModeSweep = "sweep"
)

// Output image formats.
const (
	FormatJPG  = "jpg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ValidFormats is the set of supported output image formats.
var ValidFormats = map[string]bool{
	FormatJPG:  true,
	FormatPNG:  true,
	FormatWebP: true,
}

// DefaultJPEGQuality is the encoder quality for lossy output formats.
const DefaultJPEGQuality = 92

// =============================================================================
// CanvasSpec - Target Raster Dimensions
// =============================================================================

// CanvasSpec describes one target raster's pixel dimensions.
// Multiple specs may be requested in one batch; each produces an
// independent family of outputs. Immutable, caller-supplied.
type CanvasSpec struct {
	Name   string `json:"name" bson:"name"`
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
}

// =============================================================================
// SourceElement - Externally Supplied Crop
// =============================================================================

// SourceBBox is a bounding box recorded by the collection collaborator in
// CSS pixels on the source page. It is used only to estimate element size
// before the actual image is decoded.
type SourceBBox struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	DPR    float64 `json:"dpr,omitempty" bson:"dpr,omitempty"`
}

// SourceElement is an externally supplied cropped image plus metadata.
// Created by the cropping collaborator; immutable once handed to the
// engine; never mutated, only read.
type SourceElement struct {
	Name    string // display name, defaults to the file basename
	Path    string // source file path, empty for in-memory elements
	ClassID int    // caller-assigned category label, non-negative
	Data    []byte // encoded raster bytes

	// Intrinsic pixel dimensions, set after decode. Zero until then.
	Width  int
	Height int

	// Optional size estimate from the collector (pre-decode paths only).
	BBox *SourceBBox
}

// EstimatedSize returns the element's pixel dimensions: decoded size when
// available, otherwise the device-pixel estimate from the recorded bbox.
// Returns false if neither source of truth is present.
func (e *SourceElement) EstimatedSize() (width, height int, ok bool) {
	if e.Width > 0 && e.Height > 0 {
		return e.Width, e.Height, true
	}
	if e.BBox != nil {
		r := DevicePixels(*e.BBox, e.BBox.DPR)
		if r.Width > 0 && r.Height > 0 {
			return r.Width, r.Height, true
		}
	}
	return 0, 0, false
}

// =============================================================================
// Placement and Layout - Resolved Geometry
// =============================================================================

// Placement is one element's resolved rectangle on a canvas, in canvas
// pixel coordinates. Invariants: 0 <= X, 0 <= Y, X+Width <= canvas.Width,
// Y+Height <= canvas.Height, and padded rectangles of any two placements
// in the same layout do not overlap.
type Placement struct {
	ElementIndex int `json:"element_index" bson:"element_index"`
	ClassID      int `json:"class_id" bson:"class_id"`
	X            int `json:"x" bson:"x"`
	Y            int `json:"y" bson:"y"`
	Width        int `json:"width" bson:"width"`
	Height       int `json:"height" bson:"height"`
}

// Layout is an ordered list of placements, one entry per source element
// successfully placed, all mutually non-overlapping and in-bounds for one
// specific CanvasSpec. A layout is the unit of reuse across variation
// sweeps: the same layout is redrawn multiple times with different
// cosmetic parameters.
type Layout []Placement

// ElementInfo records one source element inside a serialized LayoutSet:
// enough to re-load the image for rendering and to audit placements.
type ElementInfo struct {
	Name    string `json:"name" bson:"name"`
	Path    string `json:"path,omitempty" bson:"path,omitempty"`
	ClassID int    `json:"class_id" bson:"class_id"`
	Width   int    `json:"width" bson:"width"`
	Height  int    `json:"height" bson:"height"`
}

// LayoutSet is the serializable output of layout enumeration for one
// canvas: the hand-off artifact between the layout and render stages, and
// the unit the cache stores.
type LayoutSet struct {
	Version  int           `json:"version" bson:"version"`
	Canvas   CanvasSpec    `json:"canvas" bson:"canvas"`
	Seed     uint64        `json:"seed,omitempty" bson:"seed,omitempty"`
	Density  string        `json:"density,omitempty" bson:"density,omitempty"`
	GridStep int           `json:"grid_step,omitempty" bson:"grid_step,omitempty"`
	Elements []ElementInfo `json:"elements" bson:"elements"`
	Layouts  []Layout      `json:"layouts" bson:"layouts"`
}

// =============================================================================
// Cosmetic - Per-Render Variant
// =============================================================================

// Cosmetic is one (background, rotation, scale) variant applied to a
// fixed layout to produce one rendered sample without changing
// geometry-search results.
type Cosmetic struct {
	Background string  `json:"background" bson:"background"`         // hex color, e.g. "#1a1a1a"
	Rotation   int     `json:"rotation" bson:"rotation"`             // degrees, one of 0/90/180/270
	Scale      float64 `json:"scale" bson:"scale"`                   // uniform element scale, e.g. 0.8/1.0/1.2
	Augment    bool    `json:"augment,omitempty" bson:"augment,omitempty"` // photometric jitter
}

// =============================================================================
// Result and Summary - Generated Output
// =============================================================================

// Result is one generated sample: the encoded raster plus the annotation
// text describing where each source element ended up. Immutable; handed
// to the download/storage collaborator.
type Result struct {
	Stem       string      `json:"stem" bson:"stem"`         // filename without extension
	Filename   string      `json:"filename" bson:"filename"` // stem + "." + format
	Format     string      `json:"format" bson:"format"`
	Image      []byte      `json:"-" bson:"-"`
	Annotation string      `json:"annotation,omitempty" bson:"annotation,omitempty"`
	Canvas     CanvasSpec  `json:"canvas" bson:"canvas"`
	Cosmetic   Cosmetic    `json:"cosmetic" bson:"cosmetic"`
	Placements []Placement `json:"placements,omitempty" bson:"placements,omitempty"`
}

// Summary is the batch-level report. ImagesCreated versus ImagesRequested
// makes partial failure observable: per-sample failures never abort a
// batch, they just widen the gap between the two counts.
type Summary struct {
	RunID           string   `json:"run_id" bson:"run_id"`
	Mode            string   `json:"mode" bson:"mode"`
	ImagesCreated   int      `json:"images_created" bson:"images_created"`
	ImagesRequested int      `json:"images_requested" bson:"images_requested"`
	Dropped         int      `json:"dropped,omitempty" bson:"dropped,omitempty"`
	Results         []Result `json:"results" bson:"results"`
}
