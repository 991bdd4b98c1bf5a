package cache

// Keyer generates cache keys for layout sets.
type Keyer interface {
	// LayoutKey generates a key for an enumerated layout set.
	// elementsHash identifies the source elements (class labels and
	// intrinsic sizes); opts carries every placement knob that changes
	// the enumeration output.
	LayoutKey(elementsHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the options that affect layout enumeration.
// Two runs with equal elementsHash and equal opts produce identical
// layout sets, so they share a cache entry.
type LayoutKeyOpts struct {
	CanvasWidth  int     `json:"canvas_width"`
	CanvasHeight int     `json:"canvas_height"`
	Density      string  `json:"density"`
	GridStep     int     `json:"grid_step"`
	Spacing      int     `json:"spacing"`
	MaxScale     float64 `json:"max_scale"`
	Seed         uint64  `json:"seed"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key like "layout:a3f2...".
func (k *DefaultKeyer) LayoutKey(elementsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", elementsHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
