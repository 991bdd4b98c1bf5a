package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical canvas preset names.
const (
	CanvasFHD    = "fhd"    // 1920x1080
	CanvasHD     = "hd"     // 1280x720
	Canvas2K     = "2k"     // 2560x1440
	CanvasSquare = "square" // 640x640
)

// CanvasPresets maps preset names to their specs. Callers may also supply
// arbitrary dimensions; presets are a convenience, not a restriction.
var CanvasPresets = map[string]CanvasSpec{
	CanvasFHD:    {Name: CanvasFHD, Width: 1920, Height: 1080},
	CanvasHD:     {Name: CanvasHD, Width: 1280, Height: 720},
	Canvas2K:     {Name: Canvas2K, Width: 2560, Height: 1440},
	CanvasSquare: {Name: CanvasSquare, Width: 640, Height: 640},
}

// CanvasPresetNames lists preset names in display order.
var CanvasPresetNames = []string{CanvasFHD, CanvasHD, Canvas2K, CanvasSquare}

// BackgroundPresets are the canonical background colors.
var BackgroundPresets = []string{"#000000", "#FFFFFF", "#1a1a1a", "#f5f5f5", "#0d1117"}

// LookupCanvas returns the preset spec for a name.
func LookupCanvas(name string) (CanvasSpec, bool) {
	spec, ok := CanvasPresets[strings.ToLower(name)]
	return spec, ok
}

// ParseCanvas resolves a canvas argument: either a preset name ("fhd") or
// explicit dimensions ("800x600"). Explicit specs are named after their
// dimensions.
func ParseCanvas(s string) (CanvasSpec, error) {
	if spec, ok := LookupCanvas(s); ok {
		return spec, nil
	}

	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) == 2 {
		w, werr := strconv.Atoi(parts[0])
		h, herr := strconv.Atoi(parts[1])
		if werr == nil && herr == nil && w > 0 && h > 0 {
			return CanvasSpec{Name: fmt.Sprintf("%dx%d", w, h), Width: w, Height: h}, nil
		}
	}

	return CanvasSpec{}, fmt.Errorf("unknown canvas %q (presets: %s, or WIDTHxHEIGHT)",
		s, strings.Join(CanvasPresetNames, ", "))
}

// ParseCanvasList resolves a comma-separated list of canvas arguments.
func ParseCanvasList(s string) ([]CanvasSpec, error) {
	var specs []CanvasSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		spec, err := ParseCanvas(part)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no canvas specified")
	}
	return specs, nil
}
