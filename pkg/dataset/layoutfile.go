package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// LayoutSet Serialization API
// =============================================================================

// LayoutSetVersion is the current serialization format version.
const LayoutSetVersion = 1

// Validate checks structural integrity of a layout set: a known version,
// a sane canvas, and placements that reference existing elements and sit
// fully inside the canvas.
func (s *LayoutSet) Validate() error {
	if s.Version != LayoutSetVersion {
		return fmt.Errorf("unsupported layout set version %d (want %d)", s.Version, LayoutSetVersion)
	}
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		return fmt.Errorf("layout set canvas %dx%d must be positive", s.Canvas.Width, s.Canvas.Height)
	}
	if len(s.Layouts) == 0 {
		return fmt.Errorf("layout set must contain layouts")
	}
	for li, layout := range s.Layouts {
		for pi, p := range layout {
			if p.ElementIndex < 0 || p.ElementIndex >= len(s.Elements) {
				return fmt.Errorf("layout %d placement %d: element index %d out of range [0,%d)",
					li, pi, p.ElementIndex, len(s.Elements))
			}
			if p.Width <= 0 || p.Height <= 0 {
				return fmt.Errorf("layout %d placement %d: size %dx%d must be positive",
					li, pi, p.Width, p.Height)
			}
			if p.X < 0 || p.Y < 0 || p.X+p.Width > s.Canvas.Width || p.Y+p.Height > s.Canvas.Height {
				return fmt.Errorf("layout %d placement %d: box (%d,%d,%dx%d) exceeds canvas %dx%d",
					li, pi, p.X, p.Y, p.Width, p.Height, s.Canvas.Width, s.Canvas.Height)
			}
		}
	}
	return nil
}

// MarshalLayoutSet serializes a LayoutSet to pretty-printed JSON bytes.
func MarshalLayoutSet(s LayoutSet) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalLayoutSet deserializes JSON bytes into a LayoutSet and
// validates the result.
func UnmarshalLayoutSet(data []byte) (LayoutSet, error) {
	var s LayoutSet
	if err := json.Unmarshal(data, &s); err != nil {
		return LayoutSet{}, fmt.Errorf("unmarshal layout set: %w", err)
	}
	if err := s.Validate(); err != nil {
		return LayoutSet{}, err
	}
	return s, nil
}

// WriteLayoutSetFile writes a LayoutSet to a JSON file.
func WriteLayoutSetFile(s LayoutSet, path string) error {
	data, err := MarshalLayoutSet(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutSetFile reads a LayoutSet from a JSON file.
func ReadLayoutSetFile(path string) (LayoutSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutSet{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayoutSet(data)
}
