package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Annotation - YOLO-Style Normalized Bounding Box Records
// =============================================================================

// Annotation is one normalized bounding-box record. All four geometric
// values are normalized to [0,1] relative to canvas dimensions.
type Annotation struct {
	ClassID int     `json:"class_id" bson:"class_id"`
	XCenter float64 `json:"x_center" bson:"x_center"`
	YCenter float64 `json:"y_center" bson:"y_center"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
}

// Annotate normalizes a drawn rectangle against the canvas dimensions:
// x_center = (x + w/2) / W, width = w / W, and analogously for y/height.
func Annotate(classID, x, y, w, h int, canvas CanvasSpec) Annotation {
	fw := float64(canvas.Width)
	fh := float64(canvas.Height)
	return Annotation{
		ClassID: classID,
		XCenter: (float64(x) + float64(w)/2) / fw,
		YCenter: (float64(y) + float64(h)/2) / fh,
		Width:   float64(w) / fw,
		Height:  float64(h) / fh,
	}
}

// String formats the record as "classId x_center y_center width height"
// with 6 decimal digits of precision.
func (a Annotation) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", a.ClassID, a.XCenter, a.YCenter, a.Width, a.Height)
}

// FormatAnnotations joins records with newlines in the given order.
func FormatAnnotations(anns []Annotation) string {
	lines := make([]string, len(anns))
	for i, a := range anns {
		lines[i] = a.String()
	}
	return strings.Join(lines, "\n")
}

// ParseAnnotation parses one annotation line.
func ParseAnnotation(line string) (Annotation, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Annotation{}, fmt.Errorf("annotation line needs 5 fields, got %d: %q", len(fields), line)
	}

	classID, err := strconv.Atoi(fields[0])
	if err != nil {
		return Annotation{}, fmt.Errorf("class id: %w", err)
	}

	vals := make([]float64, 4)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Annotation{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		if v < 0 || v > 1 {
			return Annotation{}, fmt.Errorf("field %d out of range [0,1]: %v", i+1, v)
		}
		vals[i] = v
	}

	return Annotation{
		ClassID: classID,
		XCenter: vals[0],
		YCenter: vals[1],
		Width:   vals[2],
		Height:  vals[3],
	}, nil
}

// ParseAnnotations parses a newline-joined annotation document.
// Blank lines are skipped.
func ParseAnnotations(text string) ([]Annotation, error) {
	var anns []Annotation
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		a, err := ParseAnnotation(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		anns = append(anns, a)
	}
	return anns, nil
}
