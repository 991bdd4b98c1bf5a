package preview

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cropforge/cropforge/pkg/dataset"
)

func testSet() *dataset.LayoutSet {
	return &dataset.LayoutSet{
		Version: dataset.LayoutSetVersion,
		Canvas:  dataset.CanvasSpec{Name: "small", Width: 100, Height: 80},
		Elements: []dataset.ElementInfo{
			{Name: "button", ClassID: 2, Width: 40, Height: 30},
		},
		Layouts: []dataset.Layout{
			{{ElementIndex: 0, ClassID: 2, X: 10, Y: 10, Width: 40, Height: 30}},
		},
	}
}

func TestClassColorStable(t *testing.T) {
	a := ClassColor(3)
	b := ClassColor(3)
	if a != b {
		t.Error("ClassColor should be deterministic")
	}

	seen := make(map[[3]uint8]int)
	for id := range 10 {
		r, g, bl := ClassColor(id).RGB255()
		key := [3]uint8{r, g, bl}
		if prev, dup := seen[key]; dup {
			t.Errorf("classes %d and %d map to the same color", prev, id)
		}
		seen[key] = id
	}
}

func TestSchematic(t *testing.T) {
	img, err := Schematic(testSet(), 0, Options{Background: "#000000", NoLabels: true})
	if err != nil {
		t.Fatalf("Schematic error: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Fatalf("schematic size = %dx%d, want 100x80", bounds.Dx(), bounds.Dy())
	}

	// Outside the placement: background
	r, g, b, _ := img.At(2, 2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("background pixel = %d,%d,%d, want black", r, g, b)
	}

	// Inside the placement: class color blended over black
	r, g, b, _ = img.At(30, 25).RGBA()
	if r+g+b == 0 {
		t.Error("placement pixel should not be background")
	}
}

func TestSchematicScale(t *testing.T) {
	img, err := Schematic(testSet(), 0, Options{Scale: 0.5, NoLabels: true})
	if err != nil {
		t.Fatalf("Schematic error: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 40 {
		t.Errorf("scaled size = %dx%d, want 50x40", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestSchematicErrors(t *testing.T) {
	set := testSet()

	tests := []struct {
		name  string
		set   *dataset.LayoutSet
		index int
		opts  Options
	}{
		{name: "nil set", set: nil, index: 0},
		{name: "empty set", set: &dataset.LayoutSet{}, index: 0},
		{name: "negative index", set: set, index: -1},
		{name: "index past end", set: set, index: 1},
		{name: "bad background", set: set, index: 0, opts: Options{Background: "red"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Schematic(tt.set, tt.index, tt.opts); err == nil {
				t.Error("Schematic should fail")
			}
		})
	}
}

func TestOverlayDrawsBoxEdges(t *testing.T) {
	base := imaging.New(100, 100, color.NRGBA{A: 255})
	ann := dataset.Annotation{ClassID: 0, XCenter: 0.5, YCenter: 0.5, Width: 0.4, Height: 0.4}

	out := Overlay(base, []dataset.Annotation{ann})

	r, g, b := ClassColor(0).RGB255()
	want := color.NRGBA{R: r, G: g, B: b, A: 255}

	// Box spans pixels 30-70; the stroke sits on the edges
	if got := out.NRGBAAt(35, 30); got != want {
		t.Errorf("top edge pixel = %v, want %v", got, want)
	}
	if got := out.NRGBAAt(30, 35); got != want {
		t.Errorf("left edge pixel = %v, want %v", got, want)
	}

	// Interior and exterior stay untouched
	black := color.NRGBA{A: 255}
	if got := out.NRGBAAt(50, 50); got != black {
		t.Errorf("interior pixel = %v, want untouched", got)
	}
	if got := out.NRGBAAt(5, 5); got != black {
		t.Errorf("exterior pixel = %v, want untouched", got)
	}

	// The input image is not modified
	if got := base.NRGBAAt(35, 30); got != black {
		t.Errorf("input image was modified: %v", got)
	}
}

func TestOverlayClampsOutOfRangeBox(t *testing.T) {
	base := imaging.New(50, 50, color.NRGBA{A: 255})
	// Center near the corner pushes the box past the edge
	ann := dataset.Annotation{ClassID: 1, XCenter: 0.02, YCenter: 0.02, Width: 0.2, Height: 0.2}

	out := Overlay(base, []dataset.Annotation{ann})

	// Drawing must not panic and must touch the clamped corner region
	r, g, b := ClassColor(1).RGB255()
	want := color.NRGBA{R: r, G: g, B: b, A: 255}
	if got := out.NRGBAAt(0, 0); got != want {
		t.Errorf("clamped corner pixel = %v, want %v", got, want)
	}
}
