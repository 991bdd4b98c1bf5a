package placement

import (
	"reflect"
	"testing"

	"github.com/cropforge/cropforge/pkg/dataset"
)

func TestGridCandidates(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		step  int
		want  []int
	}{
		{name: "NegativeLimit", limit: -1, step: 50, want: nil},
		{name: "ZeroLimit", limit: 0, step: 50, want: []int{0}},
		{name: "ExactMultiple", limit: 100, step: 50, want: []int{0, 50, 100}},
		{name: "NonMultipleTruncates", limit: 140, step: 50, want: []int{0, 50, 100}},
		{name: "StepOne", limit: 3, step: 1, want: []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gridCandidates(tt.limit, tt.step)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("gridCandidates(%d,%d) = %v, want %v", tt.limit, tt.step, got, tt.want)
			}
		})
	}
}

func TestEnumerateLayoutsReachesTarget(t *testing.T) {
	canvas := dataset.CanvasSpec{Width: 1920, Height: 1080}
	items := []Item{
		{Index: 0, ClassID: 0, Width: 100, Height: 60},
		{Index: 1, ClassID: 1, Width: 80, Height: 80},
	}

	layouts, err := EnumerateLayouts(items, canvas, DensityLow, testRNG(1), nil)
	if err != nil {
		t.Fatalf("EnumerateLayouts: %v", err)
	}
	if len(layouts) != 50 {
		t.Fatalf("layouts = %d, want 50 for low density", len(layouts))
	}

	for li, layout := range layouts {
		if len(layout) != len(items) {
			t.Errorf("layout %d placed %d elements, want %d (grid mode requires full success)",
				li, len(layout), len(items))
		}
		checkLayoutInvariants(t, layout, canvas, DefaultSpacing)
	}
}

func TestEnumerateLayoutsGridAligned(t *testing.T) {
	canvas := dataset.CanvasSpec{Width: 800, Height: 600}
	items := []Item{
		{Index: 0, ClassID: 0, Width: 60, Height: 40},
		{Index: 1, ClassID: 1, Width: 50, Height: 50},
	}

	layouts, err := EnumerateLayouts(items, canvas, DensityLow, testRNG(2), &Options{GridStep: 25})
	if err != nil {
		t.Fatalf("EnumerateLayouts: %v", err)
	}
	for li, layout := range layouts {
		for pi, p := range layout {
			if p.X%25 != 0 || p.Y%25 != 0 {
				t.Errorf("layout %d placement %d at (%d,%d) not on 25px grid", li, pi, p.X, p.Y)
			}
		}
	}
}

func TestEnumerateLayoutsAppliesSizingRule(t *testing.T) {
	canvas := dataset.CanvasSpec{Width: 640, Height: 640}
	items := []Item{{Index: 0, ClassID: 0, Width: 1000, Height: 1000}}

	layouts, err := EnumerateLayouts(items, canvas, DensityLow, testRNG(3), nil)
	if err != nil {
		t.Fatalf("EnumerateLayouts: %v", err)
	}
	if len(layouts) == 0 {
		t.Fatal("no layouts for a single scalable element")
	}
	for _, layout := range layouts {
		if layout[0].Width > 192 || layout[0].Height > 192 {
			t.Fatalf("placement %dx%d exceeds 30%% cap", layout[0].Width, layout[0].Height)
		}
	}
}

func TestEnumerateLayoutsDegradesGracefully(t *testing.T) {
	// After sizing, two 30x30 elements on 100x100 share a {0,50} x {0,50}
	// grid where every cell pair violates the 20px spacing. No candidate
	// can ever place both, so enumeration exhausts its budget and returns
	// empty without error.
	canvas := dataset.CanvasSpec{Width: 100, Height: 100}
	items := []Item{
		{Index: 0, ClassID: 0, Width: 90, Height: 90},
		{Index: 1, ClassID: 1, Width: 90, Height: 90},
	}

	layouts, err := EnumerateLayouts(items, canvas, DensityLow, testRNG(4), nil)
	if err != nil {
		t.Fatalf("EnumerateLayouts: %v", err)
	}
	if len(layouts) != 0 {
		t.Errorf("layouts = %d, want 0 for an unsatisfiable grid", len(layouts))
	}
}

func TestEnumerateLayoutsDeterministic(t *testing.T) {
	canvas := dataset.CanvasSpec{Width: 800, Height: 600}
	items := []Item{
		{Index: 0, ClassID: 0, Width: 100, Height: 50},
		{Index: 1, ClassID: 1, Width: 70, Height: 70},
	}

	a, err := EnumerateLayouts(items, canvas, DensityLow, testRNG(9), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EnumerateLayouts(items, canvas, DensityLow, testRNG(9), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different layout sets")
	}
}

func TestEnumerateLayoutsUnknownDensity(t *testing.T) {
	items := []Item{{Index: 0, ClassID: 0, Width: 10, Height: 10}}
	_, err := EnumerateLayouts(items, dataset.CanvasSpec{Width: 640, Height: 640}, "extreme", testRNG(1), nil)
	if err == nil {
		t.Error("expected error for unknown density")
	}
}

func TestEnumerateLayoutsNoItems(t *testing.T) {
	_, err := EnumerateLayouts(nil, dataset.CanvasSpec{Width: 640, Height: 640}, DensityLow, testRNG(1), nil)
	if err == nil {
		t.Error("expected error for empty item list")
	}
}

func TestDensityTargets(t *testing.T) {
	want := map[string]int{
		DensityLow:     50,
		DensityMedium:  200,
		DensityHigh:    500,
		DensityMaximum: 1000,
	}
	for name, target := range want {
		if got := DensityTargets[name]; got != target {
			t.Errorf("DensityTargets[%s] = %d, want %d", name, got, target)
		}
	}
	if len(DensityNames) != 4 {
		t.Errorf("DensityNames = %v, want 4 tiers", DensityNames)
	}
}
