package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validLayoutSet() LayoutSet {
	return LayoutSet{
		Version: LayoutSetVersion,
		Canvas:  CanvasSpec{Name: "square", Width: 640, Height: 640},
		Seed:    42,
		Density: "low",
		Elements: []ElementInfo{
			{Name: "button", ClassID: 0, Width: 100, Height: 40},
			{Name: "input", ClassID: 1, Width: 200, Height: 30},
		},
		Layouts: []Layout{
			{
				{ElementIndex: 0, ClassID: 0, X: 10, Y: 10, Width: 100, Height: 40},
				{ElementIndex: 1, ClassID: 1, X: 300, Y: 200, Width: 200, Height: 30},
			},
		},
	}
}

func TestLayoutSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *LayoutSet)
		wantErr string
	}{
		{
			name:   "Valid",
			mutate: func(s *LayoutSet) {},
		},
		{
			name:    "BadVersion",
			mutate:  func(s *LayoutSet) { s.Version = 99 },
			wantErr: "version",
		},
		{
			name:    "ZeroCanvas",
			mutate:  func(s *LayoutSet) { s.Canvas.Width = 0 },
			wantErr: "canvas",
		},
		{
			name:    "NoLayouts",
			mutate:  func(s *LayoutSet) { s.Layouts = nil },
			wantErr: "must contain layouts",
		},
		{
			name:    "ElementIndexOutOfRange",
			mutate:  func(s *LayoutSet) { s.Layouts[0][0].ElementIndex = 5 },
			wantErr: "out of range",
		},
		{
			name:    "NegativeElementIndex",
			mutate:  func(s *LayoutSet) { s.Layouts[0][0].ElementIndex = -1 },
			wantErr: "out of range",
		},
		{
			name:    "ZeroSize",
			mutate:  func(s *LayoutSet) { s.Layouts[0][0].Width = 0 },
			wantErr: "must be positive",
		},
		{
			name:    "OutOfBounds",
			mutate:  func(s *LayoutSet) { s.Layouts[0][1].X = 600 },
			wantErr: "exceeds canvas",
		},
		{
			name:    "NegativePosition",
			mutate:  func(s *LayoutSet) { s.Layouts[0][0].Y = -1 },
			wantErr: "exceeds canvas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validLayoutSet()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLayoutSetRoundTrip(t *testing.T) {
	orig := validLayoutSet()

	data, err := MarshalLayoutSet(orig)
	if err != nil {
		t.Fatalf("MarshalLayoutSet: %v", err)
	}

	parsed, err := UnmarshalLayoutSet(data)
	if err != nil {
		t.Fatalf("UnmarshalLayoutSet: %v", err)
	}

	if parsed.Version != orig.Version {
		t.Errorf("version = %d, want %d", parsed.Version, orig.Version)
	}
	if parsed.Canvas != orig.Canvas {
		t.Errorf("canvas = %+v, want %+v", parsed.Canvas, orig.Canvas)
	}
	if parsed.Seed != orig.Seed {
		t.Errorf("seed = %d, want %d", parsed.Seed, orig.Seed)
	}
	if len(parsed.Elements) != len(orig.Elements) {
		t.Fatalf("elements = %d, want %d", len(parsed.Elements), len(orig.Elements))
	}
	if len(parsed.Layouts) != len(orig.Layouts) {
		t.Fatalf("layouts = %d, want %d", len(parsed.Layouts), len(orig.Layouts))
	}
	if parsed.Layouts[0][1] != orig.Layouts[0][1] {
		t.Errorf("placement = %+v, want %+v", parsed.Layouts[0][1], orig.Layouts[0][1])
	}
}

func TestUnmarshalLayoutSetInvalid(t *testing.T) {
	if _, err := UnmarshalLayoutSet([]byte(`{not json}`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := UnmarshalLayoutSet([]byte(`{"version":1,"canvas":{"width":640,"height":640},"elements":[],"layouts":[]}`)); err == nil {
		t.Error("expected error for empty layouts")
	}
}

func TestLayoutSetFileIO(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.json")

	orig := validLayoutSet()
	if err := WriteLayoutSetFile(orig, path); err != nil {
		t.Fatalf("WriteLayoutSetFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("written file is empty")
	}

	parsed, err := ReadLayoutSetFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutSetFile: %v", err)
	}
	if len(parsed.Layouts) != 1 {
		t.Errorf("layouts = %d, want 1", len(parsed.Layouts))
	}
}

func TestReadLayoutSetFileNotFound(t *testing.T) {
	_, err := ReadLayoutSetFile("nonexistent.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}
