package dataset

import "testing"

func TestLookupCanvas(t *testing.T) {
	tests := []struct {
		name       string
		arg        string
		wantOK     bool
		wantWidth  int
		wantHeight int
	}{
		{name: "FHD", arg: "fhd", wantOK: true, wantWidth: 1920, wantHeight: 1080},
		{name: "HD", arg: "hd", wantOK: true, wantWidth: 1280, wantHeight: 720},
		{name: "TwoK", arg: "2k", wantOK: true, wantWidth: 2560, wantHeight: 1440},
		{name: "Square", arg: "square", wantOK: true, wantWidth: 640, wantHeight: 640},
		{name: "CaseInsensitive", arg: "FHD", wantOK: true, wantWidth: 1920, wantHeight: 1080},
		{name: "Unknown", arg: "cinema", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := LookupCanvas(tt.arg)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if spec.Width != tt.wantWidth || spec.Height != tt.wantHeight {
				t.Errorf("spec = %dx%d, want %dx%d", spec.Width, spec.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestParseCanvas(t *testing.T) {
	tests := []struct {
		name       string
		arg        string
		wantErr    bool
		wantWidth  int
		wantHeight int
		wantName   string
	}{
		{name: "Preset", arg: "square", wantWidth: 640, wantHeight: 640, wantName: "square"},
		{name: "Explicit", arg: "800x600", wantWidth: 800, wantHeight: 600, wantName: "800x600"},
		{name: "ExplicitUppercaseX", arg: "800X600", wantWidth: 800, wantHeight: 600, wantName: "800x600"},
		{name: "ZeroWidth", arg: "0x600", wantErr: true},
		{name: "NegativeHeight", arg: "800x-600", wantErr: true},
		{name: "Garbage", arg: "portrait", wantErr: true},
		{name: "MissingHeight", arg: "800x", wantErr: true},
		{name: "Empty", arg: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseCanvas(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCanvas: %v", err)
			}
			if spec.Width != tt.wantWidth || spec.Height != tt.wantHeight {
				t.Errorf("spec = %dx%d, want %dx%d", spec.Width, spec.Height, tt.wantWidth, tt.wantHeight)
			}
			if spec.Name != tt.wantName {
				t.Errorf("name = %q, want %q", spec.Name, tt.wantName)
			}
		})
	}
}

func TestParseCanvasList(t *testing.T) {
	specs, err := ParseCanvasList("fhd, square ,800x600")
	if err != nil {
		t.Fatalf("ParseCanvasList: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("specs = %d, want 3", len(specs))
	}
	if specs[0].Name != CanvasFHD || specs[1].Name != CanvasSquare || specs[2].Name != "800x600" {
		t.Errorf("order = %s,%s,%s", specs[0].Name, specs[1].Name, specs[2].Name)
	}

	if _, err := ParseCanvasList(""); err == nil {
		t.Error("expected error for empty list")
	}
	if _, err := ParseCanvasList("fhd,bogus"); err == nil {
		t.Error("expected error for unknown canvas in list")
	}
}

func TestBackgroundPresets(t *testing.T) {
	if len(BackgroundPresets) != 5 {
		t.Fatalf("presets = %d, want 5", len(BackgroundPresets))
	}
	for _, hex := range BackgroundPresets {
		if _, err := ParseHexColor(hex); err != nil {
			t.Errorf("preset %q does not parse: %v", hex, err)
		}
	}
}
