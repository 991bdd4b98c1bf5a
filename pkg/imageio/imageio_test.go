package imageio

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestEncodeDecode(t *testing.T) {
	img := imaging.New(32, 16, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	tests := []struct {
		name   string
		format string
	}{
		{name: "JPG", format: "jpg"},
		{name: "PNG", format: "png"},
		{name: "WebP", format: "webp"},
		{name: "EmptyDefaultsToJPG", format: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(img, tt.format, 92)
			if err != nil {
				t.Fatalf("Encode(%s): %v", tt.format, err)
			}
			if len(data) == 0 {
				t.Fatal("empty encoded output")
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode(%s): %v", tt.format, err)
			}
			b := decoded.Bounds()
			if b.Dx() != 32 || b.Dy() != 16 {
				t.Errorf("decoded size = %dx%d, want 32x16", b.Dx(), b.Dy())
			}
		})
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	img := imaging.New(4, 4, color.NRGBA{A: 255})
	if _, err := Encode(img, "bmp", 92); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDecodeCorruptData(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("expected error for corrupt data")
	}
	if _, err := Decode(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestSize(t *testing.T) {
	img := imaging.New(120, 45, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	data, err := Encode(img, "png", 0)
	if err != nil {
		t.Fatal(err)
	}

	w, h, err := Size(data)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if w != 120 || h != 45 {
		t.Errorf("size = %dx%d, want 120x45", w, h)
	}

	if _, _, err := Size([]byte("junk")); err == nil {
		t.Error("expected error for junk data")
	}
}

func TestSaveAndDecodeFile(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(20, 20, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	for _, format := range []string{"jpg", "png", "webp"} {
		path := filepath.Join(dir, "out."+format)
		if err := Save(img, path, format, 92); err != nil {
			t.Fatalf("Save(%s): %v", format, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s: empty file", format)
		}

		decoded, err := DecodeFile(path)
		if err != nil {
			t.Fatalf("DecodeFile(%s): %v", format, err)
		}
		if b := decoded.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
			t.Errorf("%s: decoded size = %dx%d, want 20x20", format, b.Dx(), b.Dy())
		}
	}
}

func TestDecodeFileNotFound(t *testing.T) {
	if _, err := DecodeFile("nonexistent.png"); err == nil {
		t.Error("expected error for missing file")
	}
}
