package preview

import (
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// faceCandidates are common sans fonts across Linux, macOS and Windows.
var faceCandidates = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"Arial.ttf",
	"arial.ttf",
	"Helvetica.ttf",
}

// loadFace finds a usable system font for schematic labels.
// Returns nil when none resolves; callers render label-free.
func loadFace(points float64) font.Face {
	for _, name := range faceCandidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		return truetype.NewFace(f, &truetype.Options{Size: points, DPI: 72})
	}
	return nil
}
