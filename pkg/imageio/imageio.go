// Package imageio decodes source element images and encodes rendered
// canvases. Decoding accepts anything the registered stdlib decoders
// handle plus WebP; encoding supports jpg, png and webp.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/cropforge/cropforge/pkg/dataset"
)

// Decode decodes encoded raster bytes. Tries the registered stdlib
// decoders first, then falls back to an explicit WebP decode.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// DecodeFile loads an image from a file path with WebP support.
func DecodeFile(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// Size reads the pixel dimensions of encoded raster bytes without a full
// decode.
func Size(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// DecodeConfig covers registered formats; fall back to a full
		// decode for anything the config path cannot handle.
		img, derr := Decode(data)
		if derr != nil {
			return 0, 0, err
		}
		b := img.Bounds()
		return b.Dx(), b.Dy(), nil
	}
	return cfg.Width, cfg.Height, nil
}

// Encode serializes an image in the given format. Quality applies to the
// lossy formats; non-positive values use the default.
func Encode(img image.Image, format string, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = dataset.DefaultJPEGQuality
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case dataset.FormatWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, err
		}
	case dataset.FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, err
		}
	case dataset.FormatJPG, "jpeg", "":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return buf.Bytes(), nil
}

// Save encodes an image and writes it to a file.
func Save(img image.Image, path, format string, quality int) error {
	data, err := Encode(img, format, quality)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
