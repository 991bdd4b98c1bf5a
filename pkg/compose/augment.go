package compose

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"
)

// Photometric jitter ranges. Brightness multiplies each channel by a
// factor from [0.9,1.1]; contrast remaps channels about the 128 midpoint
// by a factor from [0.95,1.05].
const (
	BrightnessMin = 0.9
	BrightnessMax = 1.1
	ContrastMin   = 0.95
	ContrastMax   = 1.05
)

// Augment applies photometric jitter with factors drawn from the
// canonical ranges. The draws are random per call; everything after the
// draws is deterministic.
func Augment(img image.Image, rng *rand.Rand) *image.NRGBA {
	brightness := BrightnessMin + rng.Float64()*(BrightnessMax-BrightnessMin)
	contrast := ContrastMin + rng.Float64()*(ContrastMax-ContrastMin)
	return AdjustBrightnessContrast(img, brightness, contrast)
}

// AdjustBrightnessContrast multiplies each color channel by the
// brightness factor, clamps to a byte, then remaps it by
// v' = (v-128)*contrast + 128 and clamps again. Alpha is untouched.
// The two-stage clamp matches byte-per-channel pixel stores that write
// each pass back before the next reads it.
func AdjustBrightnessContrast(img image.Image, brightness, contrast float64) *image.NRGBA {
	adjust := func(v uint8) uint8 {
		bright := clampByte(float64(v) * brightness)
		return clampByte((float64(bright)-128)*contrast + 128)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = adjust(c.R)
		c.G = adjust(c.G)
		c.B = adjust(c.B)
		return c
	})
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
