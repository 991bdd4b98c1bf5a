package compose

import (
	"fmt"
	"math"
	"time"

	"github.com/cropforge/cropforge/pkg/dataset"
)

// DefaultStemPrefix is used when the caller supplies no filename prefix.
const DefaultStemPrefix = "synthetic"

// Stem builds a filename stem that encodes the disambiguating parameters
// of one sample: prefix, canvas name, background hex digits, rotation,
// scale (in percent), a millisecond timestamp and a per-run sequence
// number. Downstream tooling filters and groups samples by these fields;
// the timestamp plus sequence keeps stems unique across and within runs.
//
//	synthetic_fhd_1a1a1a_r090_s120_1730912345678_0042
func Stem(prefix string, canvas dataset.CanvasSpec, cos dataset.Cosmetic, ts time.Time, seq int) string {
	if prefix == "" {
		prefix = DefaultStemPrefix
	}
	name := canvas.Name
	if name == "" {
		name = fmt.Sprintf("%dx%d", canvas.Width, canvas.Height)
	}
	scale := cos.Scale
	if scale <= 0 {
		scale = 1.0
	}
	return fmt.Sprintf("%s_%s_%s_r%03d_s%03d_%d_%04d",
		prefix,
		name,
		dataset.HexDigits(cos.Background),
		cos.Rotation,
		int(math.Round(scale*100)),
		ts.UnixMilli(),
		seq,
	)
}
