package pipeline

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cropforge/cropforge/pkg/compose"
	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/errors"
	"github.com/cropforge/cropforge/pkg/imageio"
	"github.com/cropforge/cropforge/pkg/session"
)

// =============================================================================
// Progress Cadence
// =============================================================================

// ReportEvery returns the progress reporting cadence for a run of the
// given size: every image for small runs, every 10th image up to a
// thousand, every 100th image beyond that.
func ReportEvery(total int) int {
	switch {
	case total <= 100:
		return 1
	case total <= 1000:
		return 10
	default:
		return 100
	}
}

// =============================================================================
// Image Decoding
// =============================================================================

// DecodeImages decodes every element's image bytes once for rendering.
// The returned slice is indexed like the element list; entries that fail
// to decode are nil, and any layout referencing them fails at render time
// as a sample-level failure.
func DecodeImages(elems []dataset.SourceElement, logger *log.Logger) []image.Image {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	images := make([]image.Image, len(elems))
	for i := range elems {
		if len(elems[i].Data) == 0 {
			logger.Warn("element has no image bytes", "element", elems[i].Name)
			continue
		}
		img, err := imageio.Decode(elems[i].Data)
		if err != nil {
			logger.Warn("element image failed to decode", "element", elems[i].Name, "error", err)
			continue
		}
		images[i] = img
	}
	return images
}

// LoadSetImages decodes the source images referenced by a layout set's
// element records. Used when rendering a layout set that was computed in
// an earlier invocation and persisted to disk. Entries whose files are
// missing or undecodable are nil.
func LoadSetImages(set dataset.LayoutSet, logger *log.Logger) []image.Image {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	images := make([]image.Image, len(set.Elements))
	for i, info := range set.Elements {
		if info.Path == "" {
			logger.Warn("layout set element has no source path", "element", info.Name)
			continue
		}
		img, err := imageio.DecodeFile(info.Path)
		if err != nil {
			logger.Warn("layout set element failed to load", "element", info.Name, "path", info.Path, "error", err)
			continue
		}
		images[i] = img
	}
	return images
}

// =============================================================================
// Render Stage
// =============================================================================

// RenderSet renders every layout in a set under every cosmetic variant
// derived from the options. Per-sample failures are logged and skipped;
// the summary's created versus requested counts make them observable.
func RenderSet(ctx context.Context, set dataset.LayoutSet, images []image.Image, sess *session.Session, opts Options) (*dataset.Summary, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.Mode == "" {
		opts.Mode = dataset.ModeSweep
	}
	cosmetics, err := opts.Cosmetics()
	if err != nil {
		return nil, err
	}
	requested := len(set.Layouts) * len(cosmetics)
	return renderAll(ctx, []dataset.LayoutSet{set}, images, cosmetics, sess, opts, requested)
}

// renderAll renders the full cross-product of layouts and cosmetics across
// all layout sets, sharing one progress counter. Cancellation is checked
// between images; a cancelled run returns the partial summary alongside
// the context error.
func renderAll(ctx context.Context, sets []dataset.LayoutSet, images []image.Image, cosmetics []dataset.Cosmetic, sess *session.Session, opts Options, requested int) (*dataset.Summary, error) {
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIOFailed, err, "create output directory %s", opts.OutputDir)
		}
	}

	summary := &dataset.Summary{
		RunID:           sess.ID,
		Mode:            opts.Mode,
		ImagesRequested: requested,
	}
	every := ReportEvery(requested)
	current := 0

	for _, set := range sets {
		renderer := &compose.Renderer{
			Canvas:  set.Canvas,
			Images:  images,
			Format:  opts.Format,
			Quality: opts.Quality,
		}

		for _, layout := range set.Layouts {
			for _, cos := range cosmetics {
				if err := ctx.Err(); err != nil {
					return summary, err
				}
				current++

				stem := compose.Stem(opts.Prefix, set.Canvas, cos, time.Now(), sess.NextSeq())
				res, err := renderer.Render(layout, cos, sess.RNG(), stem)
				if err != nil {
					opts.Logger.Warn("sample failed, skipping",
						"stem", stem, "canvas", set.Canvas.Name, "error", err)
					continue
				}

				if opts.OutputDir != "" {
					if err := WriteResult(opts.OutputDir, res); err != nil {
						opts.Logger.Warn("sample write failed, skipping", "stem", stem, "error", err)
						continue
					}
					// Written samples keep their metadata but drop the
					// encoded bytes so large sweeps stay in bounded memory.
					res.Image = nil
				}

				summary.Results = append(summary.Results, *res)
				summary.ImagesCreated++

				if opts.Progress != nil && (current%every == 0 || current == requested) {
					opts.Progress(PhaseRender, current, requested, stem)
				}
			}
		}
	}

	return summary, nil
}

// WriteResult writes one sample's image and annotation file to dir. The
// annotation file is written even when empty: a blank label marks a
// negative sample, and downstream tooling expects image/label pairs.
func WriteResult(dir string, res *dataset.Result) error {
	imgPath := filepath.Join(dir, res.Filename)
	if err := os.WriteFile(imgPath, res.Image, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailed, err, "write image %s", res.Filename)
	}

	text := res.Annotation
	if text != "" {
		text += "\n"
	}
	labelPath := filepath.Join(dir, res.Stem+".txt")
	if err := os.WriteFile(labelPath, []byte(text), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailed, err, "write annotation %s", res.Stem+".txt")
	}
	return nil
}
