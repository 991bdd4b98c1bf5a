package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/imageio"
	"github.com/cropforge/cropforge/pkg/pipeline"
	"github.com/cropforge/cropforge/pkg/preview"
	"github.com/cropforge/cropforge/pkg/session"
)

// renderCommand creates the render command for cosmetic sweeps over a
// computed layout set.
func (c *CLI) renderCommand() *cobra.Command {
	var debugBoxes bool
	opts := pipeline.Options{Mode: dataset.ModeSweep}

	cmd := &cobra.Command{
		Use:   "render [layouts.json]",
		Short: "Render a layout set under every cosmetic variant",
		Long: `Render a layout set under every cosmetic variant.

Each layout in the set is redrawn once per background, rotation and scale
combination. Source images are reloaded from the paths recorded in the
layout set, so the element files must still be where 'layout' found them.

With --debug-boxes, every emitted annotation is drawn back onto a copy of
its sample so annotation coordinates can be checked against actual pixels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyOutputConfig(cmd, &opts)
			flags := cmd.Flags()
			if !flags.Changed("backgrounds") {
				opts.Backgrounds = strings.Join(c.Config.Sweep.Backgrounds, ",")
			}
			if !flags.Changed("rotate") {
				opts.Rotate = c.Config.Sweep.Rotate
			}
			if !flags.Changed("scale") {
				opts.Scaling = c.Config.Sweep.Scaling
			}
			return c.runRender(cmd.Context(), args[0], debugBoxes, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Backgrounds, "backgrounds", pipeline.DefaultBackground, "background hex colors (comma-separated)")
	cmd.Flags().BoolVar(&opts.Rotate, "rotate", false, "include 90/180/270 degree rotations")
	cmd.Flags().BoolVar(&opts.Scaling, "scale", false, "include 0.8x and 1.2x scale variants")
	cmd.Flags().BoolVar(&opts.Augment, "augment", false, "apply brightness/contrast augmentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "image format: jpg, png, webp")
	cmd.Flags().IntVar(&opts.Quality, "quality", pipeline.DefaultQuality, "lossy encoder quality (1-100)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", pipeline.DefaultPrefix, "filename stem prefix")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "./output", "output directory")
	cmd.Flags().BoolVar(&debugBoxes, "debug-boxes", false, "write *_boxes.png copies with annotation boxes drawn in")

	return cmd
}

// runRender loads the layout set, reloads its source images and renders
// the cosmetic sweep to the output directory.
func (c *CLI) runRender(ctx context.Context, input string, debugBoxes bool, opts pipeline.Options) error {
	set, err := dataset.ReadLayoutSetFile(input)
	if err != nil {
		return fmt.Errorf("load layout set %s: %w", input, err)
	}

	opts.Logger = c.Logger
	opts.Progress = func(phase string, current, total int, status string) {
		c.Logger.Info("rendering", "done", fmt.Sprintf("%d/%d", current, total), "stem", status)
	}
	images := pipeline.LoadSetImages(set, c.Logger)

	sess := session.NewSeeded(set.Seed)
	prog := newProgress(c.Logger)

	summary, err := pipeline.RenderSet(ctx, set, images, sess, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d samples", summary.ImagesCreated))

	if debugBoxes {
		if err := writeDebugBoxes(opts.OutputDir, summary.Results); err != nil {
			return err
		}
	}

	printSuccess("Render complete")
	printFile(opts.OutputDir)
	printStats(summary.ImagesCreated, len(set.Layouts), false)
	if summary.ImagesCreated < summary.ImagesRequested {
		printWarning("%d of %d samples failed", summary.ImagesRequested-summary.ImagesCreated, summary.ImagesRequested)
	}

	return nil
}

// writeDebugBoxes re-reads every written sample and saves a copy with its
// annotation boxes drawn on top.
func writeDebugBoxes(dir string, results []dataset.Result) error {
	for i := range results {
		res := &results[i]
		img, err := imageio.DecodeFile(filepath.Join(dir, res.Filename))
		if err != nil {
			return fmt.Errorf("reload %s: %w", res.Filename, err)
		}
		anns, err := dataset.ParseAnnotations(res.Annotation)
		if err != nil {
			return fmt.Errorf("parse annotation %s: %w", res.Stem, err)
		}
		overlaid := preview.Overlay(img, anns)
		data, err := imageio.Encode(overlaid, dataset.FormatPNG, 100)
		if err != nil {
			return fmt.Errorf("encode boxes for %s: %w", res.Stem, err)
		}
		path := filepath.Join(dir, res.Stem+"_boxes.png")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
