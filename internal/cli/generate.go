package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/pipeline"
)

// generateCommand creates the generate command for fixed batch runs.
func (c *CLI) generateCommand() *cobra.Command {
	opts := pipeline.Options{Mode: dataset.ModeFixed}

	cmd := &cobra.Command{
		Use:   "generate [elements-dir]",
		Short: "Generate a fixed batch of composites from cropped elements",
		Long: `Generate a fixed batch of composites from cropped elements.

Elements are loaded from the directory (files named <classID>_<name>.<ext>,
or listed in an elements.json manifest), split into groups of --batch-size,
placed randomly without overlap, and composited onto the canvas. Every
image is written next to a YOLO annotation file with the same stem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyOutputConfig(cmd, &opts)
			return c.runGenerate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", pipeline.DefaultBatchSize, "elements composed per image")
	cmd.Flags().StringVar(&opts.Canvases, "canvas", pipeline.DefaultCanvas, "canvas preset or WxH size")
	cmd.Flags().StringVar(&opts.Backgrounds, "background", pipeline.DefaultBackground, "background hex color")
	cmd.Flags().BoolVar(&opts.Augment, "augment", false, "apply brightness/contrast augmentation")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed for placement")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "image format: jpg, png, webp")
	cmd.Flags().IntVar(&opts.Quality, "quality", pipeline.DefaultQuality, "lossy encoder quality (1-100)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", pipeline.DefaultPrefix, "filename stem prefix")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "./output", "output directory")

	return cmd
}

// runGenerate executes the load, place and render stages end to end for
// one fixed batch.
func (c *CLI) runGenerate(ctx context.Context, dir string, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.ElementsDir = dir
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Generating batch...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	summary := result.Summary
	printSuccess("Batch complete")
	printFile(opts.OutputDir)
	printStats(summary.ImagesCreated, result.Stats.LayoutCount, false)
	if summary.ImagesCreated < summary.ImagesRequested {
		printWarning("%d of %d samples failed", summary.ImagesRequested-summary.ImagesCreated, summary.ImagesRequested)
	}
	if summary.Dropped > 0 {
		printDetail("%d elements could not be placed", summary.Dropped)
	}
	printNewline()
	printNextStep("Inspect the run", "cropforge runs show "+summary.RunID)

	return nil
}
