package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/pipeline"
)

// confirmThreshold is the estimated image count above which a sweep asks
// for confirmation before running.
const confirmThreshold = 1000

// sweepCommand creates the sweep command for end-to-end variation sweeps.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		yes     bool
		dryRun  bool
		noCache bool
	)
	opts := pipeline.Options{Mode: dataset.ModeSweep}

	cmd := &cobra.Command{
		Use:   "sweep [elements-dir]",
		Short: "Run layout and render end to end across canvases",
		Long: `Run layout and render end to end across canvases.

A sweep enumerates grid layouts for every canvas and redraws each layout
under every background, rotation and scale combination. The image count is
the full cross product, so the command prints the worst-case estimate
first and asks for confirmation before large runs. Use --dry-run to see
the estimate without generating anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyOutputConfig(cmd, &opts)
			c.applySweepConfig(cmd, &opts)
			return c.runSweep(cmd.Context(), args[0], yes, dryRun, noCache, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Canvases, "canvases", pipeline.DefaultCanvas, "canvas presets or WxH sizes (comma-separated)")
	cmd.Flags().StringVar(&opts.Backgrounds, "backgrounds", pipeline.DefaultBackground, "background hex colors (comma-separated)")
	cmd.Flags().StringVar(&opts.Density, "density", pipeline.DefaultDensity, "layout density: low, medium, high, maximum")
	cmd.Flags().IntVar(&opts.GridStep, "grid-step", pipeline.DefaultGridStep, "candidate grid step in pixels")
	cmd.Flags().BoolVar(&opts.Rotate, "rotate", false, "include 90/180/270 degree rotations")
	cmd.Flags().BoolVar(&opts.Scaling, "scale", false, "include 0.8x and 1.2x scale variants")
	cmd.Flags().BoolVar(&opts.Augment, "augment", false, "apply brightness/contrast augmentation")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed for grid shuffling")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "image format: jpg, png, webp")
	cmd.Flags().IntVar(&opts.Quality, "quality", pipeline.DefaultQuality, "lossy encoder quality (1-100)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", pipeline.DefaultPrefix, "filename stem prefix")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "./output", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&yes, "yes", false, "run without confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the estimate and exit")

	return cmd
}

// runSweep estimates the sweep, confirms large runs and executes the
// pipeline.
func (c *CLI) runSweep(ctx context.Context, dir string, yes, dryRun, noCache bool, opts pipeline.Options) error {
	opts.ElementsDir = dir
	opts.NoCache = noCache
	opts.Logger = c.Logger

	est, err := pipeline.EstimateSweep(opts)
	if err != nil {
		return err
	}
	printEstimate(est)

	if dryRun {
		return nil
	}

	if est.Images > confirmThreshold && !yes {
		ok, err := confirm(fmt.Sprintf("Generate up to %d images?", est.Images))
		if err != nil {
			return err
		}
		if !ok {
			printDetail("Aborted")
			return nil
		}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Progress = func(phase string, current, total int, status string) {
		c.Logger.Info(phase, "done", fmt.Sprintf("%d/%d", current, total), "last", status)
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Swept %d canvases", est.Canvases))

	summary := result.Summary
	printSuccess("Sweep complete")
	printFile(opts.OutputDir)
	printStats(summary.ImagesCreated, result.Stats.LayoutCount, result.CacheInfo.LayoutHits > 0)
	if summary.ImagesCreated < summary.ImagesRequested {
		printWarning("%d of %d samples failed", summary.ImagesRequested-summary.ImagesCreated, summary.ImagesRequested)
	}
	if summary.Dropped > 0 {
		printDetail("%d elements were never placed", summary.Dropped)
	}
	printNewline()
	printNextStep("Inspect the run", "cropforge runs show "+summary.RunID)

	return nil
}

// printEstimate shows the worst-case sweep product before any work runs.
func printEstimate(est pipeline.SweepEstimate) {
	fmt.Println(StyleTitle.Render("Sweep estimate"))
	printKeyValue("canvases", strconv.Itoa(est.Canvases))
	printKeyValue("layouts", fmt.Sprintf("%d per canvas", est.LayoutTarget))
	printKeyValue("backgrounds", strconv.Itoa(est.Backgrounds))
	printKeyValue("rotations", strconv.Itoa(est.Rotations))
	printKeyValue("scales", strconv.Itoa(est.Scales))
	printKeyValue("images", strconv.Itoa(est.Images))
	printKeyValue("attempt budget", strconv.Itoa(est.AttemptBudget))
	printNewline()
}

// confirm asks a yes/no question on the terminal. Without a TTY the
// answer must come from --yes.
func confirm(question string) (bool, error) {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false, fmt.Errorf("confirmation required for large sweeps: re-run with --yes")
	}
	printInline("%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
