package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/pipeline"
)

// defaultLayoutFile is the layout command's output when -o is not given.
const defaultLayoutFile = "layouts.json"

// layoutCommand creates the layout command for grid enumeration.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		canvasName string
		noCache    bool
	)
	opts := pipeline.Options{Mode: dataset.ModeSweep}

	cmd := &cobra.Command{
		Use:   "layout [elements-dir]",
		Short: "Enumerate non-overlapping grid layouts for one canvas",
		Long: `Enumerate non-overlapping grid layouts for one canvas.

The layout command loads elements and walks a shuffled grid of candidate
positions, collecting as many distinct non-overlapping layouts as the
density tier asks for. The output is a layouts.json file that 'render'
and 'preview' consume, and the unit the layout cache stores.

Results are cached locally, keyed by a content hash over the element
sizes and every placement knob.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("density") {
				opts.Density = c.Config.Sweep.Density
			}
			if !flags.Changed("grid-step") {
				opts.GridStep = c.Config.Sweep.GridStep
			}
			return c.runLayout(cmd.Context(), args[0], canvasName, output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultLayoutFile, "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&canvasName, "canvas", pipeline.DefaultCanvas, "canvas preset or WxH size")
	cmd.Flags().StringVar(&opts.Density, "density", pipeline.DefaultDensity, "layout density: low, medium, high, maximum")
	cmd.Flags().IntVar(&opts.GridStep, "grid-step", pipeline.DefaultGridStep, "candidate grid step in pixels")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed for grid shuffling")

	return cmd
}

// runLayout loads elements, enumerates the layout set and writes it out.
func (c *CLI) runLayout(ctx context.Context, dir, canvasName, output string, noCache bool, opts pipeline.Options) error {
	elems, err := pipeline.Load(dir, c.Logger)
	if err != nil {
		return fmt.Errorf("load elements %s: %w", dir, err)
	}

	canvas, err := dataset.ParseCanvas(canvasName)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Canvases = canvasName
	opts.NoCache = noCache
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Enumerating %s layouts...", canvas.Name))
	spinner.Start()

	set, cacheHit, err := runner.LayoutWithCacheInfo(ctx, elems, canvas, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("enumerate layouts: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := dataset.WriteLayoutSetFile(set, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(0, len(set.Layouts), cacheHit)
	printNewline()
	printNextStep("Render", "cropforge render "+output)

	return nil
}
