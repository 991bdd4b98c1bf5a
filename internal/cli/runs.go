package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/registry"
)

// runsCommand creates the runs command group for the run registry.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded generation runs",
		Long: `Inspect recorded generation runs.

Every generate and sweep invocation records a run: what was requested,
what was produced and how long it took. Records live in the run registry
configured under [registry] in cropforge.toml.`,
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())

	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRunsList(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show")

	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show one run in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRunsShow(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runRunsList(ctx context.Context, limit int) error {
	store, err := c.newRegistry(ctx)
	if err != nil {
		return fmt.Errorf("open run registry: %w", err)
	}
	if store == nil {
		printWarning("Run registry is disabled")
		return nil
	}
	defer store.Close()

	runs, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		printInfo("No runs recorded yet")
		return nil
	}

	fmt.Println(StyleDim.Render(fmt.Sprintf("%-36s  %-6s %-9s %-18s %-8s %s",
		"ID", "MODE", "IMAGES", "CANVASES", "TOOK", "STARTED")))
	for _, r := range runs {
		images := fmt.Sprintf("%d/%d", r.ImagesCreated, r.ImagesRequested)
		canvases := strings.Join(r.Canvases, ",")
		if len(canvases) > 18 {
			canvases = canvases[:15] + "..."
		}
		took := (time.Duration(r.DurationMS) * time.Millisecond).Round(100 * time.Millisecond)
		fmt.Printf("%-36s  %-6s %-9s %-18s %-8s %s\n",
			r.ID, r.Mode, images, canvases, took, StyleDim.Render(formatRelativeTime(r.StartedAt)))
	}

	return nil
}

func (c *CLI) runRunsShow(ctx context.Context, id string) error {
	store, err := c.newRegistry(ctx)
	if err != nil {
		return fmt.Errorf("open run registry: %w", err)
	}
	if store == nil {
		printWarning("Run registry is disabled")
		return nil
	}
	defer store.Close()

	run, err := store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	printRun(*run)
	return nil
}

func printRun(r registry.Run) {
	fmt.Println(StyleTitle.Render("Run " + r.ID))
	printKeyValue("mode", r.Mode)
	printKeyValue("canvases", strings.Join(r.Canvases, ", "))
	printKeyValue("images", fmt.Sprintf("%d of %d requested", r.ImagesCreated, r.ImagesRequested))
	if r.Dropped > 0 {
		printKeyValue("dropped", strconv.Itoa(r.Dropped))
	}
	printKeyValue("seed", strconv.FormatUint(r.Seed, 10))
	printKeyValue("started", r.StartedAt.Format("2006-01-02 15:04:05"))
	printKeyValue("duration", (time.Duration(r.DurationMS) * time.Millisecond).String())
}

// formatRelativeTime renders a timestamp as a coarse "ago" string for
// list views.
func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
