package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/organize"
)

// organizeCommand creates the organize command for sorting collector
// downloads.
func (c *CLI) organizeCommand() *cobra.Command {
	var (
		dest      string
		watch     bool
		platforms []string
	)

	cmd := &cobra.Command{
		Use:   "organize [download-dir]",
		Short: "Sort collector downloads into per-platform dataset folders",
		Long: `Sort collector downloads into per-platform dataset folders.

The collector extension drops {platform}_{timestamp}_{counter}.jpg
screenshots and matching .txt labels into one download directory. This
command moves each file into <dest>/<platform>/images/ or
<dest>/<platform>/labels/. A one-shot pass sorts what is already there;
with --watch the directory stays monitored and new downloads are sorted
as they settle. Unrecognized files are left in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("platforms") && len(c.Config.Organize.Platforms) > 0 {
				platforms = c.Config.Organize.Platforms
			}
			if dest == "" {
				dest = args[0]
			}
			return c.runOrganize(cmd.Context(), args[0], dest, platforms, watch)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "dataset root (defaults to the download directory)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching for new downloads")
	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "platform names to recognize (default built-in set)")

	return cmd
}

// runOrganize sorts existing files, optionally watches for more, and
// reports per-platform counts.
func (c *CLI) runOrganize(ctx context.Context, dir, dest string, platforms []string, watch bool) error {
	org, err := organize.New(organize.Options{
		WatchDir:  dir,
		DestDir:   dest,
		Platforms: platforms,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}
	if err := org.Setup(); err != nil {
		return err
	}

	moved, skipped, err := org.Organize()
	if err != nil {
		return err
	}
	printSuccess("Organized %d files (%d left in place)", moved, skipped)

	if watch {
		printInfo("Watching %s (ctrl+c to stop)", dir)
		if err := org.Watch(ctx); err != nil {
			return err
		}
	}

	printPlatformStats(org.Stats())
	return nil
}

// printPlatformStats lists per-platform file counts, skipping platforms
// with nothing in them.
func printPlatformStats(stats []organize.PlatformCount) {
	shown := 0
	for _, s := range stats {
		if s.Images == 0 && s.Labels == 0 {
			continue
		}
		if shown == 0 {
			printNewline()
			fmt.Println(StyleTitle.Render("Dataset"))
		}
		printKeyValue(s.Platform, fmt.Sprintf("%d images, %d labels", s.Images, s.Labels))
		shown++
	}
}
