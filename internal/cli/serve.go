package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/internal/server"
	"github.com/cropforge/cropforge/pkg/buildinfo"
)

// serveCommand creates the serve command for the HTTP generation API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the generation API over HTTP.

The server accepts element uploads and generation requests from the
cropping collaborator and streams back rendered samples. It shares the
layout cache and run registry with the CLI commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	printInfo("Listening on %s (ctrl+c to stop)", addr)
	return server.New(runner, buildinfo.Version, c.Logger).ListenAndServe(ctx, addr)
}
