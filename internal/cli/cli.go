// Package cli implements the cropforge command-line interface.
//
// The CLI exposes the generation pipeline stage by stage (layout, render,
// preview) and end to end (generate, sweep), plus the collector-side
// tooling around it: the watch-folder organizer, the HTTP API server, run
// registry queries and layout cache management. Commands are built with
// cobra; output is styled with lipgloss and logging goes through
// charmbracelet/log.
//
// Configuration follows flags > config file > defaults. The optional TOML
// file is discovered via ./cropforge.toml, then the XDG config dir, or
// named explicitly with --config.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cropforge/cropforge/pkg/buildinfo"
	"github.com/cropforge/cropforge/pkg/cache"
	"github.com/cropforge/cropforge/pkg/config"
	"github.com/cropforge/cropforge/pkg/pipeline"
	"github.com/cropforge/cropforge/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cropforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// Global flag values, bound in RootCommand.
	logLevel   string
	quiet      bool
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "cropforge",
		Short: "Cropforge generates labeled synthetic training images",
		Long: `Cropforge composites cropped UI elements onto procedurally generated
canvases and writes a YOLO annotation file next to every image, turning a
folder of collector crops into an object-detection training set.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			return c.applyLogFlags()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "only log errors")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./cropforge.toml, then XDG config dir)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.organizeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the configuration. An explicit --config path must
// load cleanly; discovery falls back to defaults when no file exists.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
		return nil
	}
	cfg, path, err := config.Discover()
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// applyLogFlags translates --log-level and --quiet into the logger level.
func (c *CLI) applyLogFlags() error {
	if c.quiet {
		c.SetLogLevel(log.ErrorLevel)
		return nil
	}
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q (use debug, info, warn or error)", c.logLevel)
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner assembles a pipeline runner from the configured cache and
// registry backends.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	layoutCache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	store, err := c.newRegistry(ctx)
	if err != nil {
		_ = layoutCache.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	runner.Registry = store
	runner.TTL = time.Duration(c.Config.Cache.TTLHours) * time.Hour
	return runner, nil
}

// newCache builds the layout cache backend. An unusable cache directory
// quietly degrades to no caching rather than failing the run.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == config.CacheBackendNone {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == config.CacheBackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.Config.Cache.RedisURL})
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newRegistry builds the run registry backend, nil when disabled.
func (c *CLI) newRegistry(ctx context.Context) (registry.Store, error) {
	switch c.Config.Registry.Backend {
	case config.RegistryBackendNone:
		return nil, nil
	case config.RegistryBackendMongo:
		return registry.NewMongoStore(ctx, c.Config.Registry.MongoURL, c.Config.Registry.Database)
	default:
		dir := c.Config.Registry.Dir
		if dir == "" {
			d, err := dataDir()
			if err != nil {
				return nil, nil
			}
			dir = d
		}
		return registry.NewFileStore(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cropforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard
// (~/.local/share/cropforge/). The run registry's file store lives here.
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyOutputConfig fills output options from the config file for flags
// the user did not set. Precedence is flags > file > defaults.
func (c *CLI) applyOutputConfig(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = c.Config.Output.Format
	}
	if !flags.Changed("quality") {
		opts.Quality = c.Config.Output.Quality
	}
	if !flags.Changed("prefix") {
		opts.Prefix = c.Config.Output.Prefix
	}
	if !flags.Changed("out") {
		opts.OutputDir = c.Config.Output.Dir
	}
}

// applySweepConfig fills sweep options from the config file for flags the
// user did not set.
func (c *CLI) applySweepConfig(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if !flags.Changed("canvases") {
		opts.Canvases = strings.Join(c.Config.Sweep.Canvases, ",")
	}
	if !flags.Changed("backgrounds") {
		opts.Backgrounds = strings.Join(c.Config.Sweep.Backgrounds, ",")
	}
	if !flags.Changed("density") {
		opts.Density = c.Config.Sweep.Density
	}
	if !flags.Changed("grid-step") {
		opts.GridStep = c.Config.Sweep.GridStep
	}
	if !flags.Changed("rotate") {
		opts.Rotate = c.Config.Sweep.Rotate
	}
	if !flags.Changed("scale") {
		opts.Scaling = c.Config.Sweep.Scaling
	}
}
