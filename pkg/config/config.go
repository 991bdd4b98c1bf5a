// Package config loads the optional cropforge TOML configuration file.
//
// Precedence is flags > file > defaults. Load decodes the file over
// [Default], so keys absent from the file keep their default values;
// the CLI then applies flag values on top only for flags the user set.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cropforge/cropforge/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// Cache backends selectable via [cache] backend.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Registry backends selectable via [registry] backend.
const (
	RegistryBackendFile  = "file"
	RegistryBackendMongo = "mongo"
	RegistryBackendNone  = "none"
)

// FileName is the config file looked up in the working directory.
const FileName = "cropforge.toml"

// appName is the directory name under the XDG config home.
const appName = "cropforge"

// =============================================================================
// Config Sections
// =============================================================================

// Config is the full configuration file.
type Config struct {
	Output   Output   `toml:"output"`
	Sweep    Sweep    `toml:"sweep"`
	Cache    Cache    `toml:"cache"`
	Registry Registry `toml:"registry"`
	Serve    Serve    `toml:"serve"`
	Organize Organize `toml:"organize"`
}

// Output configures where and how generated samples are written.
type Output struct {
	// Dir is the output directory. Default "./output".
	Dir string `toml:"dir"`

	// Format is the image format: jpg, png or webp. Default "jpg".
	Format string `toml:"format"`

	// Quality is the JPEG/WebP quality (1-100). Default 92.
	Quality int `toml:"quality"`

	// Prefix is the filename stem prefix. Default "synthetic".
	Prefix string `toml:"prefix"`
}

// Sweep configures the cosmetic sweep defaults.
type Sweep struct {
	// Canvases are canvas presets or WxH sizes. Default ["fhd"].
	Canvases []string `toml:"canvases"`

	// Backgrounds are hex background colors. Default ["#000000"].
	Backgrounds []string `toml:"backgrounds"`

	// Density is the layout density: low, medium, high or maximum.
	// Default "medium".
	Density string `toml:"density"`

	// Rotate enables the rotation variants (90/180/270).
	Rotate bool `toml:"rotate"`

	// Scaling enables the scale variants (0.8/1.2).
	Scaling bool `toml:"scaling"`

	// GridStep is the candidate grid step in pixels. Default 50.
	GridStep int `toml:"grid_step"`
}

// Cache configures the layout set cache.
type Cache struct {
	// Backend is file, redis or none. Default "file".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory (default XDG cache dir).
	Dir string `toml:"dir"`

	// RedisURL is the host:port of the Redis backend.
	RedisURL string `toml:"redis_url"`

	// TTLHours is how long cached layout sets stay valid. Default 168.
	TTLHours int `toml:"ttl_hours"`
}

// Registry configures run record storage.
type Registry struct {
	// Backend is file, mongo or none. Default "file".
	Backend string `toml:"backend"`

	// Dir overrides the file store directory (default user data dir).
	Dir string `toml:"dir"`

	// MongoURL is the mongodb:// connection string.
	MongoURL string `toml:"mongo_url"`

	// Database is the Mongo database name. Default "cropforge".
	Database string `toml:"database"`
}

// Serve configures the HTTP API.
type Serve struct {
	// Addr is the listen address. Default ":8737".
	Addr string `toml:"addr"`
}

// Organize configures the collector-output organizer.
type Organize struct {
	// Platforms overrides the known platform prefixes.
	Platforms []string `toml:"platforms"`
}

// =============================================================================
// Defaults, Loading, Validation
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Output: Output{
			Dir:     "./output",
			Format:  "jpg",
			Quality: 92,
			Prefix:  "synthetic",
		},
		Sweep: Sweep{
			Canvases:    []string{"fhd"},
			Backgrounds: []string{"#000000"},
			Density:     "medium",
			GridStep:    50,
		},
		Cache: Cache{
			Backend:  CacheBackendFile,
			TTLHours: 168,
		},
		Registry: Registry{
			Backend:  RegistryBackendFile,
			Database: "cropforge",
		},
		Serve: Serve{
			Addr: ":8737",
		},
	}
}

// Load reads a TOML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeIOFailed, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Discover finds the config file: ./cropforge.toml first, then
// $XDG_CONFIG_HOME/cropforge/config.toml (falling back to
// ~/.config/cropforge/config.toml). Returns the defaults and an empty
// path when no file exists.
func Discover() (Config, string, error) {
	if _, err := os.Stat(FileName); err == nil {
		cfg, err := Load(FileName)
		return cfg, FileName, err
	}

	dir, err := configDir()
	if err != nil {
		return Default(), "", nil
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks the enumerated and bounded fields.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	switch c.Registry.Backend {
	case RegistryBackendFile, RegistryBackendMongo, RegistryBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"registry backend must be file, mongo or none, got %q", c.Registry.Backend)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"output quality must be 1-100, got %d", c.Output.Quality)
	}
	if c.Cache.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache ttl_hours must be non-negative, got %d", c.Cache.TTLHours)
	}
	return nil
}

// configDir returns the config directory using XDG standard
// (~/.config/cropforge/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
