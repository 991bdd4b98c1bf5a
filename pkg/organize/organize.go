// Package organize sorts collector downloads into a per-platform
// dataset tree.
//
// The browser extension drops pairs of files into a single download
// directory, named {platform}_{timestamp}_{counter}.jpg for screenshots
// and .txt for the matching YOLO label. An Organizer moves each file
// into <dest>/<platform>/images/ or <dest>/<platform>/labels/, either as
// a one-shot pass over existing files or continuously via [Organizer.Watch].
//
// Files that do not parse, name an unknown platform, or carry an
// unexpected extension are warned about and left in place.
package organize

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPlatforms are the source platforms the collector extension
// supports.
var DefaultPlatforms = []string{
	"twitter", "instagram", "facebook", "whatsapp",
	"linkedin", "reddit", "discord", "threads",
	"youtube", "snapchat",
}

const (
	// ImageExt is the screenshot extension dropped by the collector.
	ImageExt = ".jpg"

	// LabelExt is the YOLO label extension dropped by the collector.
	LabelExt = ".txt"

	// settleDelay gives in-progress downloads time to finish before a
	// watched file is moved.
	settleDelay = 500 * time.Millisecond
)

// Options configure an Organizer.
type Options struct {
	// WatchDir is the collector download directory.
	WatchDir string

	// DestDir is the dataset root receiving the platform trees.
	DestDir string

	// Platforms overrides DefaultPlatforms when non-empty.
	Platforms []string

	// Logger receives per-file progress. Defaults to a silent logger.
	Logger *log.Logger
}

// Organizer moves collector files into the dataset tree.
type Organizer struct {
	watchDir  string
	destDir   string
	platforms []string
	known     map[string]bool
	logger    *log.Logger
}

// New creates an Organizer.
func New(opts Options) (*Organizer, error) {
	if opts.WatchDir == "" {
		return nil, fmt.Errorf("watch directory is required")
	}
	if opts.DestDir == "" {
		return nil, fmt.Errorf("destination directory is required")
	}

	platforms := opts.Platforms
	if len(platforms) == 0 {
		platforms = DefaultPlatforms
	}
	normalized := make([]string, 0, len(platforms))
	known := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		p = strings.ToLower(p)
		normalized = append(normalized, p)
		known[p] = true
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return &Organizer{
		watchDir:  opts.WatchDir,
		destDir:   opts.DestDir,
		platforms: normalized,
		known:     known,
		logger:    logger,
	}, nil
}

// Setup creates the watch directory and every platform's images/ and
// labels/ folders.
func (o *Organizer) Setup() error {
	if err := os.MkdirAll(o.watchDir, 0755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}
	for _, platform := range o.platforms {
		for _, kind := range []string{"images", "labels"} {
			if err := os.MkdirAll(filepath.Join(o.destDir, platform, kind), 0755); err != nil {
				return fmt.Errorf("create %s/%s: %w", platform, kind, err)
			}
		}
	}
	return nil
}

// classify parses a collector filename into its destination.
// The error names the reason a file should stay where it is.
func (o *Organizer) classify(filename string) (platform, kind string, err error) {
	parts := strings.Split(filename, "_")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("invalid filename format: %s", filename)
	}

	platform = strings.ToLower(parts[0])
	if !o.known[platform] {
		return "", "", fmt.Errorf("unknown platform: %s", platform)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ImageExt:
		return platform, "images", nil
	case LabelExt:
		return platform, "labels", nil
	default:
		return "", "", fmt.Errorf("unknown file extension: %s", filepath.Ext(filename))
	}
}

// ProcessFile moves one file into the dataset tree. It reports whether
// the file was moved; files that do not belong to the collector are
// warned about and left in place.
func (o *Organizer) ProcessFile(path string) (bool, error) {
	filename := filepath.Base(path)
	platform, kind, err := o.classify(filename)
	if err != nil {
		o.logger.Warn("skipping file", "file", filename, "reason", err)
		return false, nil
	}

	destFolder := filepath.Join(o.destDir, platform, kind)
	if err := os.MkdirAll(destFolder, 0755); err != nil {
		return false, fmt.Errorf("create destination: %w", err)
	}

	dest := filepath.Join(destFolder, filename)
	if _, err := os.Stat(dest); err == nil {
		// Collision: disambiguate with a timestamp suffix
		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		dest = filepath.Join(destFolder, fmt.Sprintf("%s_dup_%d%s", base, time.Now().Unix(), ext))
		o.logger.Warn("file already exists, renaming", "file", filename, "dest", filepath.Base(dest))
	}

	if err := moveFile(path, dest); err != nil {
		return false, fmt.Errorf("move %s: %w", filename, err)
	}

	o.logger.Info("moved", "kind", kind, "file", platform+"/"+filepath.Base(dest))
	return true, nil
}

// Organize processes every file currently in the watch directory.
// Returns the number of files moved and the number left in place.
func (o *Organizer) Organize() (moved, skipped int, err error) {
	entries, err := os.ReadDir(o.watchDir)
	if err != nil {
		return 0, 0, fmt.Errorf("read watch dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := o.ProcessFile(filepath.Join(o.watchDir, entry.Name()))
		if err != nil {
			return moved, skipped, err
		}
		if ok {
			moved++
		} else {
			skipped++
		}
	}
	return moved, skipped, nil
}

// PlatformCount is one row of the dataset statistics table.
type PlatformCount struct {
	Platform string
	Images   int
	Labels   int
}

// Stats counts organized files per platform, in configuration order.
// Missing platform folders count as zero.
func (o *Organizer) Stats() []PlatformCount {
	counts := make([]PlatformCount, 0, len(o.platforms))
	for _, platform := range o.platforms {
		counts = append(counts, PlatformCount{
			Platform: platform,
			Images:   countFiles(filepath.Join(o.destDir, platform, "images"), ImageExt),
			Labels:   countFiles(filepath.Join(o.destDir, platform, "labels"), LabelExt),
		})
	}
	return counts
}

func countFiles(dir, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ext) {
			n++
		}
	}
	return n
}

// moveFile renames src to dest, falling back to copy and remove when
// the two paths are on different filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return err
	}
	return os.Remove(src)
}
