package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cropforge/cropforge/pkg/cache"
	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/errors"
	"github.com/cropforge/cropforge/pkg/imageio"
)

// ManifestFilename is the optional per-directory element manifest. When
// present it overrides filename-based class inference for the files it
// lists.
const ManifestFilename = "elements.json"

// validImageExts are the file extensions considered source element images
// during a directory scan.
var validImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// =============================================================================
// Manifest
// =============================================================================

// Manifest is the elements.json schema: an explicit element list with class
// assignments and optional collector bounding boxes. File references are
// resolved relative to the manifest's directory.
type Manifest struct {
	Version  int               `json:"version"`
	Classes  map[string]string `json:"classes,omitempty"` // class id (decimal string) → display name
	Elements []ManifestElement `json:"elements"`
}

// ManifestElement is one entry in an elements manifest.
type ManifestElement struct {
	File    string              `json:"file"`
	ClassID int                 `json:"class_id"`
	BBox    *dataset.SourceBBox `json:"bbox,omitempty"`
}

// =============================================================================
// Load Stage
// =============================================================================

// Load reads source elements from a directory. When the directory contains
// an elements.json manifest, its entries are loaded; otherwise every image
// file named <classID>_<rest> is loaded and files without a class prefix
// are skipped with a warning.
//
// Elements whose image bytes cannot be decoded are kept with a zero size
// (so the failure surfaces later as a placement or sample failure rather
// than an aborted load); the load itself fails only when nothing at all
// could be loaded.
func Load(dir string, logger *log.Logger) ([]dataset.SourceElement, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "elements directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s is not a directory", dir)
	}

	manifestPath := filepath.Join(dir, ManifestFilename)
	if _, err := os.Stat(manifestPath); err == nil {
		return loadManifest(dir, manifestPath, logger)
	}
	return loadDir(dir, logger)
}

// loadDir scans a directory for class-prefixed image files.
func loadDir(dir string, logger *log.Logger) ([]dataset.SourceElement, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailed, err, "read elements directory %s", dir)
	}

	var elems []dataset.SourceElement
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !validImageExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		classID, ok := classFromFilename(name)
		if !ok {
			logger.Warn("skipping file without class prefix", "file", name)
			continue
		}
		if err := errors.ValidateClassID(classID); err != nil {
			logger.Warn("skipping file with invalid class id", "file", name, "error", err)
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "file", name, "error", err)
			continue
		}

		elem := dataset.SourceElement{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Path:    path,
			ClassID: classID,
			Data:    data,
		}
		fillSize(&elem, logger)
		elems = append(elems, elem)
	}

	if len(elems) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidElements,
			"no elements loaded from %s (expected <classID>_name image files)", dir)
	}
	return elems, nil
}

// loadManifest loads the elements listed in an elements.json manifest.
func loadManifest(dir, manifestPath string, logger *log.Logger) ([]dataset.SourceElement, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFailed, err, "read manifest %s", manifestPath)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", manifestPath)
	}
	if len(m.Elements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %s lists no elements", manifestPath)
	}

	var elems []dataset.SourceElement
	for _, entry := range m.Elements {
		if err := errors.ValidateManifestFileRef(entry.File); err != nil {
			return nil, err
		}
		if err := errors.ValidateClassID(entry.ClassID); err != nil {
			return nil, err
		}

		elem := dataset.SourceElement{
			Name:    elementName(m.Classes, entry),
			Path:    filepath.Join(dir, entry.File),
			ClassID: entry.ClassID,
			BBox:    entry.BBox,
		}

		data, err := os.ReadFile(elem.Path)
		if err != nil {
			// Entries with a collector bbox still carry a size estimate,
			// so placement can proceed without the image bytes.
			if entry.BBox == nil {
				logger.Warn("skipping unreadable manifest entry", "file", entry.File, "error", err)
				continue
			}
			logger.Warn("manifest entry image unreadable, using bbox estimate", "file", entry.File, "error", err)
		} else {
			elem.Data = data
			fillSize(&elem, logger)
		}
		elems = append(elems, elem)
	}

	if len(elems) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidElements,
			"no elements loaded from manifest %s", manifestPath)
	}
	return elems, nil
}

// classFromFilename extracts the numeric class prefix from a filename like
// "3_like_button_0042.png".
func classFromFilename(name string) (int, bool) {
	idx := strings.IndexByte(name, '_')
	if idx <= 0 {
		return 0, false
	}
	classID, err := strconv.Atoi(name[:idx])
	if err != nil {
		return 0, false
	}
	return classID, true
}

// elementName resolves an element's display name: the class label from the
// manifest when one exists, otherwise the file basename.
func elementName(classes map[string]string, entry ManifestElement) string {
	if label, ok := classes[strconv.Itoa(entry.ClassID)]; ok && label != "" {
		return label
	}
	base := filepath.Base(entry.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// fillSize records an element's intrinsic pixel size from its image bytes.
// Undecodable bytes leave the size at zero; the element is kept so the
// failure surfaces at placement or render time.
func fillSize(elem *dataset.SourceElement, logger *log.Logger) {
	if elem.Width > 0 && elem.Height > 0 {
		return
	}
	if len(elem.Data) == 0 {
		return
	}
	w, h, err := imageio.Size(elem.Data)
	if err != nil {
		logger.Warn("could not read element size", "element", elem.Name, "error", err)
		return
	}
	elem.Width = w
	elem.Height = h
}

// fillSizes records intrinsic sizes for caller-supplied elements that were
// not loaded through Load (API requests carry raw image bytes only).
func fillSizes(elems []dataset.SourceElement, logger *log.Logger) {
	for i := range elems {
		fillSize(&elems[i], logger)
	}
}

// ElementsHash fingerprints the inputs that determine layout enumeration:
// each element's class label and effective pixel size, in element order.
// Names and paths are excluded - elements with identical pixels produce
// identical layouts and share a cache entry.
func ElementsHash(elems []dataset.SourceElement) string {
	var b strings.Builder
	for i := range elems {
		w, h, _ := elems[i].EstimatedSize()
		fmt.Fprintf(&b, "%d:%dx%d;", elems[i].ClassID, w, h)
	}
	return cache.Hash([]byte(b.String()))
}

// elementInfos converts loaded elements to their serializable layout set
// form.
func elementInfos(elems []dataset.SourceElement) []dataset.ElementInfo {
	infos := make([]dataset.ElementInfo, len(elems))
	for i := range elems {
		w, h, _ := elems[i].EstimatedSize()
		infos[i] = dataset.ElementInfo{
			Name:    elems[i].Name,
			Path:    elems[i].Path,
			ClassID: elems[i].ClassID,
			Width:   w,
			Height:  h,
		}
	}
	return infos
}
