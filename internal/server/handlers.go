package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cropforge/cropforge/pkg/dataset"
	"github.com/cropforge/cropforge/pkg/errors"
	"github.com/cropforge/cropforge/pkg/pipeline"
	"github.com/cropforge/cropforge/pkg/placement"
)

// maxRequestBody caps generate request bodies; base64 element payloads
// for a realistic batch stay far below this.
const maxRequestBody = 64 << 20

// =============================================================================
// Wire Types
// =============================================================================

// EstimateRequest is the sweep configuration to cost out.
type EstimateRequest struct {
	Canvases    string `json:"canvases,omitempty"`
	Density     string `json:"density,omitempty"`
	GridStep    int    `json:"grid_step,omitempty"`
	Backgrounds string `json:"backgrounds,omitempty"`
	Rotate      bool   `json:"rotate,omitempty"`
	Scaling     bool   `json:"scaling,omitempty"`
}

// GenerateElement is one source element in a generate request. Image
// carries the encoded raster bytes as standard base64; the optional bbox
// is the collector's size estimate.
type GenerateElement struct {
	Name    string              `json:"name,omitempty"`
	ClassID int                 `json:"class_id"`
	Image   string              `json:"image"`
	BBox    *dataset.SourceBBox `json:"bbox,omitempty"`
}

// GenerateRequest is a fixed-mode batch over in-memory elements.
type GenerateRequest struct {
	Elements   []GenerateElement `json:"elements"`
	BatchSize  int               `json:"batch_size,omitempty"`
	Canvas     string            `json:"canvas,omitempty"`
	Background string            `json:"background,omitempty"`
	Augment    bool              `json:"augment,omitempty"`
	Seed       uint64            `json:"seed,omitempty"`
	Format     string            `json:"format,omitempty"`
	Quality    int               `json:"quality,omitempty"`
}

// GenerateResult is one rendered sample in a generate response.
type GenerateResult struct {
	Filename   string `json:"filename"`
	Image      string `json:"image"`
	Annotation string `json:"annotation,omitempty"`
}

// GenerateResponse summarizes a completed batch.
type GenerateResponse struct {
	RunID           string           `json:"run_id"`
	ImagesCreated   int              `json:"images_created"`
	ImagesRequested int              `json:"images_requested"`
	Dropped         int              `json:"dropped,omitempty"`
	Results         []GenerateResult `json:"results"`
}

type presetsResponse struct {
	Canvases    []dataset.CanvasSpec `json:"canvases"`
	Backgrounds []string             `json:"backgrounds"`
	Densities   []string             `json:"densities"`
	Formats     []string             `json:"formats"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	resp := presetsResponse{
		Backgrounds: dataset.BackgroundPresets,
		Densities:   placement.DensityNames,
		Formats:     []string{dataset.FormatJPG, dataset.FormatPNG, dataset.FormatWebP},
	}
	for _, name := range dataset.CanvasPresetNames {
		resp.Canvases = append(resp.Canvases, dataset.CanvasPresets[name])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidConfig, "invalid request body: %v", err))
		return
	}

	est, err := pipeline.EstimateSweep(pipeline.Options{
		Mode:        dataset.ModeSweep,
		Canvases:    req.Canvases,
		Density:     req.Density,
		GridStep:    req.GridStep,
		Backgrounds: req.Backgrounds,
		Rotate:      req.Rotate,
		Scaling:     req.Scaling,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidConfig, "invalid request body: %v", err))
		return
	}

	elems, err := decodeElements(req.Elements)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Elements:    elems,
		Mode:        dataset.ModeFixed,
		Canvases:    req.Canvas,
		BatchSize:   req.BatchSize,
		Backgrounds: req.Background,
		Augment:     req.Augment,
		Seed:        req.Seed,
		Format:      req.Format,
		Quality:     req.Quality,
		Logger:      s.logger,
	}

	// One batch at a time; later requests wait their turn.
	s.genMu.Lock()
	result, err := s.runner.Execute(r.Context(), opts)
	s.genMu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := GenerateResponse{
		RunID:           result.Summary.RunID,
		ImagesCreated:   result.Summary.ImagesCreated,
		ImagesRequested: result.Summary.ImagesRequested,
		Dropped:         result.Summary.Dropped,
		Results:         make([]GenerateResult, 0, len(result.Summary.Results)),
	}
	for _, res := range result.Summary.Results {
		resp.Results = append(resp.Results, GenerateResult{
			Filename:   res.Filename,
			Image:      base64.StdEncoding.EncodeToString(res.Image),
			Annotation: res.Annotation,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeElements converts wire elements into pipeline source elements.
func decodeElements(wire []GenerateElement) ([]dataset.SourceElement, error) {
	elems := make([]dataset.SourceElement, 0, len(wire))
	for i, e := range wire {
		data, err := base64.StdEncoding.DecodeString(e.Image)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidElements,
				"element %d: image is not valid base64: %v", i, err)
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("element_%03d", i)
		}
		elems = append(elems, dataset.SourceElement{
			Name:    name,
			ClassID: e.ClassID,
			Data:    data,
			BBox:    e.BBox,
		})
	}
	return elems, nil
}

// =============================================================================
// JSON Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a pipeline error onto the JSON error envelope with the
// HTTP status its code implies.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorEnvelope{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// statusFor maps error codes to HTTP statuses: configuration problems are
// the caller's fault, missing resources are 404, the rest is on us.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidElements,
		errors.ErrCodeInvalidCanvas,
		errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidDensity,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeRunNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
