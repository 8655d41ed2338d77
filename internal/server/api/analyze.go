// Package api provides HTTP API handlers for the skin analysis service.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/karenhsieh75/med-it-easy/internal/analysis"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
	"github.com/karenhsieh75/med-it-easy/internal/store"
)

// maxUploadBytes limits the accepted image payload size.
const maxUploadBytes = 10 << 20

// AnalyzeHandler handles face photo uploads and returns analysis results.
type AnalyzeHandler struct {
	engine *analysis.Engine
	store  *store.Store
}

// NewAnalyzeHandler creates a new AnalyzeHandler. The store may be nil,
// in which case results are not persisted.
func NewAnalyzeHandler(engine *analysis.Engine, s *store.Store) *AnalyzeHandler {
	return &AnalyzeHandler{engine: engine, store: s}
}

// ServeHTTP implements the http.Handler interface. It accepts POST
// requests with the photo either as multipart form field "file" or as
// the raw request body.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := readImagePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, analysis.ErrorResult(err))
		return
	}

	img, err := imaging.Decode(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest,
			analysis.ErrorResult(errors.New("unable to decode the uploaded image")))
		return
	}

	result, err := h.engine.Analyze(img)
	if err != nil {
		if errors.Is(err, analysis.ErrNoFaceDetected) || errors.Is(err, analysis.ErrNoSkinPixels) {
			writeJSON(w, http.StatusBadRequest, analysis.ErrorResult(err))
			return
		}
		log.Printf("analysis failed: %v", err)
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	h.persist(result)
	writeJSON(w, http.StatusOK, result)
}

// persist stores the completed result. Persistence failures are logged
// and never fail the request.
func (h *AnalyzeHandler) persist(result *analysis.Result) {
	if h.store == nil {
		return
	}

	doc, err := json.Marshal(result)
	if err != nil {
		log.Printf("marshal analysis result: %v", err)
		return
	}

	rec := &store.Record{
		BestIdx:    result.BestIdx,
		BestTone:   h.engine.Palette().Entries()[result.BestIdx].Name,
		ResultJSON: string(doc),
	}
	if result.Rule != nil {
		rec.RuleID = result.Rule.RuleID
	}
	if result.DarkCircle != nil {
		rec.DarkCircleScore = result.DarkCircle.Score
		rec.DarkCircleType = result.DarkCircle.TypeLabel
	}

	if err := h.store.Records().Create(rec); err != nil {
		log.Printf("store analysis record: %v", err)
	}
}

// readImagePayload extracts the image bytes from a multipart form or the
// raw request body.
func readImagePayload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("missing multipart field \"file\"")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.New("unable to read the uploaded file")
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

// writeJSON encodes v as the response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
