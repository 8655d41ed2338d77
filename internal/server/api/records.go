package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/karenhsieh75/med-it-easy/internal/store"
)

// RecordsHandler handles HTTP requests for stored analysis records.
type RecordsHandler struct {
	store *store.Store
}

// NewRecordsHandler creates a new RecordsHandler with the given store.
func NewRecordsHandler(s *store.Store) *RecordsHandler {
	return &RecordsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/records or /api/records/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/records")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/records
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/records/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type recordResponse struct {
	ID              string          `json:"id"`
	BestIdx         int             `json:"best_idx"`
	BestTone        string          `json:"best_tone"`
	RuleID          string          `json:"rule_id"`
	DarkCircleScore float64         `json:"dark_circle_score"`
	DarkCircleType  string          `json:"dark_circle_type"`
	Result          json.RawMessage `json:"result"`
	CreatedAt       string          `json:"created_at"`
}

func toRecordResponse(rec *store.Record) recordResponse {
	return recordResponse{
		ID:              rec.ID,
		BestIdx:         rec.BestIdx,
		BestTone:        rec.BestTone,
		RuleID:          rec.RuleID,
		DarkCircleScore: rec.DarkCircleScore,
		DarkCircleType:  rec.DarkCircleType,
		Result:          json.RawMessage(rec.ResultJSON),
		CreatedAt:       rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *RecordsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.store.Records().List(limit)
	if err != nil {
		http.Error(w, "Failed to list records", http.StatusInternalServerError)
		return
	}

	response := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *RecordsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Records().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Record not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *RecordsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Records().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Record not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete record", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
