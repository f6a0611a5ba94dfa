package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/store"
)

// SamplesHandler handles HTTP requests for recorded sample resources.
type SamplesHandler struct {
	store *store.Store
}

// NewSamplesHandler creates a new SamplesHandler with the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/samples and /api/samples/{id}
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/samples")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type sampleResponse struct {
	ID         int64              `json:"id"`
	SessionID  string             `json:"session_id"`
	Gesture    string             `json:"gesture"`
	Landmarks  []landmark.Point3D `json:"landmarks"`
	CapturedAt string             `json:"captured_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
	Counts  map[string]int   `json:"counts"`
}

func toSampleResponse(s *store.Sample) sampleResponse {
	return sampleResponse{
		ID:         s.ID,
		SessionID:  s.SessionID,
		Gesture:    s.Gesture,
		Landmarks:  s.Landmarks.Points(),
		CapturedAt: s.CapturedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// list handles GET /api/samples[?gesture=&session=]
func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request) {
	samples := h.store.Samples()
	q := r.URL.Query()

	var (
		list []store.Sample
		err  error
	)
	switch {
	case q.Get("gesture") != "":
		list, err = samples.ListByGesture(r.Context(), q.Get("gesture"))
	case q.Get("session") != "":
		list, err = samples.ListBySession(r.Context(), q.Get("session"))
	default:
		list, err = samples.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	counts, err := samples.CountByGesture(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(list)),
		Counts:  counts,
	}
	for i := range list {
		response.Samples = append(response.Samples, toSampleResponse(&list[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/samples/{id}
func (h *SamplesHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	s, err := h.store.Samples().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sample not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sample")
		return
	}

	writeJSON(w, http.StatusOK, toSampleResponse(s))
}

// delete handles DELETE /api/samples/{id}
func (h *SamplesHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.store.Samples().Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sample not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete sample")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
