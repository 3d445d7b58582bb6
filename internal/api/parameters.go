package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Productivity/internal/store"
)

type ParametersHandler struct {
	store store.Store
}

func NewParametersHandler(s store.Store) *ParametersHandler {
	return &ParametersHandler{store: s}
}

type UpsertParameterRequest struct {
	Value string `json:"value"`
}

// GET /api/v1/parameters/{description}
func (h *ParametersHandler) Get(w http.ResponseWriter, r *http.Request) {
	desc := strings.ToUpper(chi.URLParam(r, "description"))
	p, err := h.store.GetParameterByDescription(r.Context(), desc)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "parameter not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /api/v1/parameters/{description}
func (h *ParametersHandler) Put(w http.ResponseWriter, r *http.Request) {
	desc := strings.ToUpper(chi.URLParam(r, "description"))

	var req UpsertParameterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Value) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value required"})
		return
	}

	p := &store.Parameter{Description: desc, Value: req.Value}
	if err := h.store.UpsertParameter(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}
