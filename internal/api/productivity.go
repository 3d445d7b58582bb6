package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/Productivity/internal/productivity"
	"github.com/MikeSquared-Agency/Productivity/internal/store"
)

type Calculator interface {
	Calculate(ctx context.Context, trigger string) productivity.Response
}

type ProductivityHandler struct {
	store store.Store
	calc  Calculator
}

func NewProductivityHandler(s store.Store, c Calculator) *ProductivityHandler {
	return &ProductivityHandler{store: s, calc: c}
}

// Calculate runs a calculation and answers with the envelope code as the
// HTTP status.
// POST /api/v1/productivity/calculate
func (h *ProductivityHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	resp := h.calc.Calculate(r.Context(), productivity.TriggerAPI)
	writeJSON(w, resp.Code, resp)
}

// GET /api/v1/productivity/latest
func (h *ProductivityHandler) Latest(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetLatestProductivity(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no productivity recorded"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /api/v1/productivity?limit=&offset=&since=
func (h *ProductivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductivityFilter{}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filter.Offset = n
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since, expected RFC3339"})
			return
		}
		filter.Since = &since
	}

	records, err := h.store.ListProductivity(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if records == nil {
		records = []*store.Productivity{}
	}
	writeJSON(w, http.StatusOK, records)
}
