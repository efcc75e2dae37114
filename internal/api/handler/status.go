package handler

import (
	"net/http"

	"github.com/creamcroissant/ansine/internal/metrics"
)

// StatusHandler serves the current metrics snapshot.
type StatusHandler struct {
	store *metrics.Store
}

// NewStatusHandler returns a handler reading from store.
func NewStatusHandler(store *metrics.Store) *StatusHandler {
	return &StatusHandler{store: store}
}

// Metrics returns the latest snapshot as JSON. It never fails for a missing
// sample: before the first publish the store yields a zero-valued snapshot,
// so the front-end always has something to render.
func (h *StatusHandler) Metrics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Current())
}
