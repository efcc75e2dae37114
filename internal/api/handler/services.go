package handler

import (
	"net/http"

	"github.com/creamcroissant/ansine/internal/config"
)

// ServicesHandler serves the configured service links. The set is loaded
// once at startup and never mutated, so the handler holds a plain map.
type ServicesHandler struct {
	services config.ServiceMap
}

// NewServicesHandler returns a handler over the configured services.
func NewServicesHandler(services config.ServiceMap) *ServicesHandler {
	if services == nil {
		services = config.ServiceMap{}
	}
	return &ServicesHandler{services: services}
}

// List returns the name → {description, route} mapping as JSON.
func (h *ServicesHandler) List(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.services)
}
