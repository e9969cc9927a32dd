package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog CatalogStatus
	logger  *slog.Logger
}

// CatalogStatus reports whether the catalog has been loaded
type CatalogStatus interface {
	Stats() map[string]interface{}
}

// NewHealthHandler creates a new health handler. catalog may be nil.
func NewHealthHandler(catalog CatalogStatus, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	CatalogLoaded bool      `json:"catalogLoaded"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	if h.catalog != nil {
		stats := h.catalog.Stats()
		dishes, _ := stats["dishes_loaded"].(bool)
		menu, _ := stats["menu_loaded"].(bool)
		response.CatalogLoaded = dishes && menu
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
