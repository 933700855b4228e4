package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/config"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/utils"
)

// HealthHandler serves the health and version endpoints
type HealthHandler struct {
	db  HealthChecker
	app config.AppSettings
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker, app config.AppSettings) *HealthHandler {
	return &HealthHandler{db: db, app: app}
}

// Health checks the database connection
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, constants.MsgServiceUnhealthy, nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": h.app.Version,
	})
}

// Version reports the running version and environment
func (h *HealthHandler) Version(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"name":        h.app.Name,
		"version":     h.app.Version,
		"environment": h.app.Environment,
	})
}
