package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devfolio/projects-api/database"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	startupTime time.Time
}

func newHealthHandler(db database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

// health reports database reachability and uptime
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
		}
		status := http.StatusOK
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
		h.responder.WriteJSONStatus(w, status, resp)
	}
}
