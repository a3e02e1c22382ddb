// Package players exposes the read-only player endpoints.
package players

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/dartsstats/internal/http/errors"
	"github.com/dropDatabas3/dartsstats/internal/http/helpers"
	"github.com/dropDatabas3/dartsstats/internal/http/services/stats"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

// Controller handles player queries.
type Controller struct {
	service stats.Service
}

// New creates the players Controller.
func New(service stats.Service) *Controller {
	return &Controller{service: service}
}

// List handles GET /api/players
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Players.List"))

	players, err := c.service.ListPlayers(ctx)
	if err != nil {
		log.Error("failed to list players", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, players)
}

// Get handles GET /api/players/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Players.Get"))

	id, ok := helpers.IntParam(chi.URLParam(r, "id"))
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("id must be numeric"))
		return
	}

	p, err := c.service.GetPlayer(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, stats.ErrPlayerNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("player not found"))
		return
	default:
		log.Error("failed to get player", logger.PlayerID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}
