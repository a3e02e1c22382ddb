// Package management exposes the admin-only write endpoints.
package management

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/dartsstats/internal/http/dto"
	httperrors "github.com/dropDatabas3/dartsstats/internal/http/errors"
	"github.com/dropDatabas3/dartsstats/internal/http/helpers"
	"github.com/dropDatabas3/dartsstats/internal/http/services/stats"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

// Controller handles the write operations. All routes behind RequireAdmin.
type Controller struct {
	service stats.Service
}

// New creates the management Controller.
func New(service stats.Service) *Controller {
	return &Controller{service: service}
}

// CreatePlayer handles POST /api/management/players
func (c *Controller) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Management.CreatePlayer"))

	var req dto.CreatePlayerRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("name is required"))
		return
	}

	p, err := c.service.CreatePlayer(ctx, req)
	if err != nil {
		log.Error("failed to create player", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, p)
}

// CreateMatch handles POST /api/management/matches
func (c *Controller) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Management.CreateMatch"))

	var req dto.MatchRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.service.CreateMatch(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, stats.ErrPlayerInvalid):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		return
	default:
		log.Error("failed to create match", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, m)
}

// GetMatch handles GET /api/management/matches/{id}. Returns the match
// with both players embedded, for the edit form.
func (c *Controller) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Management.GetMatch"))

	id, ok := helpers.IntParam(chi.URLParam(r, "id"))
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("id must be numeric"))
		return
	}

	m, err := c.service.GetMatch(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, stats.ErrMatchNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("match not found"))
		return
	default:
		log.Error("failed to get match", logger.MatchID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, m)
}

// UpdateMatch handles PUT /api/management/matches/{id}
func (c *Controller) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Management.UpdateMatch"))

	id, ok := helpers.IntParam(chi.URLParam(r, "id"))
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("id must be numeric"))
		return
	}

	var req dto.MatchRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	m, err := c.service.UpdateMatch(ctx, id, req)
	switch {
	case err == nil:
	case errors.Is(err, stats.ErrPlayerInvalid):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
		return
	case errors.Is(err, stats.ErrMatchNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("match not found"))
		return
	default:
		log.Error("failed to update match", logger.MatchID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, m)
}

// DeleteMatch handles DELETE /api/management/matches/{id}
func (c *Controller) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Management.DeleteMatch"))

	id, ok := helpers.IntParam(chi.URLParam(r, "id"))
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("id must be numeric"))
		return
	}

	err := c.service.DeleteMatch(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, stats.ErrMatchNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("match not found"))
		return
	default:
		log.Error("failed to delete match", logger.MatchID(id), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
