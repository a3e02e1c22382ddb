// Package venues exposes the venue lookup endpoint.
package venues

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/dartsstats/internal/http/errors"
	"github.com/dropDatabas3/dartsstats/internal/http/helpers"
	svc "github.com/dropDatabas3/dartsstats/internal/http/services/venues"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

// Controller handles venue queries.
type Controller struct {
	service svc.Service
}

// New creates the venues Controller.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Get handles GET /api/venues/{round}
// Round names contain spaces ("Night 1"), so the param arrives escaped.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Venues.Get"))

	round := chi.URLParam(r, "round")
	if unescaped, err := url.PathUnescape(round); err == nil {
		round = unescaped
	}

	info, err := c.service.GetVenueInfo(ctx, round)
	switch {
	case err == nil:
	case errors.Is(err, svc.ErrRoundUnknown):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("no venue information found for round: "+round))
		return
	default:
		log.Error("failed to resolve venue", logger.Round(round), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, info)
}
