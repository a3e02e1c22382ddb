// Package matches exposes the read-only match endpoints.
package matches

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/dartsstats/internal/http/errors"
	"github.com/dropDatabas3/dartsstats/internal/http/helpers"
	"github.com/dropDatabas3/dartsstats/internal/http/services/stats"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
	"github.com/dropDatabas3/dartsstats/internal/store"
)

// Controller handles match queries.
type Controller struct {
	service stats.Service
}

// New creates the matches Controller.
func New(service stats.Service) *Controller {
	return &Controller{service: service}
}

// List handles GET /api/matches?season=...&round=...
// Empty filters match everything.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Matches.List"))

	q := r.URL.Query()
	filter := store.MatchFilter{
		Season: q.Get("season"),
		Round:  q.Get("round"),
	}

	list, err := c.service.ListMatches(ctx, filter)
	if err != nil {
		log.Error("failed to list matches", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, list)
}

// Rounds handles GET /api/matches/rounds?season=...
// Returns the distinct rounds that have at least one match.
func (c *Controller) Rounds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Matches.Rounds"))

	rounds, err := c.service.ListRounds(ctx, r.URL.Query().Get("season"))
	if err != nil {
		log.Error("failed to list rounds", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, rounds)
}

// Get handles GET /api/matches/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Matches.Get"))

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
