// Package auth exposes the login endpoints of the API.
package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	httperrors "github.com/dropDatabas3/dartsstats/internal/http/errors"
	"github.com/dropDatabas3/dartsstats/internal/http/helpers"
	svc "github.com/dropDatabas3/dartsstats/internal/http/services/auth"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

// Controller handles the OIDC login endpoints.
type Controller struct {
	service svc.Service
}

// New creates the auth Controller.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Login handles GET /api/auth/login?returnUrl=...
// Redirects the browser to the provider authorization URL.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Login"))

	returnURL := r.URL.Query().Get("returnUrl")

	authURL, err := c.service.LoginURL(ctx, returnURL)
	if err != nil {
		log.Error("failed to initiate login", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /api/auth/callback?code=...&state=...
// On success redirects to the stored return URL with the token bundle in
// the query string; on a rejected exchange redirects to the frontend
// error page.
func (c *Controller) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Callback"))

	q := r.URL.Query()
	req := svc.CallbackRequest{
		Code:  q.Get("code"),
		State: q.Get("state"),
	}
	if req.Code == "" || req.State == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code and state are required"))
		return
	}

	result, err := c.service.Callback(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, svc.ErrStateInvalid):
		httperrors.WriteError(w, httperrors.ErrInvalidState)
		return
	case errors.Is(err, svc.ErrExchangeFailed):
		http.Redirect(w, r, "/?error=authentication_failed", http.StatusFound)
		return
	default:
		log.Error("callback failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	target, err := url.Parse(result.ReturnURL)
	if err != nil {
		target, _ = url.Parse("/")
	}
	tq := target.Query()
	tq.Set("token", result.Bundle.Token)
	tq.Set("refreshToken", result.Bundle.RefreshToken)
	tq.Set("username", result.Bundle.Username)
	tq.Set("isAdmin", strconv.FormatBool(result.Bundle.IsAdmin))
	tq.Set("expiresIn", strconv.Itoa(result.Bundle.ExpiresIn))
	target.RawQuery = tq.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}

// Refresh handles POST /api/auth/refresh {"refreshToken": "..."}
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Refresh"))

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	bundle, err := c.service.Refresh(ctx, req.RefreshToken)
	switch {
	case err == nil:
	case errors.Is(err, svc.ErrRefreshMissing):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("refreshToken is required"))
		return
	case errors.Is(err, svc.ErrRefreshRejected):
		httperrors.WriteError(w, httperrors.ErrRefreshFailed)
		return
	default:
		log.Error("refresh failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, bundle)
}

// Logout handles POST /api/auth/logout {"refreshToken": "..."}
// Always answers 200: the client session is discarded regardless of what
// the provider says.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	c.service.Logout(r.Context(), req.RefreshToken)

	helpers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
