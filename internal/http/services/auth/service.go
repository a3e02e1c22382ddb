// Package auth orchestrates the OIDC login flow: login initiation,
// callback handling, refresh and logout.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/dartsstats/internal/auth/authstate"
	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
	"github.com/dropDatabas3/dartsstats/internal/http/dto"
	"github.com/dropDatabas3/dartsstats/internal/metrics"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

// Provider is the subset of the identity provider client the service needs.
type Provider interface {
	AuthURL(state, codeChallenge string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*keycloak.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*keycloak.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Service errors
var (
	ErrStateInvalid    = errors.New("invalid or expired state")
	ErrExchangeFailed  = errors.New("code exchange failed")
	ErrRefreshRejected = errors.New("refresh token rejected")
	ErrRefreshMissing  = errors.New("refresh token is required")
)

// CallbackRequest carries the query params of the provider redirect.
type CallbackRequest struct {
	Code  string
	State string
}

// CallbackResult is a completed login: where to send the browser and
// what tokens to hand over.
type CallbackResult struct {
	ReturnURL string
	Bundle    dto.TokenBundle
}

// Service defines the login flow operations.
type Service interface {
	// LoginURL starts a login: generates state + PKCE verifier, stores
	// them, and returns the provider authorization URL.
	LoginURL(ctx context.Context, returnURL string) (string, error)
	// Callback consumes the state (single use) and exchanges the code.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)
	// Refresh exchanges a refresh token for a new bundle.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenBundle, error)
	// Logout revokes the session at the provider. Best effort.
	Logout(ctx context.Context, refreshToken string)
}

// Deps contains dependencies for the auth service.
type Deps struct {
	Provider Provider
	States   *authstate.Store
}

type service struct {
	provider Provider
	states   *authstate.Store
}

// New creates the auth Service.
func New(deps Deps) Service {
	return &service{provider: deps.Provider, states: deps.States}
}

func (s *service) LoginURL(ctx context.Context, returnURL string) (string, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("LoginURL"))

	state := keycloak.RandomString(keycloak.StateLength)
	verifier := keycloak.RandomString(keycloak.VerifierLength)

	if err := s.states.Save(ctx, state, authstate.Entry{Verifier: verifier, ReturnURL: returnURL}); err != nil {
		log.Error("failed to persist login state", logger.Err(err))
		return "", fmt.Errorf("persist login state: %w", err)
	}

	metrics.LoginsStarted.Inc()
	log.Info("login initiated")
	return s.provider.AuthURL(state, keycloak.CodeChallenge(verifier)), nil
}

func (s *service) Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Callback"))

	// The state is consumed before talking to the provider: a replayed
	// or forged callback never reaches the token endpoint.
	entry, err := s.states.Take(ctx, req.State)
	if err != nil {
		if errors.Is(err, authstate.ErrNotFound) {
			metrics.LoginsCompleted.WithLabelValues("invalid_state").Inc()
			log.Warn("unknown or reused state")
			return nil, ErrStateInvalid
		}
		return nil, fmt.Errorf("take login state: %w", err)
	}

	tokens, err := s.provider.Exchange(ctx, req.Code, entry.Verifier)
	metrics.ObserveProviderCall("exchange", err)
	if err != nil {
		metrics.LoginsCompleted.WithLabelValues("exchange_failed").Inc()
		log.Warn("code exchange rejected", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	bundle := s.bundleFromTokens(ctx, tokens)
	metrics.LoginsCompleted.WithLabelValues("success").Inc()
	log.Info("login completed", logger.Username(bundle.Username), logger.Bool("is_admin", bundle.IsAdmin))

	return &CallbackResult{ReturnURL: entry.ReturnURL, Bundle: bundle}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*dto.TokenBundle, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Refresh"))

	if refreshToken == "" {
		return nil, ErrRefreshMissing
	}

	tokens, err := s.provider.Refresh(ctx, refreshToken)
	metrics.ObserveProviderCall("refresh", err)
	if err != nil {
		if errors.Is(err, keycloak.ErrRefreshFailed) {
			log.Info("refresh token rejected by provider")
			return nil, ErrRefreshRejected
		}
		// Provider answered 2xx but the response was unusable.
		log.Error("refresh response unusable", logger.Err(err))
		return nil, fmt.Errorf("refresh: %w", err)
	}

	bundle := s.bundleFromTokens(ctx, tokens)
	return &bundle, nil
}

func (s *service) Logout(ctx context.Context, refreshToken string) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"), logger.Op("Logout"))

	if refreshToken == "" {
		return
	}
	err := s.provider.Logout(ctx, refreshToken)
	metrics.ObserveProviderCall("logout", err)
	if err != nil {
		// The local session is gone either way.
		log.Warn("provider logout failed", logger.Err(err))
		return
	}
	log.Info("provider session revoked")
}

// bundleFromTokens decodes the freshly issued access token and builds the
// client-facing bundle. The token comes straight from the provider over
// TLS, so claims are read without signature verification.
func (s *service) bundleFromTokens(ctx context.Context, tokens *keycloak.TokenResponse) dto.TokenBundle {
	bundle := dto.TokenBundle{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Username:     "unknown",
		ExpiresIn:    tokens.ExpiresIn,
	}

	claims, err := keycloak.DecodeUnverified(tokens.AccessToken)
	if err != nil {
		// Opaque or malformed token: keep defaults rather than failing
		// a login that the provider already accepted.
		logger.From(ctx).Warn("access token claims unreadable", logger.Err(err))
		return bundle
	}

	bundle.Username = keycloak.Username(claims)
	bundle.IsAdmin = keycloak.HasAdmin(keycloak.ExtractRoles(claims))
	return bundle
}
