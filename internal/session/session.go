// Package session mantiene la sesión del lado cliente: el bundle de
// tokens que el flujo de login devuelve por query string, su refresh
// on-demand y el logout. Lo usa la CLI y cualquier consumidor headless
// de la API.
package session

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

// expirySkew: un token se considera vencido este margen antes de su
// expiración real, para no mandar requests con tokens a punto de morir.
const expirySkew = 5 * time.Minute

// Bundle es la sesión persistida.
type Bundle struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Username     string    `json:"username"`
	IsAdmin      bool      `json:"isAdmin"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Provider es el subconjunto del cliente OIDC que la sesión necesita.
type Provider interface {
	Refresh(ctx context.Context, refreshToken string) (*keycloak.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Client administra el ciclo de vida de la sesión sobre un Storage.
type Client struct {
	provider Provider
	storage  Storage

	mu sync.Mutex
	sf singleflight.Group

	// now es inyectable para tests.
	now func() time.Time
}

// New crea el Client de sesión.
func New(provider Provider, storage Storage) *Client {
	return &Client{
		provider: provider,
		storage:  storage,
		now:      time.Now,
	}
}

// HandleCallback persiste el bundle que el callback de login puso en la
// query string del return URL (token, refreshToken, username, isAdmin,
// expiresIn).
func (c *Client) HandleCallback(q url.Values) error {
	expiresIn, _ := strconv.Atoi(q.Get("expiresIn"))
	isAdmin, _ := strconv.ParseBool(q.Get("isAdmin"))

	b := &Bundle{
		AccessToken:  q.Get("token"),
		RefreshToken: q.Get("refreshToken"),
		Username:     q.Get("username"),
		IsAdmin:      isAdmin,
		ExpiresAt:    c.now().Add(time.Duration(expiresIn) * time.Second),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.Save(b)
}

// AccessToken devuelve un access token usable, refrescándolo si está
// vencido o por vencer. Sin sesión, o con un refresh rechazado, devuelve
// "" sin error: el caller trata la sesión como inexistente y la UI puede
// mandar al usuario a loguearse de nuevo.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	b, err := c.load()
	if err != nil {
		return "", err
	}
	if b == nil || b.AccessToken == "" {
		return "", nil
	}

	if c.now().Add(expirySkew).Before(b.ExpiresAt) {
		return b.AccessToken, nil
	}

	// Refresh coalescido: N llamadas concurrentes con el token vencido
	// producen un único round-trip al provider.
	v, err, _ := c.sf.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refresh canjea el refresh token. Si el provider lo rechaza, la sesión
// se limpia y se devuelve "" sin error.
func (c *Client) refresh(ctx context.Context) (string, error) {
	b, err := c.load()
	if err != nil {
		return "", err
	}
	if b == nil || b.RefreshToken == "" {
		return "", nil
	}

	// Otro caller pudo haber refrescado mientras esperábamos el lock de
	// singleflight.
	if c.now().Add(expirySkew).Before(b.ExpiresAt) {
		return b.AccessToken, nil
	}

	tokens, err := c.provider.Refresh(ctx, b.RefreshToken)
	if err != nil {
		logger.L().Info("session refresh rejected, clearing session", logger.Err(err))
		c.mu.Lock()
		defer c.mu.Unlock()
		_ = c.storage.Clear()
		return "", nil
	}

	nb := &Bundle{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Username:     b.Username,
		IsAdmin:      b.IsAdmin,
		ExpiresAt:    c.now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}
	if claims, err := keycloak.DecodeUnverified(tokens.AccessToken); err == nil {
		nb.Username = keycloak.Username(claims)
		nb.IsAdmin = keycloak.HasAdmin(keycloak.ExtractRoles(claims))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.storage.Save(nb); err != nil {
		return "", err
	}
	return nb.AccessToken, nil
}

// IsAuthenticated reporta si hay una sesión usable. Pasa por el mismo
// camino que AccessToken: un token vencido se intenta renovar acá mismo,
// y un refresh rechazado limpia la sesión y reporta false.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	tok, err := c.AccessToken(ctx)
	return err == nil && tok != ""
}

// IsAdmin reporta si la sesión vigente tiene el rol admin, con la misma
// semántica de refresh que IsAuthenticated.
func (c *Client) IsAdmin(ctx context.Context) bool {
	if !c.IsAuthenticated(ctx) {
		return false
	}
	b, err := c.load()
	return err == nil && b != nil && b.IsAdmin
}

// Username del bundle persistido, o "".
func (c *Client) Username() string {
	b, err := c.load()
	if err != nil || b == nil {
		return ""
	}
	return b.Username
}

// Logout revoca la sesión en el provider (best-effort) y limpia el
// storage local siempre.
func (c *Client) Logout(ctx context.Context) error {
	b, err := c.load()
	if err == nil && b != nil && b.RefreshToken != "" {
		if err := c.provider.Logout(ctx, b.RefreshToken); err != nil {
			logger.L().Warn("provider logout failed", logger.Err(err))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.Clear()
}

func (c *Client) load() (*Bundle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.Load()
}
