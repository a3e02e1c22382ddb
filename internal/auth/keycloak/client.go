// Package keycloak implementa el cliente relying-party contra Keycloak:
// Authorization Code + PKCE, refresh y logout. Los endpoints siguen la
// forma estándar OIDC de Keycloak bajo {authority}/protocol/openid-connect.
package keycloak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Errores del flujo. El caller decide cómo presentarlos (redirect vs JSON).
var (
	// ErrTokenExchange: el provider rechazó el intercambio de code.
	ErrTokenExchange = errors.New("keycloak: token exchange failed")
	// ErrRefreshFailed: el provider rechazó el refresh token. Debe tratarse
	// como sesión terminada, no como fallo transitorio.
	ErrRefreshFailed = errors.New("keycloak: token refresh failed")
)

// TokenResponse es la respuesta del token endpoint de Keycloak.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
}

// Client habla con un realm de Keycloak como cliente público (sin secret,
// el binding del code se hace vía PKCE).
type Client struct {
	Authority   string // https://keycloak.example.com/realms/dartsstats
	ClientID    string
	RedirectURL string // callback propio del servicio
	Scope       string // debe incluir "openid" y el scope que mapea roles

	http *http.Client
}

func New(authority, clientID, redirectURL, scope string) *Client {
	return &Client{
		Authority:   strings.TrimRight(authority, "/"),
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Scope:       scope,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) endpoint(name string) string {
	return c.Authority + "/protocol/openid-connect/" + name
}

// AuthURL construye la URL de autorización con PKCE (S256).
func (c *Client) AuthURL(state, codeChallenge string) string {
	u, _ := url.Parse(c.endpoint("auth"))
	q := u.Query()
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("scope", c.Scope)
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	u.RawQuery = q.Encode()
	return u.String()
}

// JWKSURL es el endpoint de claves públicas del realm, usado por el
// path de validación de bearer tokens (paquete bearer).
func (c *Client) JWKSURL() string {
	return c.endpoint("certs")
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.http.Do(req)
}

func decodeTokenResponse(resp *http.Response) (*TokenResponse, error) {
	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, errors.New("keycloak: empty access_token in response")
	}
	return &tr, nil
}

// Exchange canjea el authorization code por tokens usando el code_verifier
// guardado en el login-initiation. Retorna ErrTokenExchange en non-2xx.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.ClientID)
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURL)
	form.Set("code_verifier", codeVerifier)

	resp, err := c.postForm(ctx, c.endpoint("token"), form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var b struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&b)
		return nil, fmt.Errorf("%w: http %d: %s %s", ErrTokenExchange, resp.StatusCode, b.Error, b.ErrorDescription)
	}
	return decodeTokenResponse(resp)
}

// Refresh canjea un refresh token por un bundle nuevo.
// Retorna ErrRefreshFailed en non-2xx.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.ClientID)
	form.Set("refresh_token", refreshToken)

	resp, err := c.postForm(ctx, c.endpoint("token"), form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: http %d", ErrRefreshFailed, resp.StatusCode)
	}
	return decodeTokenResponse(resp)
}

// Logout revoca la sesión en el provider. Best-effort: el caller descarta
// el error porque la sesión local se limpia de todos modos.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("refresh_token", refreshToken)

	resp, err := c.postForm(ctx, c.endpoint("logout"), form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("keycloak: logout http %d", resp.StatusCode)
	}
	return nil
}
