// Package bearer valida access tokens que llegan del browser contra el
// JWKS del provider. Es el path verificado: a diferencia del decode
// server-to-server de keycloak.DecodeUnverified, acá la firma RS256, el
// issuer y la expiración se chequean siempre.
package bearer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

var (
	// ErrTokenInvalid: firma inválida, expirado, issuer incorrecto o
	// cualquier otra falla de validación.
	ErrTokenInvalid = errors.New("bearer: invalid token")
)

// Claims son los claims ya procesados de un token válido.
type Claims struct {
	Subject  string
	Username string
	Roles    []string
	IsAdmin  bool
}

// Config del verifier.
type Config struct {
	// JWKSURL es el endpoint de certs del realm.
	JWKSURL string
	// Issuer esperado. Vacío = no se valida issuer.
	Issuer string
	// RefreshInterval del refresco en background de claves JWKS.
	RefreshInterval time.Duration
	// Leeway tolerado al validar exp/nbf.
	Leeway time.Duration
	// ClientTimeout del HTTP client que baja el JWKS.
	ClientTimeout time.Duration
}

// Verifier valida tokens contra un JWKS con refresco en background.
type Verifier struct {
	keys    keyfunc.Keyfunc
	issuer  string
	leeway  time.Duration
	jwksURL string
	client  *http.Client
}

// New arma el verifier. El storage JWKS arranca aunque el provider no
// esté disponible todavía (NoErrorReturnFirstHTTPReq) y refresca claves
// en background; las fallas de refresco se loguean y se reintenta en el
// próximo ciclo.
func New(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Minute
	}
	if cfg.ClientTimeout <= 0 {
		cfg.ClientTimeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.ClientTimeout}

	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Ctx:                       ctx,
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           cfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.L().Warn("jwks refresh failed",
				logger.Component("bearer"),
				zap.String("url", cfg.JWKSURL),
				logger.Err(err),
			)
		},
	})
	if err != nil {
		return nil, err
	}

	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, err
	}

	return &Verifier{
		keys:    k,
		issuer:  cfg.Issuer,
		leeway:  cfg.Leeway,
		jwksURL: cfg.JWKSURL,
		client:  httpClient,
	}, nil
}

// Verify valida el token y devuelve los claims procesados.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	raw := jwtv5.MapClaims{}
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{"RS256"}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(v.issuer))
	}

	token, err := jwtv5.ParseWithClaims(tokenString, raw, v.keys.KeyfuncCtx(ctx), opts...)
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	sub, err := raw.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrTokenInvalid
	}

	roles := keycloak.ExtractRoles(raw)
	return &Claims{
		Subject:  sub,
		Username: keycloak.Username(raw),
		Roles:    roles,
		IsAdmin:  keycloak.HasAdmin(roles),
	}, nil
}

// CheckReady hace un GET al endpoint JWKS. Usado por /readyz.
func (v *Verifier) CheckReady(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("jwks endpoint returned status " + resp.Status)
	}
	return nil
}
