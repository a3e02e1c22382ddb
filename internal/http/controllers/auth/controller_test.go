package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/dartsstats/internal/auth/authstate"
	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
	"github.com/dropDatabas3/dartsstats/internal/cache"
	svc "github.com/dropDatabas3/dartsstats/internal/http/services/auth"
)

// fakeAccessToken arma un JWT sintáctico (firma basura) con los claims
// dados, suficiente para el path de decode sin verificación.
func fakeAccessToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, _ := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

// keycloakStub simula los endpoints token/logout del realm y cuenta los
// hits al token endpoint.
type keycloakStub struct {
	server       *httptest.Server
	accessToken  string
	tokenHits    int32
	failLogout   bool
	refreshToken string
}

func newKeycloakStub(t *testing.T) *keycloakStub {
	t.Helper()
	stub := &keycloakStub{
		accessToken: fakeAccessToken(t, map[string]any{
			"preferred_username": "luke",
			"realm_access":       map[string]any{"roles": []string{"user", "admin"}},
			"exp":                time.Now().Add(15 * time.Minute).Unix(),
		}),
		refreshToken: "refresh-abc",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/realms/darts/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&stub.tokenHits, 1)
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		ok := false
		switch r.PostFormValue("grant_type") {
		case "authorization_code":
			ok = r.PostFormValue("code") == "good-code" && r.PostFormValue("code_verifier") != ""
		case "refresh_token":
			ok = r.PostFormValue("refresh_token") == stub.refreshToken
		}
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  stub.accessToken,
			"refresh_token": stub.refreshToken,
			"expires_in":    900,
			"token_type":    "Bearer",
		})
	})
	mux.HandleFunc("/realms/darts/protocol/openid-connect/logout", func(w http.ResponseWriter, r *http.Request) {
		if stub.failLogout {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestHandler(t *testing.T, stub *keycloakStub) http.Handler {
	t.Helper()

	provider := keycloak.New(stub.server.URL+"/realms/darts", "darts-web",
		"http://localhost:8080/api/auth/callback", "openid profile email roles")
	states := authstate.New(cache.NewMemory("test", 0), time.Minute)
	controller := New(svc.New(svc.Deps{Provider: provider, States: states}))

	r := chi.NewRouter()
	r.Get("/api/auth/login", controller.Login)
	r.Get("/api/auth/callback", controller.Callback)
	r.Post("/api/auth/refresh", controller.Refresh)
	r.Post("/api/auth/logout", controller.Logout)
	return r
}

// startLogin dispara el login y devuelve el state que quedó en la URL
// de autorización.
func startLogin(t *testing.T, h http.Handler, returnURL string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login?returnUrl="+url.QueryEscape(returnURL), nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	q := loc.Query()
	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Fatalf("authorization URL missing PKCE params: %s", loc)
	}
	state := q.Get("state")
	if state == "" {
		t.Fatal("authorization URL missing state")
	}
	return state
}

func TestLoginCallbackRoundtrip(t *testing.T) {
	stub := newKeycloakStub(t)
	h := newTestHandler(t, stub)

	state := startLogin(t, h, "/management")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=good-code&state="+state, nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("callback status = %d, body = %s", rec.Code, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != "/management" {
		t.Fatalf("redirect path = %q", loc.Path)
	}
	q := loc.Query()
	if q.Get("token") != stub.accessToken {
		t.Fatalf("token param missing or wrong")
	}
	if q.Get("refreshToken") != stub.refreshToken {
		t.Fatalf("refreshToken param = %q", q.Get("refreshToken"))
	}
	if q.Get("username") != "luke" || q.Get("isAdmin") != "true" || q.Get("expiresIn") != "900" {
		t.Fatalf("bundle params wrong: %v", q)
	}
}

func TestCallbackStateIsSingleUse(t *testing.T) {
	stub := newKeycloakStub(t)
	h := newTestHandler(t, stub)

	state := startLogin(t, h, "/")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=good-code&state="+state, nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("first callback status = %d", rec.Code)
	}
	hitsAfterFirst := atomic.LoadInt32(&stub.tokenHits)

	// Replay: mismo state, no debe llegar al provider.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=good-code&state="+state, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("replayed callback status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_STATE") {
		t.Fatalf("expected INVALID_STATE, body = %s", rec.Body.String())
	}
	if got := atomic.LoadInt32(&stub.tokenHits); got != hitsAfterFirst {
		t.Fatalf("replay reached the token endpoint: hits %d -> %d", hitsAfterFirst, got)
	}
}

func TestCallbackUnknownState(t *testing.T) {
	stub := newKeycloakStub(t)
	h := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=good-code&state=never-issued", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := atomic.LoadInt32(&stub.tokenHits); got != 0 {
		t.Fatalf("forged state reached the token endpoint: %d hits", got)
	}
}

func TestCallbackExchangeFailureRedirects(t *testing.T) {
	stub := newKeycloakStub(t)
	h := newTestHandler(t, stub)

	state := startLogin(t, h, "/")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/callback?code=bad-code&state="+state, nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?error=authentication_failed" {
		t.Fatalf("redirect = %q", loc)
	}
}

func TestRefresh(t *testing.T) {
	stub := newKeycloakStub(t)
	h := newTestHandler(t, stub)

	// OK
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"refresh-abc"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var bundle struct {
		Token     string `json:"token"`
		Username  string `json:"username"`
		IsAdmin   bool   `json:"isAdmin"`
		ExpiresIn int    `json:"expiresIn"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if bundle.Token == "" || bundle.Username != "luke" || !bundle.IsAdmin || bundle.ExpiresIn != 900 {
		t.Fatalf("bundle = %+v", bundle)
	}

	// Rechazado por el provider => 401
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refreshToken":"stolen"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("rejected refresh status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "REFRESH_FAILED") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	// Sin token => 400
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty refresh status = %d", rec.Code)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	stub := newKeycloakStub(t)
	stub.failLogout = true
	h := newTestHandler(t, stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"refreshToken":"refresh-abc"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logged out successfully") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
