package session

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
)

type fakeProvider struct {
	mu           sync.Mutex
	refreshCalls int32
	refreshErr   error
	refreshDelay time.Duration
	logoutCalls  int
	logoutErr    error
}

func (f *fakeProvider) Refresh(ctx context.Context, refreshToken string) (*keycloak.TokenResponse, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	if f.refreshDelay > 0 {
		time.Sleep(f.refreshDelay)
	}
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &keycloak.TokenResponse{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		ExpiresIn:    900,
	}, nil
}

func (f *fakeProvider) Logout(ctx context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func callbackQuery(expiresIn string) url.Values {
	return url.Values{
		"token":        {"access-1"},
		"refreshToken": {"refresh-1"},
		"username":     {"luke"},
		"isAdmin":      {"true"},
		"expiresIn":    {expiresIn},
	}
}

func TestHandleCallbackPersistsBundle(t *testing.T) {
	c := New(&fakeProvider{}, NewMemoryStorage())

	if err := c.HandleCallback(callbackQuery("900")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	tok, err := c.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if tok != "access-1" {
		t.Fatalf("token = %q", tok)
	}
	ctx := context.Background()
	if !c.IsAuthenticated(ctx) || !c.IsAdmin(ctx) || c.Username() != "luke" {
		t.Fatalf("session state wrong: auth=%v admin=%v user=%q", c.IsAuthenticated(ctx), c.IsAdmin(ctx), c.Username())
	}
}

func TestAccessTokenWithoutSession(t *testing.T) {
	c := New(&fakeProvider{}, NewMemoryStorage())

	tok, err := c.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if tok != "" {
		t.Fatalf("expected empty token, got %q", tok)
	}
	if c.IsAuthenticated(context.Background()) {
		t.Fatal("should not be authenticated")
	}
}

func TestAccessTokenRefreshesNearExpiry(t *testing.T) {
	p := &fakeProvider{}
	c := New(p, NewMemoryStorage())

	// Expira en 60s: dentro del margen de 5 minutos.
	if err := c.HandleCallback(callbackQuery("60")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	tok, err := c.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if tok != "new-access" {
		t.Fatalf("token = %q, want refreshed token", tok)
	}
	if got := atomic.LoadInt32(&p.refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d", got)
	}

	// El bundle nuevo queda persistido: la segunda llamada no refresca.
	if _, err := c.AccessToken(context.Background()); err != nil {
		t.Fatalf("second access token: %v", err)
	}
	if got := atomic.LoadInt32(&p.refreshCalls); got != 1 {
		t.Fatalf("refresh calls after second read = %d", got)
	}
}

func TestRejectedRefreshClearsSession(t *testing.T) {
	p := &fakeProvider{refreshErr: errors.New("invalid_grant")}
	c := New(p, NewMemoryStorage())

	if err := c.HandleCallback(callbackQuery("0")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	tok, err := c.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("access token should not error: %v", err)
	}
	if tok != "" {
		t.Fatalf("expected empty token after rejected refresh, got %q", tok)
	}
	if c.IsAuthenticated(context.Background()) {
		t.Fatal("session should be cleared")
	}
}

func TestIsAuthenticatedRefreshesExpiredSession(t *testing.T) {
	// Refresh token muerto: el check intenta renovar una vez y reporta
	// false, sin esperar a que alguien llame AccessToken.
	p := &fakeProvider{refreshErr: errors.New("invalid_grant")}
	c := New(p, NewMemoryStorage())

	if err := c.HandleCallback(callbackQuery("0")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	if c.IsAuthenticated(context.Background()) {
		t.Fatal("expired session with dead refresh token reported authenticated")
	}
	if got := atomic.LoadInt32(&p.refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
	if c.IsAdmin(context.Background()) {
		t.Fatal("cleared session reported admin")
	}

	// Refresh sano: el check renueva la sesión y reporta true.
	p2 := &fakeProvider{}
	c2 := New(p2, NewMemoryStorage())
	if err := c2.HandleCallback(callbackQuery("0")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}
	if !c2.IsAuthenticated(context.Background()) {
		t.Fatal("session with live refresh token reported unauthenticated")
	}
	if got := atomic.LoadInt32(&p2.refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
}

func TestConcurrentRefreshIsCoalesced(t *testing.T) {
	p := &fakeProvider{refreshDelay: 30 * time.Millisecond}
	c := New(p, NewMemoryStorage())

	if err := c.HandleCallback(callbackQuery("0")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.AccessToken(context.Background()); err != nil {
				t.Errorf("access token: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&p.refreshCalls); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
}

func TestLogoutClearsEvenIfProviderFails(t *testing.T) {
	p := &fakeProvider{logoutErr: errors.New("provider down")}
	c := New(p, NewMemoryStorage())

	if err := c.HandleCallback(callbackQuery("900")); err != nil {
		t.Fatalf("handle callback: %v", err)
	}

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if p.logoutCalls != 1 {
		t.Fatalf("logout calls = %d", p.logoutCalls)
	}
	if c.IsAuthenticated(context.Background()) {
		t.Fatal("session should be cleared")
	}
}

func TestFileStorageRoundtrip(t *testing.T) {
	path := t.TempDir() + "/nested/session.json"
	fs := NewFileStorage(path)

	if b, err := fs.Load(); err != nil || b != nil {
		t.Fatalf("empty load = %+v, %v", b, err)
	}

	want := &Bundle{
		AccessToken:  "a",
		RefreshToken: "r",
		Username:     "luke",
		IsAdmin:      true,
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := fs.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.Username != want.Username || !got.IsAdmin {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	if err := fs.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if b, err := fs.Load(); err != nil || b != nil {
		t.Fatalf("load after clear = %+v, %v", b, err)
	}
	// Clear sobre storage vacío es idempotente.
	if err := fs.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}
