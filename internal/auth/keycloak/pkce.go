package keycloak

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const (
	// StateLength largo del parámetro state (CSRF).
	StateLength = 32
	// VerifierLength largo del code_verifier PKCE.
	VerifierLength = 64
)

// RandomString genera n bytes aleatorios, los codifica en base64url sin
// padding y trunca al largo pedido. Se usa tanto para state como para
// code_verifier, con largos distintos e independientes.
func RandomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("keycloak: crypto/rand unavailable: " + err.Error())
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	return s[:n]
}

// CodeChallenge calcula base64url(SHA256(verifier)) sin padding,
// según PKCE S256 (RFC 7636).
func CodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
