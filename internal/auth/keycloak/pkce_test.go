package keycloak

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestRandomStringLengthAndAlphabet(t *testing.T) {
	for _, n := range []int{StateLength, VerifierLength} {
		s := RandomString(n)
		if len(s) != n {
			t.Fatalf("len(RandomString(%d)) = %d", n, len(s))
		}
		if strings.ContainsAny(s, "=+/") {
			t.Fatalf("random string contains non-base64url chars: %q", s)
		}
	}
}

func TestRandomStringIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s := RandomString(StateLength)
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate random string after %d draws", i)
		}
		seen[s] = struct{}{}
	}
}

func TestCodeChallengeEncoding(t *testing.T) {
	verifier := RandomString(VerifierLength)
	challenge := CodeChallenge(verifier)

	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if challenge != want {
		t.Fatalf("challenge = %q, want %q", challenge, want)
	}
	if strings.ContainsAny(challenge, "=+/") {
		t.Fatalf("challenge contains padding or non-url chars: %q", challenge)
	}
}

func TestCodeChallengeKnownVector(t *testing.T) {
	// RFC 7636 appendix B
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	if got := CodeChallenge(verifier); got != want {
		t.Fatalf("challenge = %q, want %q", got, want)
	}
}

func TestAuthURLQuery(t *testing.T) {
	c := New("https://kc.example.com/realms/darts", "darts-api", "http://localhost:8080/api/auth/callback", "openid profile email roles")
	u := c.AuthURL("st-123", "ch-456")

	for _, frag := range []string{
		"https://kc.example.com/realms/darts/protocol/openid-connect/auth?",
		"client_id=darts-api",
		"response_type=code",
		"state=st-123",
		"code_challenge=ch-456",
		"code_challenge_method=S256",
		"scope=openid+profile+email+roles",
	} {
		if !strings.Contains(u, frag) {
			t.Fatalf("auth URL missing %q:\n%s", frag, u)
		}
	}
}
