// Package authstate guarda el estado efímero del login OIDC:
// state → (code_verifier, return_url). Cada entrada es de un solo uso y
// expira con TTL, de modo que logins abandonados se reclaman solos y el
// store puede compartirse entre instancias vía Redis.
package authstate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dropDatabas3/dartsstats/internal/cache"
)

const keyPrefix = "authstate:"

// ErrNotFound: el state no existe, expiró o ya fue consumido.
// No se distingue entre esas causas.
var ErrNotFound = errors.New("authstate: state not found")

// Entry es lo que se guarda por cada login iniciado.
type Entry struct {
	Verifier  string `json:"verifier"`
	ReturnURL string `json:"return_url"`
}

// Store persiste entries en el cache compartido con TTL.
type Store struct {
	cache cache.Client
	ttl   time.Duration
}

func New(c cache.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{cache: c, ttl: ttl}
}

// Save registra un state recién generado.
func (s *Store) Save(ctx context.Context, state string, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, keyPrefix+state, string(b), s.ttl)
}

// Take lee y elimina la entrada en una sola operación atómica: de dos
// callbacks concurrentes con el mismo state, a lo sumo uno obtiene la
// entrada y el otro recibe ErrNotFound.
func (s *Store) Take(ctx context.Context, state string) (*Entry, error) {
	v, err := s.cache.GetDel(ctx, keyPrefix+state)
	if err != nil {
		if cache.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal([]byte(v), &e); err != nil {
		return nil, ErrNotFound
	}
	if e.ReturnURL == "" {
		e.ReturnURL = "/"
	}
	return &e, nil
}
