// Package memory implementa store.Store en memoria, para desarrollo y tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dropDatabas3/dartsstats/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	players      map[int]store.Player
	matches      map[int]store.Match
	nextPlayerID int
	nextMatchID  int
}

func New() *Store {
	return &Store{
		players:      make(map[int]store.Player),
		matches:      make(map[int]store.Match),
		nextPlayerID: 1,
		nextMatchID:  1,
	}
}

func (s *Store) ListPlayers(ctx context.Context) ([]store.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) GetPlayer(ctx context.Context, id int) (*store.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (s *Store) PlayerExists(ctx context.Context, id int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[id]
	return ok, nil
}

func (s *Store) CreatePlayer(ctx context.Context, p *store.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextPlayerID
	}
	if p.ID >= s.nextPlayerID {
		s.nextPlayerID = p.ID + 1
	}
	s.players[p.ID] = *p
	return nil
}

func (s *Store) ListMatches(ctx context.Context, f store.MatchFilter) ([]store.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Match
	for _, m := range s.matches {
		if f.Season != "" && m.Season != f.Season {
			continue
		}
		if f.Round != "" && m.Round != f.Round {
			continue
		}
		s.embedPlayers(&m)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchDate.Before(out[j].MatchDate) })
	return out, nil
}

// embedPlayers carga copias de los jugadores; requiere lock tomado.
func (s *Store) embedPlayers(m *store.Match) {
	if p, ok := s.players[m.Player1ID]; ok {
		cp := p
		m.Player1 = &cp
	}
	if p, ok := s.players[m.Player2ID]; ok {
		cp := p
		m.Player2 = &cp
	}
}

func (s *Store) ListRounds(ctx context.Context, season string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, m := range s.matches {
		if season != "" && m.Season != season {
			continue
		}
		seen[m.Round] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i], out[j]) < 0 })
	return out, nil
}

func (s *Store) GetMatch(ctx context.Context, id int) (*store.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := m
	return &cp, nil
}

func (s *Store) GetMatchWithPlayers(ctx context.Context, id int) (*store.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := m
	s.embedPlayers(&cp)
	return &cp, nil
}

func (s *Store) CreateMatch(ctx context.Context, m *store.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.nextMatchID
	}
	if m.ID >= s.nextMatchID {
		s.nextMatchID = m.ID + 1
	}
	stored := *m
	stored.Player1, stored.Player2 = nil, nil
	s.matches[m.ID] = stored
	return nil
}

func (s *Store) UpdateMatch(ctx context.Context, m *store.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *m
	stored.Player1, stored.Player2 = nil, nil
	s.matches[m.ID] = stored
	return nil
}

func (s *Store) DeleteMatch(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.matches, id)
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}
