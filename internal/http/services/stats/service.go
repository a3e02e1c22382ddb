// Package stats implements players and matches use cases on top of the
// store.
package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/dartsstats/internal/http/dto"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
	"github.com/dropDatabas3/dartsstats/internal/store"
)

// Service errors
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerInvalid  = errors.New("referenced player does not exist")
)

// Service defines player and match operations.
type Service interface {
	ListPlayers(ctx context.Context) ([]store.Player, error)
	GetPlayer(ctx context.Context, id int) (*store.Player, error)
	CreatePlayer(ctx context.Context, req dto.CreatePlayerRequest) (*store.Player, error)

	ListMatches(ctx context.Context, f store.MatchFilter) ([]store.Match, error)
	ListRounds(ctx context.Context, season string) ([]string, error)
	GetMatch(ctx context.Context, id int) (*store.Match, error)
	CreateMatch(ctx context.Context, req dto.MatchRequest) (*store.Match, error)
	UpdateMatch(ctx context.Context, id int, req dto.MatchRequest) (*store.Match, error)
	DeleteMatch(ctx context.Context, id int) error
}

type service struct {
	store store.Store
}

// New creates the stats Service.
func New(st store.Store) Service {
	return &service{store: st}
}

func (s *service) ListPlayers(ctx context.Context) ([]store.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *service) GetPlayer(ctx context.Context, id int) (*store.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return p, nil
}

func (s *service) CreatePlayer(ctx context.Context, req dto.CreatePlayerRequest) (*store.Player, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("stats"), logger.Op("CreatePlayer"))

	p := req.ToPlayer()
	if err := s.store.CreatePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	log.Info("player created", logger.PlayerID(p.ID), logger.String("name", p.Name))
	return p, nil
}

func (s *service) ListMatches(ctx context.Context, f store.MatchFilter) ([]store.Match, error) {
	matches, err := s.store.ListMatches(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *service) ListRounds(ctx context.Context, season string) ([]string, error) {
	rounds, err := s.store.ListRounds(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return rounds, nil
}

func (s *service) GetMatch(ctx context.Context, id int) (*store.Match, error) {
	m, err := s.store.GetMatchWithPlayers(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return m, nil
}

// validatePlayers checks both referenced players exist before touching
// the match row.
func (s *service) validatePlayers(ctx context.Context, p1, p2 int) error {
	for _, id := range []int{p1, p2} {
		ok, err := s.store.PlayerExists(ctx, id)
		if err != nil {
			return fmt.Errorf("check player %d: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("%w: id %d", ErrPlayerInvalid, id)
		}
	}
	return nil
}

func (s *service) CreateMatch(ctx context.Context, req dto.MatchRequest) (*store.Match, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("stats"), logger.Op("CreateMatch"))

	if err := s.validatePlayers(ctx, req.Player1ID, req.Player2ID); err != nil {
		return nil, err
	}

	m := req.ToMatch(0)
	if err := s.store.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	log.Info("match created", logger.MatchID(m.ID), logger.Season(m.Season), logger.Round(m.Round))
	return m, nil
}

func (s *service) UpdateMatch(ctx context.Context, id int, req dto.MatchRequest) (*store.Match, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("stats"), logger.Op("UpdateMatch"))

	if err := s.validatePlayers(ctx, req.Player1ID, req.Player2ID); err != nil {
		return nil, err
	}

	m := req.ToMatch(id)
	if err := s.store.UpdateMatch(ctx, m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("update match %d: %w", id, err)
	}
	log.Info("match updated", logger.MatchID(id))

	// La respuesta lleva el partido con ambos jugadores embebidos.
	updated, err := s.store.GetMatchWithPlayers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload match %d: %w", id, err)
	}
	return updated, nil
}

func (s *service) DeleteMatch(ctx context.Context, id int) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("stats"), logger.Op("DeleteMatch"))

	if err := s.store.DeleteMatch(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("delete match %d: %w", id, err)
	}
	log.Info("match deleted", logger.MatchID(id))
	return nil
}
