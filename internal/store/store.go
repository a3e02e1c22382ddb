// Package store define el modelo de dominio y la interfaz de persistencia.
package store

import (
	"context"
	"errors"
	"time"
)

// Player es un jugador de la liga con sus estadísticas agregadas.
type Player struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Nickname           string  `json:"nickname"`
	Country            string  `json:"country"`
	MatchesPlayed      int     `json:"matchesPlayed"`
	MatchesWon         int     `json:"matchesWon"`
	MatchesLost        int     `json:"matchesLost"`
	LegsWon            int     `json:"legsWon"`
	LegsLost           int     `json:"legsLost"`
	PointsFor          int     `json:"pointsFor"`
	PointsAgainst      int     `json:"pointsAgainst"`
	AvgPoints          float64 `json:"avgPoints"`
	AvgLegDarts        float64 `json:"avgLegDarts"`
	CheckoutPercentage float64 `json:"checkoutPercentage"`
	Position           int     `json:"position"`
}

// Match es un partido entre dos jugadores.
// Player1 y Player2 se cargan cuando el listado embebe jugadores.
type Match struct {
	ID                     int       `json:"id"`
	Player1ID              int       `json:"player1Id"`
	Player2ID              int       `json:"player2Id"`
	Player1                *Player   `json:"player1,omitempty"`
	Player2                *Player   `json:"player2,omitempty"`
	MatchDate              time.Time `json:"matchDate"`
	Player1Score           int       `json:"player1Score"`
	Player2Score           int       `json:"player2Score"`
	Player1Average         float64   `json:"player1Average"`
	Player2Average         float64   `json:"player2Average"`
	Player1180s            int       `json:"player1180s"`
	Player2180s            int       `json:"player2180s"`
	Player1HighestCheckout int       `json:"player1HighestCheckout"`
	Player2HighestCheckout int       `json:"player2HighestCheckout"`
	Season                 string    `json:"season"`
	Round                  string    `json:"round"`
}

// MatchFilter filtra listados de partidos. Campos vacíos no filtran.
type MatchFilter struct {
	Season string
	Round  string
}

// ErrNotFound se retorna cuando la entidad no existe.
var ErrNotFound = errors.New("store: not found")

// Store es la interfaz de persistencia de jugadores y partidos.
type Store interface {
	ListPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, id int) (*Player, error)
	PlayerExists(ctx context.Context, id int) (bool, error)
	CreatePlayer(ctx context.Context, p *Player) error

	// ListMatches retorna partidos ordenados por fecha, con jugadores embebidos.
	ListMatches(ctx context.Context, f MatchFilter) ([]Match, error)
	ListRounds(ctx context.Context, season string) ([]string, error)
	GetMatch(ctx context.Context, id int) (*Match, error)
	// GetMatchWithPlayers carga el partido con ambos jugadores embebidos.
	GetMatchWithPlayers(ctx context.Context, id int) (*Match, error)
	CreateMatch(ctx context.Context, m *Match) error
	UpdateMatch(ctx context.Context, m *Match) error
	DeleteMatch(ctx context.Context, id int) error

	Ping(ctx context.Context) error
	Close()
}
