// Package dto define los contratos JSON de la API.
package dto

import (
	"time"

	"github.com/dropDatabas3/dartsstats/internal/store"
)

// TokenBundle es lo que el browser persiste tras un login o refresh.
type TokenBundle struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"isAdmin"`
	// ExpiresIn en segundos desde la emisión.
	ExpiresIn int `json:"expiresIn"`
}

// RefreshRequest pide un bundle nuevo a partir del refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest revoca la sesión del provider.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// MessageResponse es la respuesta genérica {"message": ...}.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatePlayerRequest da de alta un jugador con sus stats iniciales.
type CreatePlayerRequest struct {
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

// ToPlayer mapea el request al modelo de dominio.
func (r CreatePlayerRequest) ToPlayer() *store.Player {
	return &store.Player{
		Name:               r.Name,
		Nickname:           r.Nickname,
		Country:            r.Country,
		MatchesPlayed:      r.MatchesPlayed,
		MatchesWon:         r.MatchesWon,
		MatchesLost:        r.MatchesLost,
		LegsWon:            r.LegsWon,
		LegsLost:           r.LegsLost,
		PointsFor:          r.PointsFor,
		PointsAgainst:      r.PointsAgainst,
		AvgPoints:          r.AvgPoints,
		AvgLegDarts:        r.AvgLegDarts,
		CheckoutPercentage: r.CheckoutPercentage,
		Position:           r.Position,
	}
}

// MatchRequest crea o reemplaza un partido. Los IDs de jugadores deben
// existir; el servicio los valida antes de persistir.
type MatchRequest struct {
	Player1ID              int       `json:"player1Id"`
	Player2ID              int       `json:"player2Id"`
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

// ToMatch mapea el request al modelo de dominio. id=0 para creación.
func (r MatchRequest) ToMatch(id int) *store.Match {
	return &store.Match{
		ID:                     id,
		Player1ID:              r.Player1ID,
		Player2ID:              r.Player2ID,
		MatchDate:              r.MatchDate,
		Player1Score:           r.Player1Score,
		Player2Score:           r.Player2Score,
		Player1Average:         r.Player1Average,
		Player2Average:         r.Player2Average,
		Player1180s:            r.Player1180s,
		Player2180s:            r.Player2180s,
		Player1HighestCheckout: r.Player1HighestCheckout,
		Player2HighestCheckout: r.Player2HighestCheckout,
		Season:                 r.Season,
		Round:                  r.Round,
	}
}

// VenueInfo es la info del estadio de una ronda, enriquecida desde
// Wikipedia. Capacity es string: puede ser "12,500" o un texto fallback.
type VenueInfo struct {
	Name        string       `json:"name"`
	City        string       `json:"city"`
	Capacity    string       `json:"capacity"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
	Website     string       `json:"website,omitempty"`
	Address     string       `json:"address,omitempty"`
	Opened      string       `json:"opened,omitempty"`
	Weather     *WeatherInfo `json:"weather,omitempty"`
}

// WeatherInfo es el clima sintetizado para la noche del evento.
type WeatherInfo struct {
	Description string    `json:"description"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Icon        string    `json:"icon"`
	EventDate   time.Time `json:"eventDate"`
}
