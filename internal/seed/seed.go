// Package seed carga el dataset de demo: los ocho jugadores de la
// Premier League 2025 y un fixture determinístico (seed fijo) de
// partidos 2024/2025.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
	"github.com/dropDatabas3/dartsstats/internal/store"
)

func Players() []store.Player {
	return []store.Player{
		{ID: 1, Name: "Luke Littler", Nickname: "The Nuke", Country: "England"},
		{ID: 2, Name: "Luke Humphries", Nickname: "Cool Hand", Country: "England"},
		{ID: 3, Name: "Gerwyn Price", Nickname: "The Iceman", Country: "Wales"},
		{ID: 4, Name: "Nathan Aspinall", Nickname: "The Asp", Country: "England"},
		{ID: 5, Name: "Michael van Gerwen", Nickname: "Mighty Mike", Country: "Netherlands"},
		{ID: 6, Name: "Chris Dobey", Nickname: "Hollywood", Country: "England"},
		{ID: 7, Name: "Rob Cross", Nickname: "Voltage", Country: "England"},
		{ID: 8, Name: "Stephen Bunting", Nickname: "The Bullet", Country: "England"},
	}
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Matches arma el fixture: las finales 2025 reales más una fase regular
// generada con seed fijo, para que cada corrida produzca el mismo set.
func Matches() []store.Match {
	rng := rand.New(rand.NewSource(42))
	finalsDate := day(2025, 5, 29)

	matches := []store.Match{
		{
			ID: 1, Player1ID: 1, Player2ID: 3, MatchDate: finalsDate,
			Player1Score: 10, Player2Score: 7,
			Player1Average: 104.64, Player2Average: 95.37,
			Player1180s: 8, Player2180s: 4,
			Player1HighestCheckout: 170, Player2HighestCheckout: 121,
			Season: "2025", Round: "Semi-Final",
		},
		{
			ID: 2, Player1ID: 2, Player2ID: 4, MatchDate: finalsDate,
			Player1Score: 10, Player2Score: 7,
			Player1Average: 105.81, Player2Average: 101.76,
			Player1180s: 9, Player2180s: 7,
			Player1HighestCheckout: 164, Player2HighestCheckout: 141,
			Season: "2025", Round: "Semi-Final",
		},
		{
			ID: 3, Player1ID: 2, Player2ID: 1, MatchDate: finalsDate,
			Player1Score: 11, Player2Score: 8,
			Player1Average: 97.86, Player2Average: 100.29,
			Player1180s: 6, Player2180s: 8,
			Player1HighestCheckout: 156, Player2HighestCheckout: 180,
			Season: "2025", Round: "Final",
		},
	}
	id := 4

	playerIDs := []int{1, 2, 3, 4, 5, 6, 7, 8}

	// Fase regular 2025: 16 noches, 4 partidos por noche.
	for week := 1; week <= 16; week++ {
		weekDate := day(2025, 2, 6).AddDate(0, 0, (week-1)*7)
		roundName := fmt.Sprintf("Night %d", week)

		shuffled := append([]int(nil), playerIDs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		for m := 0; m < 4; m++ {
			p1, p2 := shuffled[m*2], shuffled[m*2+1]
			p1Wins := rng.Intn(2) == 1
			var s1, s2 int
			if p1Wins {
				s1, s2 = 6+rng.Intn(3), 3+rng.Intn(3)
			} else {
				s1, s2 = 3+rng.Intn(3), 6+rng.Intn(3)
			}

			matches = append(matches, store.Match{
				ID: id, Player1ID: p1, Player2ID: p2, MatchDate: weekDate,
				Player1Score: s1, Player2Score: s2,
				Player1Average: round2(85 + rng.Float64()*25),
				Player2Average: round2(85 + rng.Float64()*25),
				Player1180s:    rng.Intn(12), Player2180s: rng.Intn(12),
				Player1HighestCheckout: 80 + rng.Intn(101),
				Player2HighestCheckout: 80 + rng.Intn(101),
				Season: "2025", Round: roundName,
			})
			id++
		}
	}

	// Algunos partidos 2024 para tener una segunda temporada comparable.
	for i := 0; i < 20; i++ {
		p1 := playerIDs[rng.Intn(len(playerIDs))]
		p2 := playerIDs[rng.Intn(len(playerIDs))]
		for p2 == p1 {
			p2 = playerIDs[rng.Intn(len(playerIDs))]
		}

		p1Wins := rng.Intn(2) == 1
		var s1, s2 int
		if p1Wins {
			s1, s2 = 6+rng.Intn(3), 3+rng.Intn(3)
		} else {
			s1, s2 = 3+rng.Intn(3), 6+rng.Intn(3)
		}

		matches = append(matches, store.Match{
			ID: id, Player1ID: p1, Player2ID: p2,
			MatchDate:    day(2024, 3+rng.Intn(9), 1+rng.Intn(28)),
			Player1Score: s1, Player2Score: s2,
			Player1Average: round2(80 + rng.Float64()*30),
			Player2Average: round2(80 + rng.Float64()*30),
			Player1180s:    rng.Intn(10), Player2180s: rng.Intn(10),
			Player1HighestCheckout: 60 + rng.Intn(121),
			Player2HighestCheckout: 60 + rng.Intn(121),
			Season: "2024", Round: fmt.Sprintf("Night %d", 1+rng.Intn(16)),
		})
		id++
	}

	return matches
}

// Apply computa los agregados por jugador a partir del fixture y carga
// todo en el store. Idempotencia es responsabilidad del caller (correr
// sobre una base vacía).
func Apply(ctx context.Context, st store.Store) error {
	log := logger.L().With(logger.Component("seed"))

	players := Players()
	matches := Matches()
	aggregate(players, matches)

	for i := range players {
		if err := st.CreatePlayer(ctx, &players[i]); err != nil {
			return fmt.Errorf("seed player %q: %w", players[i].Name, err)
		}
	}
	for i := range matches {
		if err := st.CreateMatch(ctx, &matches[i]); err != nil {
			return fmt.Errorf("seed match %d: %w", matches[i].ID, err)
		}
	}

	log.Info("seed applied", logger.Int("players", len(players)), logger.Int("matches", len(matches)))
	return nil
}

// aggregate deriva las estadísticas acumuladas de cada jugador desde sus
// partidos y asigna posiciones por partidos ganados.
func aggregate(players []store.Player, matches []store.Match) {
	idx := make(map[int]*store.Player, len(players))
	for i := range players {
		idx[players[i].ID] = &players[i]
	}

	avgSum := make(map[int]float64)
	for _, m := range matches {
		p1, p2 := idx[m.Player1ID], idx[m.Player2ID]
		if p1 == nil || p2 == nil {
			continue
		}

		p1.MatchesPlayed++
		p2.MatchesPlayed++
		p1.LegsWon += m.Player1Score
		p1.LegsLost += m.Player2Score
		p2.LegsWon += m.Player2Score
		p2.LegsLost += m.Player1Score
		if m.Player1Score > m.Player2Score {
			p1.MatchesWon++
			p2.MatchesLost++
		} else {
			p2.MatchesWon++
			p1.MatchesLost++
		}
		avgSum[p1.ID] += m.Player1Average
		avgSum[p2.ID] += m.Player2Average
	}

	for i := range players {
		p := &players[i]
		if p.MatchesPlayed > 0 {
			p.AvgPoints = round2(avgSum[p.ID] / float64(p.MatchesPlayed))
		}
	}

	// Posición por partidos ganados, desempate por diferencia de legs.
	ranked := make([]*store.Player, len(players))
	for i := range players {
		ranked[i] = &players[i]
	}
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			wi, wj := ranked[i], ranked[j]
			if wj.MatchesWon > wi.MatchesWon ||
				(wj.MatchesWon == wi.MatchesWon && wj.LegsWon-wj.LegsLost > wi.LegsWon-wi.LegsLost) {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	for pos, p := range ranked {
		p.Position = pos + 1
	}
}
