package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/dartsstats/internal/store"
	"github.com/dropDatabas3/dartsstats/internal/store/memory"
)

func TestMatchesAreDeterministic(t *testing.T) {
	a := Matches()
	b := Matches()
	require.Equal(t, a, b)

	// 3 finales + 16 noches x 4 partidos + 20 de 2024.
	assert.Len(t, a, 3+16*4+20)
}

func TestMatchesReferenceSeededPlayers(t *testing.T) {
	ids := make(map[int]bool)
	for _, p := range Players() {
		ids[p.ID] = true
	}
	for _, m := range Matches() {
		assert.True(t, ids[m.Player1ID], "match %d player1 %d", m.ID, m.Player1ID)
		assert.True(t, ids[m.Player2ID], "match %d player2 %d", m.ID, m.Player2ID)
		assert.NotEqual(t, m.Player1ID, m.Player2ID, "match %d pairs a player with himself", m.ID)
	}
}

func TestApplyAggregatesStats(t *testing.T) {
	st := memory.New()
	require.NoError(t, Apply(context.Background(), st))

	players, err := st.ListPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 8)

	positions := make(map[int]bool)
	totalPlayed := 0
	for _, p := range players {
		assert.Positive(t, p.MatchesPlayed, p.Name)
		assert.Equal(t, p.MatchesPlayed, p.MatchesWon+p.MatchesLost, p.Name)
		assert.Positive(t, p.AvgPoints, p.Name)
		assert.False(t, positions[p.Position], "duplicate position %d", p.Position)
		positions[p.Position] = true
		totalPlayed += p.MatchesPlayed
	}
	// Cada partido suma una aparición por jugador.
	assert.Equal(t, 2*len(Matches()), totalPlayed)

	// ListPlayers ordena por posición.
	for i, p := range players {
		assert.Equal(t, i+1, p.Position)
	}

	matches, err := st.ListMatches(context.Background(), store.MatchFilter{Season: "2025", Round: "Final"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Luke Humphries", matches[0].Player1.Name)
}
