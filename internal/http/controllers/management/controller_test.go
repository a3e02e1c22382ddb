package management

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/dartsstats/internal/http/services/stats"
	"github.com/dropDatabas3/dartsstats/internal/store"
	"github.com/dropDatabas3/dartsstats/internal/store/memory"
)

func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	st := memory.New()
	controller := New(stats.New(st))

	r := chi.NewRouter()
	r.Route("/api/management", func(m chi.Router) {
		m.Post("/players", controller.CreatePlayer)
		m.Post("/matches", controller.CreateMatch)
		m.Get("/matches/{id}", controller.GetMatch)
		m.Put("/matches/{id}", controller.UpdateMatch)
		m.Delete("/matches/{id}", controller.DeleteMatch)
	})
	return r, st
}

func seedMatch(t *testing.T, st *memory.Store) int {
	t.Helper()
	ctx := context.Background()
	p1 := &store.Player{Name: "Gerwyn Price", Country: "Wales"}
	p2 := &store.Player{Name: "Rob Cross", Country: "England"}
	require.NoError(t, st.CreatePlayer(ctx, p1))
	require.NoError(t, st.CreatePlayer(ctx, p2))

	m := &store.Match{
		Player1ID: p1.ID, Player2ID: p2.ID,
		MatchDate:    time.Date(2025, 3, 20, 19, 0, 0, 0, time.UTC),
		Player1Score: 6, Player2Score: 2,
		Season: "2025", Round: "Night 7",
	}
	require.NoError(t, st.CreateMatch(ctx, m))
	return m.ID
}

func TestGetMatchForEdit(t *testing.T) {
	h, st := newTestRouter(t)
	id := seedMatch(t, st)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/management/matches/"+strconv.Itoa(id), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got store.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	require.NotNil(t, got.Player1)
	require.NotNil(t, got.Player2)
	assert.Equal(t, "Gerwyn Price", got.Player1.Name)
	assert.Equal(t, "Rob Cross", got.Player2.Name)
}

func TestGetMatchErrors(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/management/matches/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/management/matches/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMatchRespondsWithPlayers(t *testing.T) {
	h, st := newTestRouter(t)
	id := seedMatch(t, st)

	body := `{"player1Id":1,"player2Id":2,"matchDate":"2025-03-20T19:00:00Z","player1Score":6,"player2Score":5,"season":"2025","round":"Night 7"}`
	req := httptest.NewRequest(http.MethodPut, "/api/management/matches/"+strconv.Itoa(id), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got store.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Player2Score)
	require.NotNil(t, got.Player1)
	require.NotNil(t, got.Player2)
}

