package venues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/dartsstats/internal/cache"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*service, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	s := New(cache.NewMemory("test", 0), time.Hour).(*service)
	s.baseURL = srv.URL + "/api/rest_v1/page/summary/"
	return s, &hits
}

func TestGetVenueInfoUnknownRound(t *testing.T) {
	s, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := s.GetVenueInfo(context.Background(), "Night 99")
	assert.ErrorIs(t, err, ErrRoundUnknown)
}

func TestGetVenueInfoFromSummary(t *testing.T) {
	s, hits := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"title": "3Arena",
			"description": "Amphitheatre in Dublin, Ireland",
			"extract": "The 3Arena is an amphitheatre located in Dublin. The venue opened in 2008 and has a capacity of 13,000 people.",
			"thumbnail": {"source": "https://upload.wikimedia.org/220px-3arena.jpg"},
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/3Arena"}}
		}`))
	})

	info, err := s.GetVenueInfo(context.Background(), "Night 3")
	require.NoError(t, err)

	assert.Equal(t, "3Arena", info.Name)
	assert.Equal(t, "Dublin", info.City)
	assert.Equal(t, "13,000", info.Capacity)
	assert.Equal(t, "2008", info.Opened)
	assert.Equal(t, "https://upload.wikimedia.org/400px-3arena.jpg", info.Image)
	assert.Equal(t, "https://en.wikipedia.org/wiki/3Arena", info.Website)
	require.NotNil(t, info.Weather)
	assert.Equal(t, day(2025, 2, 20), info.Weather.EventDate)

	// Segunda lectura sale del cache sin tocar Wikipedia.
	again, err := s.GetVenueInfo(context.Background(), "Night 3")
	require.NoError(t, err)
	assert.Equal(t, info.Name, again.Name)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestGetVenueInfoFallsBackOnLookupFailure(t *testing.T) {
	s, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	info, err := s.GetVenueInfo(context.Background(), "Final")
	require.NoError(t, err)

	assert.Equal(t, "The O2 Arena", info.Name)
	assert.Equal(t, "London", info.City)
	assert.Equal(t, "Information not available", info.Capacity)
	assert.Contains(t, info.Description, "Premier League Darts")
	require.NotNil(t, info.Weather)
}

func TestExtractCapacity(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"The arena has a capacity of 12,500 for concerts.", "12,500"},
		{"Capacity: 9000", "9,000"},
		{"It seats 11000 spectators.", "11,000"},
		{"A 5,000 capacity venue in the city centre.", "5,000"},
		{"The hall can accommodate up to 3500 people.", "3,500"},
		{"It holds 15,000.", "15,000"},
		{"No numbers in this sentence.", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractCapacity(tc.text), "text: %q", tc.text)
	}
}

func TestExtractOpeningYear(t *testing.T) {
	assert.Equal(t, "1995", extractOpeningYear("The arena opened in 1995 after two years of work."))
	assert.Equal(t, "2008", extractOpeningYear("Built in 2008, it replaced the old hall."))
	assert.Equal(t, "", extractOpeningYear("A venue of uncertain age."))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "1,000", formatThousands(1000))
	assert.Equal(t, "12,500", formatThousands(12500))
	assert.Equal(t, "1,234,567", formatThousands(1234567))
}

func TestSynthesizeWeatherIsDeterministic(t *testing.T) {
	date := day(2025, 4, 3)

	a := synthesizeWeather("Berlin", date)
	b := synthesizeWeather("Berlin", date)
	assert.Equal(t, a, b)

	// Otra ciudad el mismo día rara vez coincide; al menos la fecha
	// del evento siempre refleja la entrada.
	c := synthesizeWeather("Dublin", date)
	assert.Equal(t, date, c.EventDate)

	// Rango plausible para abril.
	assert.GreaterOrEqual(t, a.Temperature, float64(-5))
	assert.LessOrEqual(t, a.Temperature, float64(25))
}

func TestScheduleCoversFullSeason(t *testing.T) {
	require.Len(t, schedule, 19)
	for round, n := range schedule {
		assert.NotEmpty(t, n.City, round)
		assert.NotEmpty(t, n.Venue, round)
		assert.False(t, n.Date.IsZero(), round)
	}
}
