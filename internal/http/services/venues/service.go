// Package venues resolves the arena of each league night, enriched with
// a Wikipedia summary and a synthesized forecast for the event date.
package venues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/dartsstats/internal/cache"
	"github.com/dropDatabas3/dartsstats/internal/http/dto"
	"github.com/dropDatabas3/dartsstats/internal/metrics"
	"github.com/dropDatabas3/dartsstats/internal/observability/logger"
)

const (
	wikipediaSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"
	userAgent           = "DartsStats/1.0 (+https://github.com/dropDatabas3/dartsstats)"
	cachePrefix         = "venue:"
)

// ErrRoundUnknown: the round is not part of the schedule.
var ErrRoundUnknown = errors.New("no venue information for round")

// night is a scheduled league night.
type night struct {
	City  string
	Venue string
	Date  time.Time
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// schedule maps rounds of the 2025 season to venues.
var schedule = map[string]night{
	"Night 1":      {"Belfast", "SSE Arena, Belfast", day(2025, 2, 6)},
	"Night 2":      {"Glasgow", "P&J Live", day(2025, 2, 13)},
	"Night 3":      {"Dublin", "3Arena", day(2025, 2, 20)},
	"Night 4":      {"Exeter", "Westpoint Arena", day(2025, 2, 27)},
	"Night 5":      {"Brighton", "Brighton Centre", day(2025, 3, 6)},
	"Night 6":      {"Nottingham", "Motorpoint Arena Nottingham", day(2025, 3, 13)},
	"Night 7":      {"Cardiff", "Motorpoint Arena Cardiff", day(2025, 3, 20)},
	"Night 8":      {"Newcastle", "Utilita Arena Newcastle", day(2025, 3, 27)},
	"Night 9":      {"Berlin", "Uber Arena", day(2025, 4, 3)},
	"Night 10":     {"Manchester", "AO Arena", day(2025, 4, 10)},
	"Night 11":     {"Rotterdam", "Rotterdam Ahoy", day(2025, 4, 17)},
	"Night 12":     {"Liverpool", "M&S Bank Arena", day(2025, 4, 24)},
	"Night 13":     {"Birmingham", "Resorts World Arena", day(2025, 5, 1)},
	"Night 14":     {"Leeds", "First Direct Arena", day(2025, 5, 8)},
	"Night 15":     {"Aberdeen", "P&J Live", day(2025, 5, 15)},
	"Night 16":     {"Sheffield", "Utilita Arena Sheffield", day(2025, 5, 22)},
	"Semi-Final 1": {"London", "The O2 Arena", day(2025, 5, 29)},
	"Semi-Final 2": {"London", "The O2 Arena", day(2025, 5, 29)},
	"Final":        {"London", "The O2 Arena", day(2025, 5, 29)},
}

// Service resolves venue info per round.
type Service interface {
	GetVenueInfo(ctx context.Context, round string) (*dto.VenueInfo, error)
}

type service struct {
	http    *http.Client
	cache   cache.Client
	ttl     time.Duration
	baseURL string
}

// New creates the venues Service. Lookups are cached for ttl because the
// Wikipedia content is effectively static during a season.
func New(c cache.Client, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   c,
		ttl:     ttl,
		baseURL: wikipediaSummaryURL,
	}
}

func (s *service) GetVenueInfo(ctx context.Context, round string) (*dto.VenueInfo, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("venues"), logger.Round(round))

	n, ok := schedule[round]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoundUnknown, round)
	}

	cacheKey := cachePrefix + round
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var info dto.VenueInfo
		if err := json.Unmarshal([]byte(cached), &info); err == nil {
			metrics.CacheHit("venue")
			return &info, nil
		}
	}
	metrics.CacheMiss("venue")

	info := s.fetch(ctx, n)
	info.Weather = synthesizeWeather(n.City, n.Date)

	if b, err := json.Marshal(info); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(b), s.ttl); err != nil {
			// Cache failures never break the lookup.
			log.Warn("venue cache write failed", logger.Err(err))
		}
	}
	return info, nil
}

// fetch pulls the page summary from Wikipedia. Any failure falls back to
// a static description so the endpoint always answers.
func (s *service) fetch(ctx context.Context, n night) *dto.VenueInfo {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("venues"))

	summary, err := s.fetchSummary(ctx, n.Venue)
	if err != nil {
		log.Warn("wikipedia lookup failed", logger.String("venue", n.Venue), logger.Err(err))
		return fallbackInfo(n)
	}

	name := summary.Title
	if name == "" {
		name = n.Venue
	}
	desc := summary.Extract
	if desc == "" {
		desc = fallbackDescription(n)
	}

	capacity := extractCapacity(summary.Extract)
	if capacity == "" {
		capacity = extractCapacity(summary.Description)
	}
	if capacity == "" {
		capacity = "Information not available"
	}

	return &dto.VenueInfo{
		Name:        name,
		City:        n.City,
		Capacity:    capacity,
		Description: desc,
		Image:       upscaleThumbnail(summary.Thumbnail.Source),
		Website:     summary.ContentURLs.Desktop.Page,
		Address:     summary.Description,
		Opened:      extractOpeningYear(summary.Extract),
	}
}

// wikiSummary is the subset of the REST summary response we read.
type wikiSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (s *service) fetchSummary(ctx context.Context, title string) (*wikiSummary, error) {
	u := s.baseURL + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia summary: http %d", resp.StatusCode)
	}

	var sum wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// upscaleThumbnail pide una versión más grande de la imagen.
func upscaleThumbnail(src string) string {
	if src == "" {
		return ""
	}
	src = strings.Replace(src, "/220px-", "/400px-", 1)
	return strings.Replace(src, "/300px-", "/400px-", 1)
}

func fallbackDescription(n night) string {
	return n.Venue + " is a major entertainment venue located in " + n.City +
		". This venue regularly hosts Premier League Darts and other major sporting events."
}

func fallbackInfo(n night) *dto.VenueInfo {
	return &dto.VenueInfo{
		Name:        n.Venue,
		City:        n.City,
		Capacity:    "Information not available",
		Description: fallbackDescription(n),
	}
}

// formatThousands renders 12500 as "12,500".
func formatThousands(v int) string {
	s := strconv.Itoa(v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
