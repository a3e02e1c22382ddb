package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/dartsstats/internal/store"
)

type Store struct{ pool *pgxpool.Pool }

// Config tuning opcional del pool.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	// Mapear MaxIdleConns → MinConns (pgxpool)
	if cfg.MaxIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (migraciones/seed).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

const playerCols = `id, name, nickname, country, matches_played, matches_won, matches_lost,
	legs_won, legs_lost, points_for, points_against, avg_points, avg_leg_darts,
	checkout_percentage, position`

func scanPlayer(row pgx.Row) (*store.Player, error) {
	var p store.Player
	err := row.Scan(&p.ID, &p.Name, &p.Nickname, &p.Country, &p.MatchesPlayed, &p.MatchesWon,
		&p.MatchesLost, &p.LegsWon, &p.LegsLost, &p.PointsFor, &p.PointsAgainst,
		&p.AvgPoints, &p.AvgLegDarts, &p.CheckoutPercentage, &p.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]store.Player, error) {
	q := `SELECT ` + playerCols + ` FROM player ORDER BY position`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetPlayer(ctx context.Context, id int) (*store.Player, error) {
	q := `SELECT ` + playerCols + ` FROM player WHERE id = $1`
	return scanPlayer(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) PlayerExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM player WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (s *Store) CreatePlayer(ctx context.Context, p *store.Player) error {
	const q = `INSERT INTO player (name, nickname, country, matches_played, matches_won,
		matches_lost, legs_won, legs_lost, points_for, points_against, avg_points,
		avg_leg_darts, checkout_percentage, position)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id`
	return s.pool.QueryRow(ctx, q, p.Name, p.Nickname, p.Country, p.MatchesPlayed,
		p.MatchesWon, p.MatchesLost, p.LegsWon, p.LegsLost, p.PointsFor, p.PointsAgainst,
		p.AvgPoints, p.AvgLegDarts, p.CheckoutPercentage, p.Position).Scan(&p.ID)
}

const matchCols = `id, player1_id, player2_id, match_date, player1_score, player2_score,
	player1_average, player2_average, player1_180s, player2_180s,
	player1_highest_checkout, player2_highest_checkout, season, round`

func scanMatch(row pgx.Row) (*store.Match, error) {
	var m store.Match
	err := row.Scan(&m.ID, &m.Player1ID, &m.Player2ID, &m.MatchDate, &m.Player1Score,
		&m.Player2Score, &m.Player1Average, &m.Player2Average, &m.Player1180s,
		&m.Player2180s, &m.Player1HighestCheckout, &m.Player2HighestCheckout,
		&m.Season, &m.Round)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListMatches(ctx context.Context, f store.MatchFilter) ([]store.Match, error) {
	q := `SELECT ` + matchCols + ` FROM match WHERE 1=1`
	args := []any{}
	if f.Season != "" {
		args = append(args, f.Season)
		q += ` AND season = $1`
	}
	if f.Round != "" {
		args = append(args, f.Round)
		if len(args) == 2 {
			q += ` AND round = $2`
		} else {
			q += ` AND round = $1`
		}
	}
	q += ` ORDER BY match_date`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Embeber jugadores (dos queries puntuales por partido es aceptable
	// para el tamaño de la liga; 16 jugadores, ~60 partidos por temporada).
	for i := range out {
		if err := s.attachPlayers(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) attachPlayers(ctx context.Context, m *store.Match) error {
	p1, err := s.GetPlayer(ctx, m.Player1ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	p2, err := s.GetPlayer(ctx, m.Player2ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	m.Player1, m.Player2 = p1, p2
	return nil
}

func (s *Store) ListRounds(ctx context.Context, season string) ([]string, error) {
	q := `SELECT DISTINCT round FROM match`
	args := []any{}
	if season != "" {
		q += ` WHERE season = $1`
		args = append(args, season)
	}
	q += ` ORDER BY round`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetMatch(ctx context.Context, id int) (*store.Match, error) {
	q := `SELECT ` + matchCols + ` FROM match WHERE id = $1`
	return scanMatch(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetMatchWithPlayers(ctx context.Context, id int) (*store.Match, error) {
	m, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachPlayers(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) CreateMatch(ctx context.Context, m *store.Match) error {
	const q = `INSERT INTO match (player1_id, player2_id, match_date, player1_score,
		player2_score, player1_average, player2_average, player1_180s, player2_180s,
		player1_highest_checkout, player2_highest_checkout, season, round)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id`
	return s.pool.QueryRow(ctx, q, m.Player1ID, m.Player2ID, m.MatchDate, m.Player1Score,
		m.Player2Score, m.Player1Average, m.Player2Average, m.Player1180s, m.Player2180s,
		m.Player1HighestCheckout, m.Player2HighestCheckout, m.Season, m.Round).Scan(&m.ID)
}

func (s *Store) UpdateMatch(ctx context.Context, m *store.Match) error {
	const q = `UPDATE match SET player1_id=$2, player2_id=$3, match_date=$4,
		player1_score=$5, player2_score=$6, player1_average=$7, player2_average=$8,
		player1_180s=$9, player2_180s=$10, player1_highest_checkout=$11,
		player2_highest_checkout=$12, season=$13, round=$14
		WHERE id=$1`
	tag, err := s.pool.Exec(ctx, q, m.ID, m.Player1ID, m.Player2ID, m.MatchDate,
		m.Player1Score, m.Player2Score, m.Player1Average, m.Player2Average,
		m.Player1180s, m.Player2180s, m.Player1HighestCheckout, m.Player2HighestCheckout,
		m.Season, m.Round)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMatch(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM match WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
