package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"WiccRecorderwebserver/internal/domain"
)

type SeriesStore struct {
	pool *pgxpool.Pool
}

func NewSeriesStore(pool *pgxpool.Pool) *SeriesStore {
	return &SeriesStore{pool: pool}
}

const getSeriesQuery = `
	SELECT id, side_a_name, side_b_name,
	       side_a_players, side_b_players, target,
	       man_of_series, mvp, most_wickets, most_runs, most_catches,
	       created_at, updated_at
	FROM series
	ORDER BY created_at
	LIMIT 1`

const saveSeriesQuery = `
	INSERT INTO series (
		id, side_a_name, side_b_name,
		side_a_players, side_b_players, target,
		man_of_series, mvp, most_wickets, most_runs, most_catches,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		side_a_name = EXCLUDED.side_a_name,
		side_b_name = EXCLUDED.side_b_name,
		side_a_players = EXCLUDED.side_a_players,
		side_b_players = EXCLUDED.side_b_players,
		target = EXCLUDED.target,
		man_of_series = EXCLUDED.man_of_series,
		mvp = EXCLUDED.mvp,
		most_wickets = EXCLUDED.most_wickets,
		most_runs = EXCLUDED.most_runs,
		most_catches = EXCLUDED.most_catches,
		updated_at = EXCLUDED.updated_at`

// GetSeries returns the active series row without its matches. There
// is at most one active series; callers load matches separately.
func (s *SeriesStore) GetSeries(ctx context.Context) (domain.Series, error) {
	var (
		ser                              domain.Series
		playersA, playersB               pgtype.FlatArray[pgtype.Text]
		mos, mvp, wickets, runs, catches pgtype.Text
	)

	err := s.pool.QueryRow(ctx, getSeriesQuery).Scan(
		&ser.ID, &ser.SideAName, &ser.SideBName,
		&playersA, &playersB, &ser.Target,
		&mos, &mvp, &wickets, &runs, &catches,
		&ser.CreatedAt, &ser.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Series{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Series{}, fmt.Errorf("get series: %w", err)
	}

	ser.SideAPlayers = stringsOrEmpty(playersA)
	ser.SideBPlayers = stringsOrEmpty(playersB)
	ser.Awards = domain.SeriesAwards{
		ManOfSeries: textOrEmpty(mos),
		MVP:         textOrEmpty(mvp),
		MostWickets: textOrEmpty(wickets),
		MostRuns:    textOrEmpty(runs),
		MostCatches: textOrEmpty(catches),
	}
	return ser, nil
}

func (s *SeriesStore) SaveSeries(ctx context.Context, ser domain.Series) error {
	_, err := s.pool.Exec(ctx, saveSeriesQuery,
		ser.ID, ser.SideAName, ser.SideBName,
		ser.SideAPlayers, ser.SideBPlayers, ser.Target,
		textOf(ser.Awards.ManOfSeries),
		textOf(ser.Awards.MVP),
		textOf(ser.Awards.MostWickets),
		textOf(ser.Awards.MostRuns),
		textOf(ser.Awards.MostCatches),
		ser.CreatedAt, ser.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save series: %w", err)
	}
	return nil
}
