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

type MatchesStore struct {
	pool *pgxpool.Pool
}

func NewMatchesStore(pool *pgxpool.Pool) *MatchesStore {
	return &MatchesStore{pool: pool}
}

// matchColumns is the explicit column list shared by every statement in
// this file. Inserts and updates never use SELECT * or positional
// shortcuts, so a schema migration that adds a column cannot silently
// change what gets written.
const matchColumns = `
	id, series_id, match_date, match_number, format,
	side_a_raw, side_b_raw,
	side_a_inn1, side_a_inn2, side_b_inn1, side_b_inn2,
	side_a_score, side_b_score, overs,
	outcome, win_margin, points_a, points_b,
	man_of_match, moi1, moi2,
	position, created_at, updated_at`

const listMatchesQuery = `
	SELECT` + matchColumns + `
	FROM matches
	WHERE series_id = $1
	ORDER BY position, created_at`

const insertMatchQuery = `
	INSERT INTO matches (` + matchColumns + `)
	VALUES ($1, $2, $3, $4, $5,
	        $6, $7,
	        $8, $9, $10, $11,
	        $12, $13, $14,
	        $15, $16, $17, $18,
	        $19, $20, $21,
	        $22, $23, $24)`

const updateMatchQuery = `
	UPDATE matches
	SET match_date = $2,
	    match_number = $3,
	    format = $4,
	    side_a_raw = $5,
	    side_b_raw = $6,
	    side_a_inn1 = $7,
	    side_a_inn2 = $8,
	    side_b_inn1 = $9,
	    side_b_inn2 = $10,
	    side_a_score = $11,
	    side_b_score = $12,
	    overs = $13,
	    outcome = $14,
	    win_margin = $15,
	    points_a = $16,
	    points_b = $17,
	    man_of_match = $18,
	    moi1 = $19,
	    moi2 = $20,
	    updated_at = $21
	WHERE id = $1`

const deleteMatchQuery = `DELETE FROM matches WHERE id = $1`

const deleteSeriesMatchesQuery = `DELETE FROM matches WHERE series_id = $1`

func (s *MatchesStore) ListMatches(ctx context.Context, seriesID string) ([]domain.MatchRecord, error) {
	rows, err := s.pool.Query(ctx, listMatchesQuery, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func (s *MatchesStore) InsertMatch(ctx context.Context, seriesID string, rec domain.MatchRecord, position int) error {
	if _, err := s.pool.Exec(ctx, insertMatchQuery, insertArgs(seriesID, rec, position)...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (s *MatchesStore) UpdateMatch(ctx context.Context, rec domain.MatchRecord) error {
	tag, err := s.pool.Exec(ctx, updateMatchQuery,
		rec.ID,
		rec.Date,
		rec.MatchNumber,
		string(rec.Format),
		textOf(rec.Raw.SideA),
		textOf(rec.Raw.SideB),
		textOf(rec.Raw.SideAInn1),
		textOf(rec.Raw.SideAInn2),
		textOf(rec.Raw.SideBInn1),
		textOf(rec.Raw.SideBInn2),
		rec.SideAScore,
		rec.SideBScore,
		textOf(rec.Overs),
		string(rec.Outcome),
		textOf(rec.WinMargin),
		rec.PointsA,
		rec.PointsB,
		textOf(rec.ManOfMatch),
		textOf(rec.MOI1),
		textOf(rec.MOI2),
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *MatchesStore) DeleteMatch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, deleteMatchQuery, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceMatches rewrites the full set of rows for a series in one
// transaction. It is the sync path: the in-memory state is
// authoritative, so a replace is idempotent and safe to retry.
func (s *MatchesStore) ReplaceMatches(ctx context.Context, seriesID string, matches []domain.MatchRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replace matches: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteSeriesMatchesQuery, seriesID); err != nil {
		return fmt.Errorf("replace matches: clear: %w", err)
	}
	for i, rec := range matches {
		if _, err := tx.Exec(ctx, insertMatchQuery, insertArgs(seriesID, rec, i)...); err != nil {
			return fmt.Errorf("replace matches: insert %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replace matches: commit: %w", err)
	}
	return nil
}

func insertArgs(seriesID string, rec domain.MatchRecord, position int) []any {
	return []any{
		rec.ID,
		seriesID,
		rec.Date,
		rec.MatchNumber,
		string(rec.Format),
		textOf(rec.Raw.SideA),
		textOf(rec.Raw.SideB),
		textOf(rec.Raw.SideAInn1),
		textOf(rec.Raw.SideAInn2),
		textOf(rec.Raw.SideBInn1),
		textOf(rec.Raw.SideBInn2),
		rec.SideAScore,
		rec.SideBScore,
		textOf(rec.Overs),
		string(rec.Outcome),
		textOf(rec.WinMargin),
		rec.PointsA,
		rec.PointsB,
		textOf(rec.ManOfMatch),
		textOf(rec.MOI1),
		textOf(rec.MOI2),
		position,
		rec.CreatedAt,
		rec.UpdatedAt,
	}
}

type matchRow interface {
	Scan(dest ...any) error
}

func scanMatch(row matchRow) (domain.MatchRecord, error) {
	var (
		rec      domain.MatchRecord
		seriesID string
		position int
		format   string
		outcome  string

		rawA, rawB                 pgtype.Text
		aInn1, aInn2, bInn1, bInn2 pgtype.Text
		overs, margin              pgtype.Text
		mom, moi1, moi2            pgtype.Text
		scoreA, scoreB             pgtype.Int4
		ptsA, ptsB                 pgtype.Int4
	)

	err := row.Scan(
		&rec.ID, &seriesID, &rec.Date, &rec.MatchNumber, &format,
		&rawA, &rawB,
		&aInn1, &aInn2, &bInn1, &bInn2,
		&scoreA, &scoreB, &overs,
		&outcome, &margin, &ptsA, &ptsB,
		&mom, &moi1, &moi2,
		&position, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MatchRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MatchRecord{}, err
	}

	rec.Format = domain.MatchFormat(format)
	if !rec.Format.Valid() {
		rec.Format = domain.FormatSingleInnings
	}
	rec.Outcome = domain.Outcome(outcome)
	rec.Raw = domain.RawScores{
		SideA:     textOrEmpty(rawA),
		SideB:     textOrEmpty(rawB),
		SideAInn1: textOrEmpty(aInn1),
		SideAInn2: textOrEmpty(aInn2),
		SideBInn1: textOrEmpty(bInn1),
		SideBInn2: textOrEmpty(bInn2),
	}
	rec.SideAScore = intOrZero(scoreA)
	rec.SideBScore = intOrZero(scoreB)
	rec.Overs = textOrEmpty(overs)
	rec.WinMargin = textOrEmpty(margin)
	rec.PointsA = intOrZero(ptsA)
	rec.PointsB = intOrZero(ptsB)
	rec.ManOfMatch = textOrEmpty(mom)
	rec.MOI1 = textOrEmpty(moi1)
	rec.MOI2 = textOrEmpty(moi2)
	return rec, nil
}
