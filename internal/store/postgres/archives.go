package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"WiccRecorderwebserver/internal/domain"
)

type ArchivesStore struct {
	pool *pgxpool.Pool
}

func NewArchivesStore(pool *pgxpool.Pool) *ArchivesStore {
	return &ArchivesStore{pool: pool}
}

const insertArchiveQuery = `
	INSERT INTO series_archives (
		id, archived_at, side_a_name, side_b_name,
		total_a, total_b, champion, match_count, snapshot)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getArchiveQuery = `SELECT snapshot FROM series_archives WHERE id = $1`

const listArchivesQuery = `
	SELECT id, archived_at, side_a_name, side_b_name,
	       total_a, total_b, champion, match_count
	FROM series_archives
	ORDER BY archived_at DESC`

// ArchiveSeries stores the snapshot and clears the active match rows
// in one transaction, so a crash between the two cannot leave the
// archive and the live series both holding the same matches.
func (s *ArchivesStore) ArchiveSeries(ctx context.Context, snap domain.ArchiveSnapshot) (string, error) {
	blob, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("archive series: encode snapshot: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("archive series: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertArchiveQuery,
		snap.ID, snap.ArchivedAt,
		snap.Series.SideAName, snap.Series.SideBName,
		snap.Standings.TotalA, snap.Standings.TotalB,
		snap.Standings.Leader, len(snap.Series.Matches), blob,
	)
	if err != nil {
		return "", fmt.Errorf("archive series: insert: %w", err)
	}

	if _, err := tx.Exec(ctx, deleteSeriesMatchesQuery, snap.Series.ID); err != nil {
		return "", fmt.Errorf("archive series: clear matches: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("archive series: commit: %w", err)
	}
	return snap.ID, nil
}

func (s *ArchivesStore) GetArchive(ctx context.Context, id string) (domain.ArchiveSnapshot, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, getArchiveQuery, id).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ArchiveSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ArchiveSnapshot{}, fmt.Errorf("get archive: %w", err)
	}

	var snap domain.ArchiveSnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return domain.ArchiveSnapshot{}, fmt.Errorf("get archive: decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *ArchivesStore) ListArchives(ctx context.Context) ([]domain.ArchiveSummary, error) {
	rows, err := s.pool.Query(ctx, listArchivesQuery)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	var out []domain.ArchiveSummary
	for rows.Next() {
		var a domain.ArchiveSummary
		err := rows.Scan(
			&a.ID, &a.ArchivedAt, &a.SideAName, &a.SideBName,
			&a.TotalA, &a.TotalB, &a.Champion, &a.Matches,
		)
		if err != nil {
			return nil, fmt.Errorf("list archives: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	return out, nil
}
