// Package memory backs the series with process-local storage, for
// running without a database. Everything is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"WiccRecorderwebserver/internal/domain"
)

type Store struct {
	mu       sync.Mutex
	series   domain.Series
	hasRow   bool
	matches  map[string]domain.MatchRecord
	order    map[string]int
	archives []domain.ArchiveSnapshot
}

func New() *Store {
	return &Store{
		matches: make(map[string]domain.MatchRecord),
		order:   make(map[string]int),
	}
}

func (s *Store) GetSeries(ctx context.Context) (domain.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRow {
		return domain.Series{}, domain.ErrNotFound
	}
	return s.series.Clone(), nil
}

func (s *Store) SaveSeries(ctx context.Context, ser domain.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = ser.Clone()
	s.hasRow = true
	return nil
}

func (s *Store) ListMatches(ctx context.Context, seriesID string) ([]domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.MatchRecord, 0, len(s.matches))
	for _, rec := range s.matches {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].ID] < s.order[out[j].ID]
	})
	return out, nil
}

func (s *Store) InsertMatch(ctx context.Context, seriesID string, rec domain.MatchRecord, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[rec.ID] = rec
	s.order[rec.ID] = position
	return nil
}

func (s *Store) UpdateMatch(ctx context.Context, rec domain.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	s.matches[rec.ID] = rec
	return nil
}

func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.matches, id)
	delete(s.order, id)
	return nil
}

func (s *Store) ReplaceMatches(ctx context.Context, seriesID string, matches []domain.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = make(map[string]domain.MatchRecord, len(matches))
	s.order = make(map[string]int, len(matches))
	for i, rec := range matches {
		s.matches[rec.ID] = rec
		s.order[rec.ID] = i
	}
	return nil
}

func (s *Store) ArchiveSeries(ctx context.Context, snap domain.ArchiveSnapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives = append(s.archives, snap)
	s.matches = make(map[string]domain.MatchRecord)
	s.order = make(map[string]int)
	return snap.ID, nil
}

func (s *Store) GetArchive(ctx context.Context, id string) (domain.ArchiveSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.archives {
		if snap.ID == id {
			return snap, nil
		}
	}
	return domain.ArchiveSnapshot{}, domain.ErrNotFound
}

func (s *Store) ListArchives(ctx context.Context) ([]domain.ArchiveSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ArchiveSummary, 0, len(s.archives))
	for i := len(s.archives) - 1; i >= 0; i-- {
		snap := s.archives[i]
		out = append(out, domain.ArchiveSummary{
			ID:         snap.ID,
			ArchivedAt: snap.ArchivedAt,
			SideAName:  snap.Series.SideAName,
			SideBName:  snap.Series.SideBName,
			TotalA:     snap.Standings.TotalA,
			TotalB:     snap.Standings.TotalB,
			Champion:   snap.Standings.Leader,
			Matches:    len(snap.Series.Matches),
		})
	}
	return out, nil
}
