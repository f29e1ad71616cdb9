package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"WiccRecorderwebserver/internal/domain"
)

type SeriesStore interface {
	GetSeries(ctx context.Context) (domain.Series, error)
	SaveSeries(ctx context.Context, s domain.Series) error
}

type MatchesStore interface {
	ListMatches(ctx context.Context, seriesID string) ([]domain.MatchRecord, error)
	InsertMatch(ctx context.Context, seriesID string, rec domain.MatchRecord, position int) error
	UpdateMatch(ctx context.Context, rec domain.MatchRecord) error
	DeleteMatch(ctx context.Context, id string) error
	ReplaceMatches(ctx context.Context, seriesID string, matches []domain.MatchRecord) error
}

type ArchivesStore interface {
	ArchiveSeries(ctx context.Context, snap domain.ArchiveSnapshot) (string, error)
	GetArchive(ctx context.Context, id string) (domain.ArchiveSnapshot, error)
	ListArchives(ctx context.Context) ([]domain.ArchiveSummary, error)
}

// SeriesService owns the live series. The in-memory state is
// authoritative; every mutation applies locally first and then mirrors
// to the store. A failed mirror marks the state sync-pending instead of
// failing the request, and Sync retries the full rewrite later. Archive
// is the one exception: it must land remotely before the local series
// is cleared.
type SeriesService struct {
	Series   SeriesStore
	Matches  MatchesStore
	Archives ArchivesStore
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
	Target   int

	mu      sync.Mutex
	state   domain.Series
	pending bool
	undo    *history
}

const undoDepth = 10

type MatchParams struct {
	Date        string
	MatchNumber string
	Format      domain.MatchFormat
	Raw         domain.RawScores
	Overs       string
	ManOfMatch  string
	MOI1        string
	MOI2        string
}

// SeriesState is the full read model served to clients.
type SeriesState struct {
	Series      domain.Series
	Standings   domain.Standings
	SyncPending bool
	UndoDepth   int
}

func (s *SeriesService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SeriesService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *SeriesService) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Load pulls the stored series into memory, creating a fresh one on
// first run. It must be called once before the service takes traffic.
func (s *SeriesService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = newHistory(undoDepth)

	target := s.Target
	if target <= 0 {
		target = domain.DefaultTarget
	}

	ser, err := s.Series.GetSeries(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		now := s.now()
		ser = domain.Series{
			ID:        s.newID(),
			SideAName: "Side A",
			SideBName: "Side B",
			Target:    target,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Series.SaveSeries(ctx, ser); err != nil {
			return fmt.Errorf("create series: %w", err)
		}
		s.state = ser
		return nil
	}
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	matches, err := s.Matches.ListMatches(ctx, ser.ID)
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	ser.Matches = matches
	if ser.Target <= 0 {
		ser.Target = target
	}
	s.state = ser
	return nil
}

func (s *SeriesService) State() SeriesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *SeriesService) stateLocked() SeriesState {
	return SeriesState{
		Series:      s.state.Clone(),
		Standings:   s.state.Standings(),
		SyncPending: s.pending,
		UndoDepth:   s.undo.Len(),
	}
}

func (s *SeriesService) RenameTeams(ctx context.Context, sideA, sideB string) (SeriesState, error) {
	sideA, sideB = strings.TrimSpace(sideA), strings.TrimSpace(sideB)
	fields := map[string]string{}
	if sideA == "" {
		fields["side_a_name"] = "is required"
	}
	if sideB == "" {
		fields["side_b_name"] = "is required"
	}
	if len(fields) > 0 {
		return SeriesState{}, domain.NewValidationError(fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo.Push(s.state)
	s.state.SideAName = sideA
	s.state.SideBName = sideB
	s.state.UpdatedAt = s.now()
	s.mirrorSeries(ctx)
	return s.stateLocked(), nil
}

func (s *SeriesService) UpdatePlayers(ctx context.Context, sideA, sideB []string) (SeriesState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo.Push(s.state)
	s.state.SideAPlayers = cleanNames(sideA)
	s.state.SideBPlayers = cleanNames(sideB)
	s.state.UpdatedAt = s.now()
	s.mirrorSeries(ctx)
	return s.stateLocked(), nil
}

func (s *SeriesService) UpdateAwards(ctx context.Context, awards domain.SeriesAwards) (SeriesState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo.Push(s.state)
	s.state.Awards = awards
	s.state.UpdatedAt = s.now()
	s.mirrorSeries(ctx)
	return s.stateLocked(), nil
}

// CommitMatch records a new match. Scores are derived server-side; the
// client never sends outcome or points.
func (s *SeriesService) CommitMatch(ctx context.Context, p MatchParams) (domain.MatchRecord, error) {
	if err := validateMatchParams(p); err != nil {
		return domain.MatchRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo.Push(s.state)

	now := s.now()
	rec := domain.MatchRecord{
		ID:          s.newID(),
		Date:        strings.TrimSpace(p.Date),
		MatchNumber: strings.TrimSpace(p.MatchNumber),
		Format:      p.Format,
		Raw:         p.Raw,
		Overs:       strings.TrimSpace(p.Overs),
		ManOfMatch:  strings.TrimSpace(p.ManOfMatch),
		MOI1:        strings.TrimSpace(p.MOI1),
		MOI2:        strings.TrimSpace(p.MOI2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if rec.MatchNumber == "" {
		rec.MatchNumber = fmt.Sprintf("%d", len(s.state.Matches)+1)
	}
	applyDerived(&rec, domain.Derive(rec.Format, rec.Raw))

	pos := len(s.state.Matches)
	s.state.Matches = append(s.state.Matches, rec)
	s.state.UpdatedAt = now

	if err := s.Matches.InsertMatch(ctx, s.state.ID, rec, pos); err != nil {
		s.markPending("insert match", err)
	}
	return rec, nil
}

// UpdateMatch re-derives the result from the submitted scores. A match
// that already has a settled outcome keeps it when the new scores are
// all blank, so clearing a form field cannot flip a finished match back
// to pending.
func (s *SeriesService) UpdateMatch(ctx context.Context, id string, p MatchParams) (domain.MatchRecord, error) {
	if err := validateMatchParams(p); err != nil {
		return domain.MatchRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Matches {
		if s.state.Matches[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.MatchRecord{}, domain.ErrNotFound
	}

	s.undo.Push(s.state)
	old := s.state.Matches[idx]

	rec := old
	rec.Date = strings.TrimSpace(p.Date)
	rec.MatchNumber = strings.TrimSpace(p.MatchNumber)
	if rec.MatchNumber == "" {
		rec.MatchNumber = old.MatchNumber
	}
	rec.Format = p.Format
	rec.Raw = p.Raw
	rec.Overs = strings.TrimSpace(p.Overs)
	rec.ManOfMatch = strings.TrimSpace(p.ManOfMatch)
	rec.MOI1 = strings.TrimSpace(p.MOI1)
	rec.MOI2 = strings.TrimSpace(p.MOI2)
	rec.UpdatedAt = s.now()

	d := domain.Derive(rec.Format, rec.Raw)
	if d.Outcome == domain.OutcomeUnresolved && old.Outcome != domain.OutcomeUnresolved {
		rec.Raw = old.Raw
		d = domain.Derive(old.Format, old.Raw)
		rec.Format = old.Format
	}
	applyDerived(&rec, d)

	s.state.Matches[idx] = rec
	s.state.UpdatedAt = rec.UpdatedAt

	if err := s.Matches.UpdateMatch(ctx, rec); err != nil {
		s.markPending("update match", err)
	}
	return rec, nil
}

func (s *SeriesService) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Matches {
		if s.state.Matches[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}

	s.undo.Push(s.state)
	s.state.Matches = append(s.state.Matches[:idx], s.state.Matches[idx+1:]...)
	s.state.UpdatedAt = s.now()

	if err := s.Matches.DeleteMatch(ctx, id); err != nil {
		s.markPending("delete match", err)
	}
	return nil
}

// Undo restores the previous snapshot and mirrors the full state, since
// a restore can touch any number of rows.
func (s *SeriesService) Undo(ctx context.Context) (SeriesState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.undo.Pop()
	if !ok {
		return SeriesState{}, domain.ErrNotFound
	}
	s.state = prev
	s.state.UpdatedAt = s.now()
	s.mirrorAll(ctx, "undo")
	return s.stateLocked(), nil
}

// Sync rewrites the remote mirror from the in-memory state. It is safe
// to call at any time; a clean run clears the pending flag.
func (s *SeriesService) Sync(ctx context.Context) (SeriesState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Matches.ReplaceMatches(ctx, s.state.ID, s.state.Matches); err != nil {
		s.markPending("sync matches", err)
		return s.stateLocked(), err
	}
	if err := s.Series.SaveSeries(ctx, s.state); err != nil {
		s.markPending("sync series", err)
		return s.stateLocked(), err
	}
	s.pending = false
	return s.stateLocked(), nil
}

// Archive snapshots the finished series and starts a fresh one. Unlike
// the other mutations it refuses to touch local state until the
// snapshot has landed remotely.
func (s *SeriesService) Archive(ctx context.Context, confirm bool) (string, error) {
	if !confirm {
		return "", domain.NewValidationError(map[string]string{"confirm": "must be true to archive the series"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	snap := domain.ArchiveSnapshot{
		ID:         s.newID(),
		ArchivedAt: now,
		Series:     s.state.Clone(),
		Standings:  s.state.Standings(),
	}

	id, err := s.Archives.ArchiveSeries(ctx, snap)
	if err != nil {
		s.log().Error("archive failed, series kept", "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrArchiveFailed, err)
	}

	s.state.Matches = nil
	s.state.Awards = domain.SeriesAwards{}
	s.state.UpdatedAt = now
	s.undo.Reset()
	s.mirrorSeries(ctx)
	return id, nil
}

func (s *SeriesService) ListArchives(ctx context.Context) ([]domain.ArchiveSummary, error) {
	return s.Archives.ListArchives(ctx)
}

func (s *SeriesService) GetArchive(ctx context.Context, id string) (domain.ArchiveSnapshot, error) {
	return s.Archives.GetArchive(ctx, id)
}

func (s *SeriesService) mirrorSeries(ctx context.Context) {
	if err := s.Series.SaveSeries(ctx, s.state); err != nil {
		s.markPending("save series", err)
	}
}

func (s *SeriesService) mirrorAll(ctx context.Context, op string) {
	if err := s.Matches.ReplaceMatches(ctx, s.state.ID, s.state.Matches); err != nil {
		s.markPending(op, err)
		return
	}
	if err := s.Series.SaveSeries(ctx, s.state); err != nil {
		s.markPending(op, err)
	}
}

func (s *SeriesService) markPending(op string, err error) {
	s.pending = true
	s.log().Warn("mirror write failed, sync pending", "op", op, "error", err)
}

func applyDerived(rec *domain.MatchRecord, d domain.Derived) {
	rec.SideAScore = d.SideAScore
	rec.SideBScore = d.SideBScore
	rec.Outcome = d.Outcome
	rec.WinMargin = d.WinMargin
	rec.PointsA = d.PointsA
	rec.PointsB = d.PointsB
}

func validateMatchParams(p MatchParams) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Date) == "" {
		fields["match_date"] = "is required"
	}
	if !p.Format.Valid() {
		fields["format"] = "must be single_innings or double_innings"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
