package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"WiccRecorderwebserver/internal/auth"
	"WiccRecorderwebserver/internal/domain"
	"WiccRecorderwebserver/internal/service"
)

type memSeriesStore struct {
	series domain.Series
	hasRow bool
}

func (s *memSeriesStore) GetSeries(ctx context.Context) (domain.Series, error) {
	if !s.hasRow {
		return domain.Series{}, domain.ErrNotFound
	}
	return s.series, nil
}

func (s *memSeriesStore) SaveSeries(ctx context.Context, ser domain.Series) error {
	s.series = ser
	s.hasRow = true
	return nil
}

type memMatchesStore struct {
	rows []domain.MatchRecord
}

func (s *memMatchesStore) ListMatches(ctx context.Context, seriesID string) ([]domain.MatchRecord, error) {
	return s.rows, nil
}

func (s *memMatchesStore) InsertMatch(ctx context.Context, seriesID string, rec domain.MatchRecord, position int) error {
	s.rows = append(s.rows, rec)
	return nil
}

func (s *memMatchesStore) UpdateMatch(ctx context.Context, rec domain.MatchRecord) error {
	for i := range s.rows {
		if s.rows[i].ID == rec.ID {
			s.rows[i] = rec
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memMatchesStore) DeleteMatch(ctx context.Context, id string) error {
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memMatchesStore) ReplaceMatches(ctx context.Context, seriesID string, matches []domain.MatchRecord) error {
	s.rows = append([]domain.MatchRecord(nil), matches...)
	return nil
}

type memArchivesStore struct {
	snaps []domain.ArchiveSnapshot
}

func (s *memArchivesStore) ArchiveSeries(ctx context.Context, snap domain.ArchiveSnapshot) (string, error) {
	s.snaps = append(s.snaps, snap)
	return snap.ID, nil
}

func (s *memArchivesStore) GetArchive(ctx context.Context, id string) (domain.ArchiveSnapshot, error) {
	for _, snap := range s.snaps {
		if snap.ID == id {
			return snap, nil
		}
	}
	return domain.ArchiveSnapshot{}, domain.ErrNotFound
}

func (s *memArchivesStore) ListArchives(ctx context.Context) ([]domain.ArchiveSummary, error) {
	out := make([]domain.ArchiveSummary, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, domain.ArchiveSummary{ID: snap.ID, ArchivedAt: snap.ArchivedAt})
	}
	return out, nil
}

func newTestRouter(t *testing.T, passcodeHash string) http.Handler {
	t.Helper()

	svc := &service.SeriesService{
		Series:   &memSeriesStore{},
		Matches:  &memMatchesStore{},
		Archives: &memArchivesStore{},
	}
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	return NewRouter(RouterOpts{
		Series:       svc,
		Summary:      &service.SummaryService{},
		CookieCodec:  auth.NewCookieCodec([]byte("0123456789abcdef0123456789abcdef")),
		SessionTTL:   time.Hour,
		PasscodeHash: passcodeHash,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSeriesGet(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodGet, "/v1/series", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}

	var resp stateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Series.Target != domain.DefaultTarget {
		t.Errorf("target = %d", resp.Series.Target)
	}
	if resp.SyncPending {
		t.Error("fresh series must not be sync pending")
	}
	if resp.Standings.Leader != domain.LeaderDraw {
		t.Errorf("leader = %q, want DRAW", resp.Standings.Leader)
	}
}

func TestMatchesCreate(t *testing.T) {
	h := newTestRouter(t, "")

	body := `{"match_date":"2026-05-01","format":"single_innings","side_a_score":"150","side_b_score":"120"}`
	rr := doJSON(t, h, http.MethodPost, "/v1/matches", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}

	var resp matchView
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MatchNumber != "1" {
		t.Errorf("match_number = %q", resp.MatchNumber)
	}
	if resp.Result != "Side A Wins" {
		t.Errorf("result = %q", resp.Result)
	}
	if resp.PointsA != 2 || resp.PointsB != 0 {
		t.Errorf("points = %d/%d", resp.PointsA, resp.PointsB)
	}
}

func TestMatchesCreateBadJSON(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/matches", `{"match_date":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "bad_json" {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestMatchesCreateValidation(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/matches", `{"format":"test_match"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	var resp errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "validation_error" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
	if resp.Error.Fields["match_date"] == "" || resp.Error.Fields["format"] == "" {
		t.Errorf("fields = %v", resp.Error.Fields)
	}
}

func TestMatchesUpdateNotFound(t *testing.T) {
	h := newTestRouter(t, "")

	body := `{"match_date":"2026-05-01","format":"single_innings"}`
	rr := doJSON(t, h, http.MethodPut, "/v1/matches/missing", body)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
}

func TestMatchesDelete(t *testing.T) {
	h := newTestRouter(t, "")

	body := `{"match_date":"2026-05-01","format":"single_innings","side_a_score":"10","side_b_score":"20"}`
	rr := doJSON(t, h, http.MethodPost, "/v1/matches", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}
	var created matchView
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = doJSON(t, h, http.MethodDelete, "/v1/matches/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, body %s", rr.Code, rr.Body)
	}

	rr = doJSON(t, h, http.MethodDelete, "/v1/matches/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rr.Code)
	}
}

func TestSeriesTeamsRenameRelabelsResults(t *testing.T) {
	h := newTestRouter(t, "")

	body := `{"match_date":"2026-05-01","format":"single_innings","side_a_score":"150","side_b_score":"120"}`
	if rr := doJSON(t, h, http.MethodPost, "/v1/matches", body); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr := doJSON(t, h, http.MethodPut, "/v1/series/teams", `{"side_a_name":"Titans","side_b_name":"Strikers"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("rename status = %d, body %s", rr.Code, rr.Body)
	}

	var resp stateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].Result != "Titans Wins" {
		t.Fatalf("matches = %+v, want relabelled result", resp.Matches)
	}
}

func TestSeriesUndoRoute(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/series/undo", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("undo with no history status = %d", rr.Code)
	}

	body := `{"match_date":"2026-05-01","format":"single_innings","side_a_score":"150","side_b_score":"120"}`
	if rr := doJSON(t, h, http.MethodPost, "/v1/matches", body); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/series/undo", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("undo status = %d, body %s", rr.Code, rr.Body)
	}
	var resp stateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Matches) != 0 {
		t.Errorf("matches after undo = %d, want 0", len(resp.Matches))
	}
}

func TestSeriesSyncRoute(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/series/sync", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body %s", rr.Code, rr.Body)
	}
}

func TestSeriesArchive(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/series/archive", `{"confirm":false}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed archive status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/series/archive", `{"confirm":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("archive status = %d, body %s", rr.Code, rr.Body)
	}
	var resp archiveResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ArchiveID == "" {
		t.Fatal("expected an archive id")
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/archives", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("archives status = %d", rr.Code)
	}
	var archives []domain.ArchiveSummary
	if err := json.NewDecoder(rr.Body).Decode(&archives); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("archives = %d, want 1", len(archives))
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/archives/"+archives[0].ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("archive get status = %d, body %s", rr.Code, rr.Body)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "WICC_Archive_") {
		t.Errorf("content-disposition = %q", cd)
	}
	var snap domain.ArchiveSnapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.ID != archives[0].ID {
		t.Errorf("snapshot id = %q, want %q", snap.ID, archives[0].ID)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/archives/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing archive status = %d", rr.Code)
	}
}

func TestSummaryFallback(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodPost, "/v1/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rr.Code, rr.Body)
	}
	var resp summaryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Generated {
		t.Error("no generator configured, summary must be the fallback")
	}
	if resp.Summary == "" {
		t.Error("summary text must not be empty")
	}
}

func TestSummaryShareLink(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodGet, "/v1/summary/share", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("share status = %d", rr.Code)
	}
	var resp shareResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.Link, "https://wa.me/?text=") {
		t.Errorf("link = %q", resp.Link)
	}
	if !strings.Contains(resp.Text, "WICC SERIES BRIEFING") {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestExportRoute(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodGet, "/v1/export", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("content-type = %q", ct)
	}
	if rr.Body.Len() == 0 {
		t.Error("expected workbook bytes")
	}
}

func TestAuthRequiredWhenPasscodeConfigured(t *testing.T) {
	hash, err := auth.HashPasscode("opening-day")
	if err != nil {
		t.Fatalf("HashPasscode: %v", err)
	}
	h := newTestRouter(t, hash)

	rr := doJSON(t, h, http.MethodGet, "/v1/series", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/login", `{"passcode":"wrong"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad passcode status = %d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/auth/login", `{"passcode":"opening-day"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body)
	}
	cookies := rr.Result().Cookies()
	var session *http.Cookie
	for _, c := range cookies {
		if c.Name == auth.SessionCookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/series", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestAuthOpenModeSkipsCookie(t *testing.T) {
	h := newTestRouter(t, "")

	if rr := doJSON(t, h, http.MethodGet, "/v1/series", ""); rr.Code != http.StatusOK {
		t.Fatalf("open mode status = %d", rr.Code)
	}
}

func TestUnknownV1RouteIsJSON404(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodGet, "/v1/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp errorEnvelope
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "not_found" {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, "")

	rr := doJSON(t, h, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Body.String(); got != "ok" {
		t.Errorf("body = %q", got)
	}
}
