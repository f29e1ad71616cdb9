package httpapi

import (
	"net/http"
	"strings"

	"WiccRecorderwebserver/internal/domain"
	"WiccRecorderwebserver/internal/service"
)

type matchView struct {
	domain.MatchRecord
	Result string `json:"result"`
}

type stateResponse struct {
	Series      domain.Series    `json:"series"`
	Matches     []matchView      `json:"matches"`
	Standings   domain.Standings `json:"standings"`
	SyncPending bool             `json:"sync_pending"`
	UndoDepth   int              `json:"undo_depth"`
}

// Result text is rendered per response from the current side names, so
// a rename retroactively relabels every row.
func toStateResponse(st service.SeriesState) stateResponse {
	views := make([]matchView, 0, len(st.Series.Matches))
	for _, m := range st.Series.Matches {
		views = append(views, matchView{
			MatchRecord: m,
			Result:      m.ResultText(st.Series.SideAName, st.Series.SideBName),
		})
	}
	series := st.Series
	series.Matches = nil
	return stateResponse{
		Series:      series,
		Matches:     views,
		Standings:   st.Standings,
		SyncPending: st.SyncPending,
		UndoDepth:   st.UndoDepth,
	}
}

func (a *api) writeState(w http.ResponseWriter, status int, st service.SeriesState) {
	WriteJSON(w, status, toStateResponse(st))
}

func (a *api) handleSeriesGet(w http.ResponseWriter, _ *http.Request) {
	a.writeState(w, http.StatusOK, a.seriesSvc.State())
}

type teamsRequest struct {
	SideAName string `json:"side_a_name"`
	SideBName string `json:"side_b_name"`
}

func (a *api) handleSeriesTeams(w http.ResponseWriter, r *http.Request) {
	var req teamsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	st, err := a.seriesSvc.RenameTeams(r.Context(), req.SideAName, req.SideBName)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeState(w, http.StatusOK, st)
}

type playersRequest struct {
	SideAPlayers []string `json:"side_a_players"`
	SideBPlayers []string `json:"side_b_players"`
}

func (a *api) handleSeriesPlayers(w http.ResponseWriter, r *http.Request) {
	var req playersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	st, err := a.seriesSvc.UpdatePlayers(r.Context(), req.SideAPlayers, req.SideBPlayers)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeState(w, http.StatusOK, st)
}

func (a *api) handleSeriesAwards(w http.ResponseWriter, r *http.Request) {
	var req domain.SeriesAwards
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	st, err := a.seriesSvc.UpdateAwards(r.Context(), req)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeState(w, http.StatusOK, st)
}

func (a *api) handleSeriesUndo(w http.ResponseWriter, r *http.Request) {
	st, err := a.seriesSvc.Undo(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeState(w, http.StatusOK, st)
}

func (a *api) handleSeriesSync(w http.ResponseWriter, r *http.Request) {
	st, err := a.seriesSvc.Sync(r.Context())
	if err != nil {
		// The caller retries; the state body says pending either way.
		WriteJSON(w, http.StatusBadGateway, toStateResponse(st))
		return
	}
	a.writeState(w, http.StatusOK, st)
}

type archiveRequest struct {
	Confirm bool `json:"confirm"`
}

type archiveResponse struct {
	ArchiveID string `json:"archive_id"`
}

func (a *api) handleSeriesArchive(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	id, err := a.seriesSvc.Archive(r.Context(), req.Confirm)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, archiveResponse{ArchiveID: id})
}

// handleArchiveGet serves the full stored snapshot as a JSON download,
// named the way the reference app named its archive exports.
func (a *api) handleArchiveGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	snap, err := a.seriesSvc.GetArchive(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	name := "WICC_Archive_" + snap.ArchivedAt.UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	WriteJSON(w, http.StatusOK, snap)
}

func (a *api) handleArchivesList(w http.ResponseWriter, r *http.Request) {
	archives, err := a.seriesSvc.ListArchives(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if archives == nil {
		archives = []domain.ArchiveSummary{}
	}
	WriteJSON(w, http.StatusOK, archives)
}
