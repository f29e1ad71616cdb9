package httpapi

import (
	"net/http"
	"strings"

	"WiccRecorderwebserver/internal/domain"
	"WiccRecorderwebserver/internal/service"
)

type matchRequest struct {
	Date        string `json:"match_date"`
	MatchNumber string `json:"match_number"`
	Format      string `json:"format"`

	SideAScore string `json:"side_a_score"`
	SideBScore string `json:"side_b_score"`
	SideAInn1  string `json:"side_a_inn1"`
	SideAInn2  string `json:"side_a_inn2"`
	SideBInn1  string `json:"side_b_inn1"`
	SideBInn2  string `json:"side_b_inn2"`

	Overs      string `json:"overs"`
	ManOfMatch string `json:"man_of_match"`
	MOI1       string `json:"moi1"`
	MOI2       string `json:"moi2"`
}

func (r matchRequest) params() service.MatchParams {
	return service.MatchParams{
		Date:        r.Date,
		MatchNumber: r.MatchNumber,
		Format:      domain.MatchFormat(strings.TrimSpace(r.Format)),
		Raw: domain.RawScores{
			SideA:     r.SideAScore,
			SideB:     r.SideBScore,
			SideAInn1: r.SideAInn1,
			SideAInn2: r.SideAInn2,
			SideBInn1: r.SideBInn1,
			SideBInn2: r.SideBInn2,
		},
		Overs:      r.Overs,
		ManOfMatch: r.ManOfMatch,
		MOI1:       r.MOI1,
		MOI2:       r.MOI2,
	}
}

func (a *api) handleMatchesCreate(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	rec, err := a.seriesSvc.CommitMatch(r.Context(), req.params())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeMatch(w, http.StatusCreated, rec)
}

func (a *api) handleMatchesUpdate(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	rec, err := a.seriesSvc.UpdateMatch(r.Context(), id, req.params())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	a.writeMatch(w, http.StatusOK, rec)
}

func (a *api) handleMatchesDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	if err := a.seriesSvc.DeleteMatch(r.Context(), id); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) writeMatch(w http.ResponseWriter, status int, rec domain.MatchRecord) {
	st := a.seriesSvc.State()
	WriteJSON(w, status, matchView{
		MatchRecord: rec,
		Result:      rec.ResultText(st.Series.SideAName, st.Series.SideBName),
	})
}
