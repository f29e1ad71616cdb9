package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"WiccRecorderwebserver/internal/export"
	"WiccRecorderwebserver/internal/service"
)

type summaryResponse struct {
	Summary   string `json:"summary"`
	Generated bool   `json:"generated"`
}

func (a *api) handleSummaryGenerate(w http.ResponseWriter, r *http.Request) {
	st := a.seriesSvc.State()
	res := a.summarySvc.Summarize(r.Context(), st.Series, st.Standings)
	WriteJSON(w, http.StatusOK, summaryResponse{Summary: res.Text, Generated: res.Generated})
}

type shareResponse struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

func (a *api) handleSummaryShare(w http.ResponseWriter, r *http.Request) {
	st := a.seriesSvc.State()
	res := a.summarySvc.Summarize(r.Context(), st.Series, st.Standings)
	WriteJSON(w, http.StatusOK, shareResponse{
		Text: service.ShareText(res.Text),
		Link: service.ShareLink(res.Text),
	})
}

func (a *api) handleExport(w http.ResponseWriter, _ *http.Request) {
	st := a.seriesSvc.State()

	name := fmt.Sprintf("WICC_Series_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if err := export.WriteWorkbook(w, st.Series, st.Standings); err != nil {
		a.logger.Error("export failed", "error", err)
	}
}
