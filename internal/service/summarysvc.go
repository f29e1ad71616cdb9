package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"WiccRecorderwebserver/internal/domain"
)

// Generator produces a series briefing from a system instruction and a
// prompt. The Gemini client implements it; tests stub it.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

const summarySystemInstruction = `You are a Cricket Match Summary Assistant for WICC.
Your job is to generate a simplified, high-impact Series Report.

STRICT OUTPUT STRUCTURE:
1. SERIES CHAMPIONS: [Winning Team Name] ([Total Series Points] pts)
   - Mention that they were the first to reach the target of 10 points.
2. FINAL STANDINGS:
   - [Team A Name]: [Total Points]
   - [Team B Name]: [Total Points]
3. ELITE ACCOLADES:
   - MAN OF THE SERIES: [Name]
   - MVP: [Name]
   - MOST WICKETS: [Name]
   - MOST RUNS: [Name]
   - MOST CATCHES: [Name]
4. TOURNAMENT STATUS: [Brief summary of how the victory was clinched]

TONE: Celebratory, Professional, Tournament-level.
CLOSING LINE: "WICC Match Summary Recorded Successfully"`

type SummaryService struct {
	Gen    Generator
	Logger *slog.Logger
}

// SummaryResult carries the briefing text and whether it came from the
// generator or the local fallback.
type SummaryResult struct {
	Text      string
	Generated bool
}

// Summarize builds the series briefing. Any generator failure falls
// back to a locally composed report so the endpoint never errors on an
// upstream outage.
func (s *SummaryService) Summarize(ctx context.Context, series domain.Series, standings domain.Standings) SummaryResult {
	prompt := buildPrompt(series, standings)

	if s.Gen != nil {
		text, err := s.Gen.Generate(ctx, summarySystemInstruction, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return SummaryResult{Text: strings.TrimSpace(text), Generated: true}
		}
		if err != nil && s.Logger != nil {
			s.Logger.Warn("summary generation failed, using fallback", "error", err)
		}
	}

	return SummaryResult{Text: fallbackBriefing(series, standings)}
}

// ShareText wraps a briefing in the share banner used by the WhatsApp
// link.
func ShareText(summary string) string {
	return fmt.Sprintf("🏆 WICC SERIES BRIEFING 🏏\n\n%s\n\nWICC Match Summary Recorded Successfully ✨", summary)
}

// ShareLink returns a wa.me URL that opens a prefilled message.
func ShareLink(summary string) string {
	return "https://wa.me/?text=" + url.QueryEscape(ShareText(summary))
}

func buildPrompt(series domain.Series, st domain.Standings) string {
	winner := st.Leader
	if !st.IsCompleted {
		winner = "SERIES IN PROGRESS"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SERIES DATA FOR REPORT:\n")
	fmt.Fprintf(&b, "Team A: %s | Points: %d\n", series.SideAName, st.TotalA)
	fmt.Fprintf(&b, "Team B: %s | Points: %d\n", series.SideBName, st.TotalB)
	fmt.Fprintf(&b, "Declared Winner: %s\n", winner)
	fmt.Fprintf(&b, "Target Score: %d Points\n\n", series.Target)
	fmt.Fprintf(&b, "END OF SERIES AWARDS:\n")
	fmt.Fprintf(&b, "- Man of Series: %s\n", series.Awards.ManOfSeries)
	fmt.Fprintf(&b, "- MVP: %s\n", series.Awards.MVP)
	fmt.Fprintf(&b, "- Most Runs: %s\n", series.Awards.MostRuns)
	fmt.Fprintf(&b, "- Most Wickets: %s\n", series.Awards.MostWickets)
	fmt.Fprintf(&b, "- Most Catches: %s\n\n", series.Awards.MostCatches)
	fmt.Fprintf(&b, "MATCHES PLAYED: %d\n", len(series.Matches))
	for _, m := range series.Matches {
		fmt.Fprintf(&b, "- Match %s (%s): %s %d vs %s %d, %s\n",
			m.MatchNumber, m.Date,
			series.SideAName, m.SideAScore,
			series.SideBName, m.SideBScore,
			m.ResultText(series.SideAName, series.SideBName))
	}
	return b.String()
}

func fallbackBriefing(series domain.Series, st domain.Standings) string {
	var b strings.Builder

	if st.IsCompleted {
		fmt.Fprintf(&b, "SERIES CHAMPIONS: %s (%d pts), first to the %d point target.\n\n",
			st.Leader, max(st.TotalA, st.TotalB), series.Target)
	} else {
		fmt.Fprintf(&b, "SERIES IN PROGRESS. Current leader: %s.\n\n", st.Leader)
	}

	fmt.Fprintf(&b, "FINAL STANDINGS:\n- %s: %d\n- %s: %d\n",
		series.SideAName, st.TotalA, series.SideBName, st.TotalB)

	awards := series.Awards
	if awards != (domain.SeriesAwards{}) {
		b.WriteString("\nELITE ACCOLADES:\n")
		writeAward(&b, "MAN OF THE SERIES", awards.ManOfSeries)
		writeAward(&b, "MVP", awards.MVP)
		writeAward(&b, "MOST WICKETS", awards.MostWickets)
		writeAward(&b, "MOST RUNS", awards.MostRuns)
		writeAward(&b, "MOST CATCHES", awards.MostCatches)
	}

	fmt.Fprintf(&b, "\nMatches recorded: %d.", len(series.Matches))
	return b.String()
}

func writeAward(b *strings.Builder, label, name string) {
	if name == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, name)
}
