package domain

import "time"

// DefaultTarget is the cumulative points total a side must reach to be
// declared series champions.
const DefaultTarget = 10

const LeaderDraw = "DRAW"

type SeriesAwards struct {
	ManOfSeries string `json:"man_of_series,omitempty"`
	MVP         string `json:"mvp,omitempty"`
	MostWickets string `json:"most_wickets,omitempty"`
	MostRuns    string `json:"most_runs,omitempty"`
	MostCatches string `json:"most_catches,omitempty"`
}

// Series is the active series: the two live side labels, their rosters, the
// season-end awards, and the ordered match list. Match order is commit order;
// it matters for undo and for nothing in the aggregation.
type Series struct {
	ID           string        `json:"id"`
	SideAName    string        `json:"side_a_name"`
	SideBName    string        `json:"side_b_name"`
	SideAPlayers []string      `json:"side_a_players,omitempty"`
	SideBPlayers []string      `json:"side_b_players,omitempty"`
	Target       int           `json:"target"`
	Awards       SeriesAwards  `json:"awards"`
	Matches      []MatchRecord `json:"matches"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Clone deep-copies the series so snapshots are safe to keep.
func (s Series) Clone() Series {
	out := s
	out.SideAPlayers = append([]string(nil), s.SideAPlayers...)
	out.SideBPlayers = append([]string(nil), s.SideBPlayers...)
	out.Matches = append([]MatchRecord(nil), s.Matches...)
	return out
}

type Standings struct {
	TotalA      int    `json:"total_a"`
	TotalB      int    `json:"total_b"`
	Leader      string `json:"leader"`
	IsCompleted bool   `json:"is_completed"`
}

// Aggregate sums the committed points and decides the series leader. The sum
// is order-independent. Side A's threshold is checked before side B's, so a
// (theoretically impossible) simultaneous arrival favours side A
// deterministically.
func Aggregate(matches []MatchRecord, sideAName, sideBName string, target int) Standings {
	if target <= 0 {
		target = DefaultTarget
	}

	var st Standings
	for _, m := range matches {
		st.TotalA += m.PointsA
		st.TotalB += m.PointsB
	}

	switch {
	case st.TotalA >= target:
		st.Leader = sideAName
		st.IsCompleted = true
	case st.TotalB >= target:
		st.Leader = sideBName
		st.IsCompleted = true
	case st.TotalA > st.TotalB:
		st.Leader = sideAName
	case st.TotalB > st.TotalA:
		st.Leader = sideBName
	default:
		st.Leader = LeaderDraw
	}

	return st
}

// Standings recomputes the table for the series' current state.
func (s Series) Standings() Standings {
	return Aggregate(s.Matches, s.SideAName, s.SideBName, s.Target)
}

// ArchiveSnapshot is the full state written to history when a series is
// archived and reset.
type ArchiveSnapshot struct {
	ID         string    `json:"id"`
	ArchivedAt time.Time `json:"archived_at"`
	Series     Series    `json:"series"`
	Standings  Standings `json:"standings"`
}

// ArchiveSummary is the listing row for an archived series.
type ArchiveSummary struct {
	ID         string    `json:"id"`
	ArchivedAt time.Time `json:"archived_at"`
	SideAName  string    `json:"side_a_name"`
	SideBName  string    `json:"side_b_name"`
	TotalA     int       `json:"total_a"`
	TotalB     int       `json:"total_b"`
	Champion   string    `json:"champion,omitempty"`
	Matches    int       `json:"matches"`
}
