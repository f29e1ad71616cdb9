package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type MatchFormat string

const (
	FormatSingleInnings MatchFormat = "single_innings"
	FormatDoubleInnings MatchFormat = "double_innings"
)

func (f MatchFormat) Valid() bool {
	return f == FormatSingleInnings || f == FormatDoubleInnings
}

// WinPoints is what a win is worth in this format. Draws are always 1 apiece.
func (f MatchFormat) WinPoints() int {
	if f == FormatDoubleInnings {
		return 3
	}
	return 2
}

// Outcome is the settled result of a match, carried on the record so it is
// never re-derived from display text (team names can change mid-series).
type Outcome string

const (
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeSideA      Outcome = "side_a"
	OutcomeSideB      Outcome = "side_b"
	OutcomeDraw       Outcome = "draw"
)

// PendingResultText is shown for a record whose scores are still blank.
const PendingResultText = "Pending"

// RawScores holds the score fields exactly as the operator typed them.
// Single-innings matches use SideA/SideB; double-innings matches use the
// four per-innings fields.
type RawScores struct {
	SideA string `json:"side_a_score,omitempty"`
	SideB string `json:"side_b_score,omitempty"`

	SideAInn1 string `json:"side_a_inn1,omitempty"`
	SideAInn2 string `json:"side_a_inn2,omitempty"`
	SideBInn1 string `json:"side_b_inn1,omitempty"`
	SideBInn2 string `json:"side_b_inn2,omitempty"`
}

// Derived is everything the deriver computes from one match's raw scores.
type Derived struct {
	SideAScore int
	SideBScore int
	Outcome    Outcome
	WinMargin  string
	PointsA    int
	PointsB    int
}

type MatchRecord struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	MatchNumber string      `json:"match_number"`
	Format      MatchFormat `json:"format"`
	Raw         RawScores   `json:"raw"`
	SideAScore  int         `json:"side_a_score"`
	SideBScore  int         `json:"side_b_score"`
	Overs       string      `json:"overs,omitempty"`
	Outcome     Outcome     `json:"outcome"`
	WinMargin   string      `json:"win_margin,omitempty"`
	PointsA     int         `json:"points_a"`
	PointsB     int         `json:"points_b"`
	ManOfMatch  string      `json:"man_of_match,omitempty"`
	MOI1        string      `json:"moi1,omitempty"`
	MOI2        string      `json:"moi2,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ResultText renders the record's outcome under the series' current side
// names. Historical rows do not snapshot names, so a rename changes how
// every row reads.
func (m MatchRecord) ResultText(sideAName, sideBName string) string {
	return ResultText(m.Outcome, sideAName, sideBName)
}

func ResultText(o Outcome, sideAName, sideBName string) string {
	switch o {
	case OutcomeSideA:
		return fmt.Sprintf("%s Wins", sideAName)
	case OutcomeSideB:
		return fmt.Sprintf("%s Wins", sideBName)
	case OutcomeDraw:
		return "Match Drawn"
	default:
		return PendingResultText
	}
}

// ParseScore reads a score field the way the entry form does: blank or
// malformed text counts as zero, never an error.
func ParseScore(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// Derive computes a match's totals, outcome, win margin and point award from
// its raw scores.
//
// While both totals are zero the match is unresolved: no points, no margin.
// Callers editing an existing record must keep its previous derivation in
// that case rather than wiping a settled result.
//
// In the double-innings format a side that leads on its first innings alone
// has won by an innings, and the margin says so.
func Derive(format MatchFormat, raw RawScores) Derived {
	var d Derived

	switch format {
	case FormatDoubleInnings:
		aInn1 := ParseScore(raw.SideAInn1)
		bInn1 := ParseScore(raw.SideBInn1)
		d.SideAScore = aInn1 + ParseScore(raw.SideAInn2)
		d.SideBScore = bInn1 + ParseScore(raw.SideBInn2)

		switch {
		case d.SideAScore == 0 && d.SideBScore == 0:
			d.Outcome = OutcomeUnresolved
		case d.SideAScore > d.SideBScore:
			d.Outcome = OutcomeSideA
			if aInn1 > d.SideBScore {
				d.WinMargin = fmt.Sprintf("Innings & %d Runs", aInn1-d.SideBScore)
			} else {
				d.WinMargin = fmt.Sprintf("%d Runs", d.SideAScore-d.SideBScore)
			}
		case d.SideBScore > d.SideAScore:
			d.Outcome = OutcomeSideB
			if bInn1 > d.SideAScore {
				d.WinMargin = fmt.Sprintf("Innings & %d Runs", bInn1-d.SideAScore)
			} else {
				d.WinMargin = fmt.Sprintf("%d Runs", d.SideBScore-d.SideAScore)
			}
		default:
			d.Outcome = OutcomeDraw
			d.WinMargin = "Tied"
		}

	default:
		d.SideAScore = ParseScore(raw.SideA)
		d.SideBScore = ParseScore(raw.SideB)

		switch {
		case d.SideAScore == 0 && d.SideBScore == 0:
			d.Outcome = OutcomeUnresolved
		case d.SideAScore > d.SideBScore:
			d.Outcome = OutcomeSideA
			d.WinMargin = fmt.Sprintf("%d Runs", d.SideAScore-d.SideBScore)
		case d.SideBScore > d.SideAScore:
			d.Outcome = OutcomeSideB
			d.WinMargin = fmt.Sprintf("%d Runs", d.SideBScore-d.SideAScore)
		default:
			d.Outcome = OutcomeDraw
			d.WinMargin = "Tied"
		}
	}

	win := format.WinPoints()
	switch d.Outcome {
	case OutcomeSideA:
		d.PointsA = win
	case OutcomeSideB:
		d.PointsB = win
	case OutcomeDraw:
		d.PointsA, d.PointsB = 1, 1
	}

	return d
}
