package domain

import "testing"

func TestParseScorePermissive(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"150", 150},
		{" 42 ", 42},
		{"abc", 0},
		{"12x", 0},
		{"99.7", 99},
	}
	for _, c := range cases {
		if got := ParseScore(c.in); got != c.want {
			t.Fatalf("ParseScore(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDeriveSingleInningsWin(t *testing.T) {
	d := Derive(FormatSingleInnings, RawScores{SideA: "150", SideB: "120"})

	if d.SideAScore != 150 || d.SideBScore != 120 {
		t.Fatalf("unexpected totals: %d / %d", d.SideAScore, d.SideBScore)
	}
	if d.Outcome != OutcomeSideA {
		t.Fatalf("expected side A win, got %q", d.Outcome)
	}
	if d.WinMargin != "30 Runs" {
		t.Fatalf("unexpected margin: %q", d.WinMargin)
	}
	if d.PointsA != 2 || d.PointsB != 0 {
		t.Fatalf("unexpected points: %d / %d", d.PointsA, d.PointsB)
	}
}

func TestDeriveSingleInningsWinnerAlwaysGetsTwo(t *testing.T) {
	pairs := [][2]string{{"1", "0"}, {"10", "250"}, {"300", "299"}, {"0", "7"}}
	for _, p := range pairs {
		d := Derive(FormatSingleInnings, RawScores{SideA: p[0], SideB: p[1]})
		a, b := ParseScore(p[0]), ParseScore(p[1])
		wantA, wantB := 0, 2
		wantOutcome := OutcomeSideB
		if a > b {
			wantA, wantB = 2, 0
			wantOutcome = OutcomeSideA
		}
		if d.PointsA != wantA || d.PointsB != wantB {
			t.Fatalf("%v: points %d/%d, want %d/%d", p, d.PointsA, d.PointsB, wantA, wantB)
		}
		if d.Outcome != wantOutcome {
			t.Fatalf("%v: outcome %q, want %q", p, d.Outcome, wantOutcome)
		}
	}
}

func TestDeriveDraw(t *testing.T) {
	d := Derive(FormatSingleInnings, RawScores{SideA: "88", SideB: "88"})

	if d.Outcome != OutcomeDraw {
		t.Fatalf("expected draw, got %q", d.Outcome)
	}
	if d.WinMargin != "Tied" {
		t.Fatalf("unexpected margin: %q", d.WinMargin)
	}
	if d.PointsA != 1 || d.PointsB != 1 {
		t.Fatalf("unexpected points: %d / %d", d.PointsA, d.PointsB)
	}
}

func TestDeriveBlankScoresUnresolved(t *testing.T) {
	for _, format := range []MatchFormat{FormatSingleInnings, FormatDoubleInnings} {
		d := Derive(format, RawScores{})
		if d.Outcome != OutcomeUnresolved {
			t.Fatalf("%s: expected unresolved, got %q", format, d.Outcome)
		}
		if d.PointsA != 0 || d.PointsB != 0 {
			t.Fatalf("%s: unresolved match awarded points: %d / %d", format, d.PointsA, d.PointsB)
		}
		if d.WinMargin != "" {
			t.Fatalf("%s: unresolved match has margin %q", format, d.WinMargin)
		}
	}
}

func TestDeriveDoubleInningsTotalsAndPoints(t *testing.T) {
	d := Derive(FormatDoubleInnings, RawScores{
		SideAInn1: "120", SideAInn2: "90",
		SideBInn1: "100", SideBInn2: "80",
	})

	if d.SideAScore != 210 || d.SideBScore != 180 {
		t.Fatalf("unexpected totals: %d / %d", d.SideAScore, d.SideBScore)
	}
	if d.Outcome != OutcomeSideA {
		t.Fatalf("expected side A win, got %q", d.Outcome)
	}
	if d.WinMargin != "30 Runs" {
		t.Fatalf("unexpected margin: %q", d.WinMargin)
	}
	if d.PointsA != 3 || d.PointsB != 0 {
		t.Fatalf("double-innings win should be worth 3: %d / %d", d.PointsA, d.PointsB)
	}
}

func TestDeriveInningsVictory(t *testing.T) {
	// A's first innings (200) alone beats B's two-innings total (170).
	d := Derive(FormatDoubleInnings, RawScores{
		SideAInn1: "200", SideAInn2: "0",
		SideBInn1: "90", SideBInn2: "80",
	})

	if d.Outcome != OutcomeSideA {
		t.Fatalf("expected side A win, got %q", d.Outcome)
	}
	if d.WinMargin != "Innings & 30 Runs" {
		t.Fatalf("unexpected margin: %q", d.WinMargin)
	}
}

func TestDeriveInningsVictorySideB(t *testing.T) {
	d := Derive(FormatDoubleInnings, RawScores{
		SideAInn1: "60", SideAInn2: "70",
		SideBInn1: "180", SideBInn2: "10",
	})

	if d.Outcome != OutcomeSideB {
		t.Fatalf("expected side B win, got %q", d.Outcome)
	}
	if d.WinMargin != "Innings & 50 Runs" {
		t.Fatalf("unexpected margin: %q", d.WinMargin)
	}
}

func TestResultTextUsesCurrentNames(t *testing.T) {
	if got := ResultText(OutcomeSideA, "TEAM BLUE", "TEAM ORANGE"); got != "TEAM BLUE Wins" {
		t.Fatalf("unexpected result text: %q", got)
	}
	if got := ResultText(OutcomeSideB, "TEAM BLUE", "TEAM ORANGE"); got != "TEAM ORANGE Wins" {
		t.Fatalf("unexpected result text: %q", got)
	}
	if got := ResultText(OutcomeDraw, "A", "B"); got != "Match Drawn" {
		t.Fatalf("unexpected result text: %q", got)
	}
	if got := ResultText(OutcomeUnresolved, "A", "B"); got != PendingResultText {
		t.Fatalf("unexpected result text: %q", got)
	}
}

func TestResultTextSubstringNamesStayUnambiguous(t *testing.T) {
	// One name containing the other must not confuse the outcome: the tagged
	// outcome decides, not text matching.
	d := Derive(FormatSingleInnings, RawScores{SideA: "50", SideB: "90"})
	if got := ResultText(d.Outcome, "BLUE", "BLUE STARS"); got != "BLUE STARS Wins" {
		t.Fatalf("unexpected result text: %q", got)
	}
}
