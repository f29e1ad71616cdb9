// Package export renders a series as an xlsx workbook for download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"WiccRecorderwebserver/internal/domain"
)

const sheetName = "WICC"

// WriteWorkbook streams an xlsx report with one row per match followed
// by the standings and awards block.
func WriteWorkbook(w io.Writer, series domain.Series, standings domain.Standings) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: drop default sheet: %w", err)
	}

	header := []any{
		"Match", "Date", "Format",
		series.SideAName, series.SideBName,
		"Overs", "Result", "Margin",
		"Pts " + series.SideAName, "Pts " + series.SideBName,
		"Man of the Match", "MOI " + series.SideAName, "MOI " + series.SideBName,
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}

	row := 2
	for _, m := range series.Matches {
		cells := []any{
			m.MatchNumber, m.Date, formatLabel(m.Format),
			m.SideAScore, m.SideBScore,
			m.Overs, m.ResultText(series.SideAName, series.SideBName), m.WinMargin,
			m.PointsA, m.PointsB,
			m.ManOfMatch, m.MOI1, m.MOI2,
		}
		if err := setRow(f, row, cells); err != nil {
			return err
		}
		row++
	}

	row++
	summary := [][]any{
		{"Standings"},
		{series.SideAName, standings.TotalA},
		{series.SideBName, standings.TotalB},
		{"Leader", standings.Leader},
		{"Target", series.Target},
	}
	if standings.IsCompleted {
		summary = append(summary, []any{"Series Champion", standings.Leader})
	}
	for _, cells := range summary {
		if err := setRow(f, row, cells); err != nil {
			return err
		}
		row++
	}

	awards := awardRows(series.Awards)
	if len(awards) > 0 {
		row++
		if err := setRow(f, row, []any{"Awards"}); err != nil {
			return err
		}
		row++
		for _, cells := range awards {
			if err := setRow(f, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

func awardRows(a domain.SeriesAwards) [][]any {
	var rows [][]any
	add := func(label, name string) {
		if name != "" {
			rows = append(rows, []any{label, name})
		}
	}
	add("Man of the Series", a.ManOfSeries)
	add("MVP", a.MVP)
	add("Most Wickets", a.MostWickets)
	add("Most Runs", a.MostRuns)
	add("Most Catches", a.MostCatches)
	return rows
}

func formatLabel(f domain.MatchFormat) string {
	if f == domain.FormatDoubleInnings {
		return "Double Innings"
	}
	return "Single Innings"
}
