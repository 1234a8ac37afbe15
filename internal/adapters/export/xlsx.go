package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/internal/domain/stats"
)

// Sheet names in exported workbooks.
const (
	ShotsSheet   = "Shots"
	SummarySheet = "Summary"
)

// WriteXLSX writes a workbook with a Shots sheet and a Summary sheet built
// from the stats map.
func WriteXLSX(w io.Writer, s *model.Session, summary map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ShotsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeRow(f, ShotsSheet, 1, header()); err != nil {
		return err
	}
	if err := f.SetRowStyle(ShotsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	for i := range s.Shots {
		if err := writeRow(f, ShotsSheet, i+2, shotValues(&s.Shots[i])); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	rows := append([][]any{
		{"Title", s.Title},
		{"Location", s.Location},
		{"Source", s.Source.String()},
		{"Session Date", s.SessionDate.Format("2006-01-02 15:04:05")},
	}, summaryRows(summary)...)
	for i, row := range rows {
		if err := writeRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to size summary: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// shotValues keeps numbers numeric so spreadsheet formulas work on them.
func shotValues(s *model.Shot) []any {
	text := cells(s)
	out := make([]any, len(text))
	for i, f := range model.Fields() {
		switch {
		case f.Numeric() && s.Metric(f) != nil:
			out[i] = *s.Metric(f)
		case f == model.FieldShotNumber && s.ShotNumber != nil:
			out[i] = *s.ShotNumber
		default:
			out[i] = text[i]
		}
	}
	return out
}

func summaryRows(summary map[string]any) [][]any {
	rows := [][]any{
		{"Total Shots", summary[stats.KeyTotalShots]},
		{"Avg Carry Distance", summary[stats.KeyAvgCarryDistance]},
		{"Avg Total Distance", summary[stats.KeyAvgTotalDistance]},
		{"Avg Ball Speed", summary[stats.KeyAvgBallSpeed]},
	}

	counts, _ := summary[stats.KeyClubCounts].(map[string]int)
	perClub, _ := summary[stats.KeyClubStats].(map[string]map[string]float64)
	if len(counts) == 0 {
		return rows
	}

	clubs := make([]string, 0, len(counts))
	for club := range counts {
		clubs = append(clubs, club)
	}
	sort.Strings(clubs)

	rows = append(rows, []any{}, []any{"Club", "Shots", "Avg Carry", "Avg Total", "Avg Ball Speed"})
	for _, club := range clubs {
		c := perClub[club]
		rows = append(rows, []any{club, counts[club], c[stats.KeyAvgCarry], c[stats.KeyAvgTotal], c[stats.KeyAvgBallSpeed]})
	}
	return rows
}
