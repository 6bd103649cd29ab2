// internal/export/excel.go

// Package export renders the stored ranking as an xlsx workbook for the selection committee.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"faculty-ranking-workers/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	rankingSheet   = "Ranking"
	breakdownSheet = "Breakdown"
)

// Report is everything the workbook shows. Breakdowns is keyed by application id.
type Report struct {
	Ranked             []models.RankedApplication
	Breakdowns         map[string][]models.CriterionScore
	Criteria           []string
	ShortlistThreshold float64
	GeneratedAt        time.Time
}

// ExportToExcel writes the report to outputPath, appending .xlsx when missing, and returns
// the path actually written.
func ExportToExcel(r Report, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := Build(r)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return outputPath, nil
}

// Build lays out the workbook in memory.
func Build(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", rankingSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		f.Close()
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRanking(f, r, styles); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write ranking sheet: %w", err)
	}
	if err := writeBreakdown(f, r, styles); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write breakdown sheet: %w", err)
	}
	return f, nil
}

type styleSet struct {
	header      int
	shortlisted int
	plain       int
}

func newStyles(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s styleSet
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.shortlisted, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.plain, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return s, err
	}
	return s, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cell(i+1, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRanking(f *excelize.File, r Report, s styleSet) error {
	headers := []string{"Rank", "Candidate", "Department", "Position", "University", "Composite Score", "Papers", "Status"}
	if err := writeHeader(f, rankingSheet, headers, s.header); err != nil {
		return err
	}
	_ = f.SetColWidth(rankingSheet, "B", "E", 28)

	for i, a := range r.Ranked {
		row := i + 2
		values := []interface{}{deref(a.Rank), a.FullName, a.Department, a.Position, a.University, derefScore(a.Score), a.PaperCount, a.Status}
		if err := f.SetSheetRow(rankingSheet, cell(1, row), &values); err != nil {
			return err
		}

		style := s.plain
		if a.Score != nil && *a.Score >= r.ShortlistThreshold {
			style = s.shortlisted
		}
		if err := f.SetCellStyle(rankingSheet, cell(1, row), cell(len(headers), row), style); err != nil {
			return err
		}
	}

	if len(r.Ranked) > 0 {
		if err := f.AutoFilter(rankingSheet, fmt.Sprintf("A1:%s", cell(len(headers), len(r.Ranked)+1)), nil); err != nil {
			return err
		}
	}

	footer := len(r.Ranked) + 3
	_ = f.SetCellValue(rankingSheet, cell(1, footer), "Generated")
	return f.SetCellValue(rankingSheet, cell(2, footer), r.GeneratedAt.UTC().Format(time.RFC3339))
}

// writeBreakdown puts one row per candidate and one column per criterion, in ranking order.
func writeBreakdown(f *excelize.File, r Report, s styleSet) error {
	headers := append([]string{"Rank", "Candidate"}, r.Criteria...)
	if err := writeHeader(f, breakdownSheet, headers, s.header); err != nil {
		return err
	}

	for i, a := range r.Ranked {
		row := i + 2
		byName := make(map[string]float64, len(r.Criteria))
		for _, cs := range r.Breakdowns[a.ID] {
			byName[cs.Criterion] = cs.Score
		}

		values := []interface{}{deref(a.Rank), a.FullName}
		for _, c := range r.Criteria {
			if v, ok := byName[c]; ok {
				values = append(values, v)
			} else {
				values = append(values, "")
			}
		}
		if err := f.SetSheetRow(breakdownSheet, cell(1, row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(breakdownSheet, cell(1, row), cell(len(headers), row), s.plain); err != nil {
			return err
		}
	}
	return nil
}

func deref(p *int) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func derefScore(p *float64) interface{} {
	if p == nil {
		return ""
	}
	return *p
}
