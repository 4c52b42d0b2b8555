package formatters

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"resumescan/internal/analyzer"
)

const (
	summarySheet  = "Summary"
	rankingSheet  = "Ranked Candidates"
	detailSheet   = "Detailed Analysis"
	headerFill    = "4472C4"
	highRowFill   = "C6EFCE"
	mediumRowFill = "FFEB9C"
	lowRowFill    = "FFC7CE"
)

// XLSXFormatter builds an Excel workbook with a summary, a ranking and a
// per-candidate detail sheet. The returned string holds the raw workbook bytes.
type XLSXFormatter struct{}

func (xf *XLSXFormatter) Format(data any) (string, error) {
	report, jobDescription, err := reportOf(data)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", err
	}
	for _, name := range []string{rankingSheet, detailSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", err
		}
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return "", err
	}
	if err := writeSummarySheet(f, styles, report, jobDescription); err != nil {
		return "", fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeRankingSheet(f, styles, report.Results); err != nil {
		return "", fmt.Errorf("ranking sheet: %w", err)
	}
	if err := writeDetailSheet(f, styles, report.Results); err != nil {
		return "", fmt.Errorf("detail sheet: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (xf *XLSXFormatter) SupportedType() string {
	return TypeBatchReport
}

type sheetStyles struct {
	header int
	label  int
	high   int
	medium int
	low    int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      fill(headerFill),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.high, err = f.NewStyle(&excelize.Style{Fill: fill(highRowFill), Border: border}); err != nil {
		return s, err
	}
	if s.medium, err = f.NewStyle(&excelize.Style{Fill: fill(mediumRowFill), Border: border}); err != nil {
		return s, err
	}
	s.low, err = f.NewStyle(&excelize.Style{Fill: fill(lowRowFill), Border: border})
	return s, err
}

// rowStyle colours a ranking row by relevance band.
func (s sheetStyles) rowStyle(relevance float64) int {
	switch analyzer.RelevanceBand(relevance) {
	case "strong":
		return s.high
	case "moderate":
		return s.medium
	default:
		return s.low
	}
}

func writeSummarySheet(f *excelize.File, styles sheetStyles, report *analyzer.BatchReport, jobDescription string) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 60); err != nil {
		return err
	}

	if err := f.SetCellValue(summarySheet, "A1", "Resume Analysis Report"); err != nil {
		return err
	}
	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", styles.header); err != nil {
		return err
	}

	industry := report.Industry
	if report.IndustryDetected {
		industry += " (detected)"
	}
	rows := [][2]any{
		{"Batch ID:", report.ID},
		{"Generated:", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Industry:", industry},
		{"Required Experience:", analyzer.ExperienceLabel(report.ExperienceLevel)},
		{"Job Description:", jobDescription},
		{"", ""},
		{"Resumes Analyzed:", report.Stats.TotalResumes},
		{"Resumes Skipped:", len(report.Skipped)},
		{"Average Score:", report.Stats.AvgScore},
		{"Average Relevance %:", report.Stats.AvgRelevance},
		{"High Relevance (70%+):", report.Stats.HighRelevance},
		{"With Technical Skills:", report.Stats.WithTechnicalSkills},
		{"With Soft Skills:", report.Stats.WithSoftSkills},
		{"With Certifications:", report.Stats.WithCertifications},
	}
	for i, pair := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(summarySheet, label, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, label, label, styles.label); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), pair[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeRankingSheet(f *excelize.File, styles sheetStyles, results []*analyzer.Result) error {
	headers := []any{"Rank", "Candidate", "Email", "Phone", "Score", "Relevance %", "Experience", "JD Matches"}
	widths := []float64{8, 28, 30, 16, 10, 13, 16, 12}
	if err := writeHeader(f, rankingSheet, styles.header, headers, widths); err != nil {
		return err
	}

	for i, r := range results {
		row := i + 2
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(headers), row)
		values := []any{i + 1, r.Name, r.Email, r.Phone, r.Score, r.RelevanceScore, r.ExperienceLabel, r.JDSkillMatches}
		if err := f.SetSheetRow(rankingSheet, start, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(rankingSheet, start, end, styles.rowStyle(r.RelevanceScore)); err != nil {
			return err
		}
	}
	return nil
}

func writeDetailSheet(f *excelize.File, styles sheetStyles, results []*analyzer.Result) error {
	headers := []any{"Candidate", "Technical Skills", "Soft Skills", "Certifications",
		"Missing Skills", "Estimated Salary", "Culture Fit", "Summary"}
	widths := []float64{28, 40, 30, 30, 40, 16, 14, 80}
	if err := writeHeader(f, detailSheet, styles.header, headers, widths); err != nil {
		return err
	}

	for i, r := range results {
		missing := "N/A"
		if r.GapAnalysis != nil {
			missing = joinSkills(r.GapAnalysis.All(), "; ")
		}
		values := []any{
			r.Name,
			joinSkills(r.FoundSkills.Technical, "; "),
			joinSkills(r.FoundSkills.Soft, "; "),
			joinSkills(r.FoundSkills.Certifications, "; "),
			missing,
			notAvailable(r.SalaryEstimate),
			notAvailable(r.CultureMatch),
			r.Summary,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(detailSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers []any, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", end, style)
}
