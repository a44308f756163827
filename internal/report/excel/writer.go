// Package excel provides Excel report generation for extracted version records.
// It implements the report.ReportWriter interface to generate .xlsx files
// with the decoded record and where it was found.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fwversion/internal/model"
)

const (
	// Sheet names
	sheetVersion    = "Firmware Version"
	sheetExtraction = "Extraction"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors (RGB without #)
	colorWarningBg = "FFEB9C" // Yellow background for dirty builds
	colorWarningFg = "9C6500" // Dark yellow text for dirty builds
	colorNormalBg  = "C6EFCE" // Green background for clean builds
	colorNormalFg  = "006100" // Dark green text for clean builds
	colorHeaderBg  = "4472C4" // Blue background for labels
	colorHeaderFg  = "FFFFFF" // White text for labels

	labelColWidth = 22.0
	valueColWidth = 48.0
)

// row is a label/value pair written to a two-column sheet.
type row struct {
	label string
	value interface{}
}

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to UTC.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Extension returns the file extension of Excel reports.
func (w *Writer) Extension() string {
	return ".xlsx"
}

// Write generates an Excel report from the extraction result.
func (w *Writer) Write(result *model.ExtractionResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("extraction result is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.createVersionSheet(f, &result.Record); err != nil {
		return fmt.Errorf("failed to create version sheet: %w", err)
	}

	if err := w.createExtractionSheet(f, result); err != nil {
		return fmt.Errorf("failed to create extraction sheet: %w", err)
	}

	// Sheet1 always exists in a new file
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	idx, _ := f.GetSheetIndex(sheetVersion)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createVersionSheet writes every record field as a label/value row.
func (w *Writer) createVersionSheet(f *excelize.File, r *model.VersionRecord) error {
	if _, err := f.NewSheet(sheetVersion); err != nil {
		return err
	}

	dirty := "No"
	if r.IsDirty {
		dirty = "Yes"
	}
	builtAt := ""
	if t := r.BuiltAt(); !t.IsZero() {
		builtAt = t.In(w.timezone).Format("2006-01-02 15:04:05 MST")
	}

	rows := []row{
		{"Version", r.FullVersion()},
		{"Major", int(r.Major)},
		{"Minor", int(r.Minor)},
		{"Patch", int(r.Patch)},
		{"Build Number", int64(r.BuildNumber)},
		{"Board", r.BoardName},
		{"Build Date", r.BuildDate},
		{"Build Time", r.BuildTime},
		{"Build Timestamp", int64(r.BuildTimestamp)},
		{"Built At", builtAt},
		{"Git Branch", r.GitBranch},
		{"Git Commit", r.GitCommit},
		{"Dirty", dirty},
		{"Compiler", r.Compiler},
		{"Magic", fmt.Sprintf("0x%08X", r.Magic)},
		{"CRC32", fmt.Sprintf("0x%08X", r.CRC32)},
	}
	if err := w.writeRows(f, sheetVersion, rows); err != nil {
		return err
	}

	// Highlight the dirty flag
	statusStyle, err := w.createStatusStyle(f, r.IsDirty)
	if err != nil {
		return err
	}
	for i, rw := range rows {
		if rw.label == "Dirty" {
			cell := fmt.Sprintf("B%d", i+1)
			return f.SetCellStyle(sheetVersion, cell, cell, statusStyle)
		}
	}
	return nil
}

// createExtractionSheet writes provenance of the record.
func (w *Writer) createExtractionSheet(f *excelize.File, result *model.ExtractionResult) error {
	if _, err := f.NewSheet(sheetExtraction); err != nil {
		return err
	}

	rows := []row{
		{"Source", result.Source},
		{"Source Size (bytes)", result.SourceSize},
		{"Method", string(result.Method)},
	}
	switch result.Method {
	case model.MethodELFSection:
		rows = append(rows,
			row{"Section", result.SectionName},
			row{"Section Address", fmt.Sprintf("0x%08X", result.SectionAddr)},
		)
	default:
		rows = append(rows,
			row{"Record Offset", fmt.Sprintf("0x%08X", result.Offset)},
			row{"Magic Matches", result.MagicMatches},
			row{"Valid Candidates", result.ValidCandidates},
		)
	}
	rows = append(rows, row{"Extracted At", result.ExtractedAt.In(w.timezone).Format("2006-01-02 15:04:05")})

	return w.writeRows(f, sheetExtraction, rows)
}

// writeRows writes label/value pairs starting at row 1 with styled labels.
func (w *Writer) writeRows(f *excelize.File, sheet string, rows []row) error {
	labelStyle, err := w.createLabelStyle(f)
	if err != nil {
		return err
	}

	f.SetColWidth(sheet, "A", "A", labelColWidth)
	f.SetColWidth(sheet, "B", "B", valueColWidth)

	for i, rw := range rows {
		n := i + 1
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", n), rw.label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", n), rw.value); err != nil {
			return err
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), labelStyle)
	}
	return nil
}

// createLabelStyle creates the style for the label column.
func (w *Writer) createLabelStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Vertical: "center",
		},
	})
}

// createStatusStyle creates the yellow (dirty) or green (clean) value style.
func (w *Writer) createStatusStyle(f *excelize.File, dirty bool) (int, error) {
	bg, fg := colorNormalBg, colorNormalFg
	if dirty {
		bg, fg = colorWarningBg, colorWarningFg
	}
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: fg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{bg},
			Pattern: 1,
		},
	})
}
