package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"fwversion/internal/model"
)

func newTestResult(method model.ExtractionMethod) *model.ExtractionResult {
	return &model.ExtractionResult{
		Record: model.VersionRecord{
			Magic:          0x46574556,
			Version:        "v1.4.12",
			Major:          1,
			Minor:          4,
			Patch:          12,
			BuildNumber:    318,
			GitCommit:      "a1b2c3d4e5f60718293a4b5c6d7e8f9012345678",
			GitBranch:      "main",
			IsDirty:        true,
			BuildDate:      "2025-03-14",
			BuildTime:      "09:26:53",
			BuildTimestamp: 1741944413,
			Compiler:       "GCC 13.2.1",
			BoardName:      "stm32f407zg",
			CRC32:          0xDEADBEEF,
		},
		Source:          "build/app.bin",
		Method:          method,
		Offset:          0x1C00,
		SectionName:     ".version",
		SectionAddr:     0x08010000,
		SourceSize:      8192,
		MagicMatches:    2,
		ValidCandidates: 1,
		ExtractedAt:     time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC),
	}
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		name     string
		timezone *time.Location
		wantTZ   string
	}{
		{
			name:     "nil timezone defaults to UTC",
			timezone: nil,
			wantTZ:   "UTC",
		},
		{
			name:     "custom timezone",
			timezone: time.FixedZone("CST", 8*3600),
			wantTZ:   "CST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(tt.timezone)
			if w == nil {
				t.Fatal("NewWriter returned nil")
			}
			if w.timezone.String() != tt.wantTZ {
				t.Errorf("timezone = %v, want %v", w.timezone.String(), tt.wantTZ)
			}
		})
	}
}

func TestWriter_FormatAndExtension(t *testing.T) {
	w := NewWriter(nil)
	if got := w.Format(); got != "excel" {
		t.Errorf("Format() = %v, want %v", got, "excel")
	}
	if got := w.Extension(); got != ".xlsx" {
		t.Errorf("Extension() = %v, want %v", got, ".xlsx")
	}
}

func TestWriter_Write_NilResult(t *testing.T) {
	w := NewWriter(nil)
	if err := w.Write(nil, filepath.Join(t.TempDir(), "report.xlsx")); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestWriter_Write_RawScan(t *testing.T) {
	w := NewWriter(time.UTC)
	outputPath := filepath.Join(t.TempDir(), "report.xlsx")

	if err := w.Write(newTestResult(model.MethodRawScan), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(outputPath)
	if err != nil {
		t.Fatalf("failed to open generated file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != sheetVersion || sheets[1] != sheetExtraction {
		t.Errorf("sheets = %v, want [%s %s]", sheets, sheetVersion, sheetExtraction)
	}

	checks := map[string]string{
		"A1":  "Version",
		"B1":  "v1.4.12+build.318.a1b2c3d-dirty",
		"B6":  "stm32f407zg",
		"B10": "2025-03-14 09:26:53 UTC",
		"B13": "Yes",
		"B15": "0x46574556",
		"B16": "0xDEADBEEF",
	}
	for cell, want := range checks {
		got, _ := f.GetCellValue(sheetVersion, cell)
		if got != want {
			t.Errorf("%s!%s = %q, want %q", sheetVersion, cell, got, want)
		}
	}

	method, _ := f.GetCellValue(sheetExtraction, "B3")
	if method != "raw-scan" {
		t.Errorf("method = %q, want raw-scan", method)
	}
	offset, _ := f.GetCellValue(sheetExtraction, "B4")
	if offset != "0x00001C00" {
		t.Errorf("offset = %q, want 0x00001C00", offset)
	}
}

func TestWriter_Write_ELFSection(t *testing.T) {
	w := NewWriter(time.UTC)
	outputPath := filepath.Join(t.TempDir(), "report.xlsx")

	if err := w.Write(newTestResult(model.MethodELFSection), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(outputPath)
	if err != nil {
		t.Fatalf("failed to open generated file: %v", err)
	}
	defer f.Close()

	label, _ := f.GetCellValue(sheetExtraction, "A4")
	value, _ := f.GetCellValue(sheetExtraction, "B4")
	if label != "Section" || value != ".version" {
		t.Errorf("row 4 = %q/%q, want Section/.version", label, value)
	}
	addr, _ := f.GetCellValue(sheetExtraction, "B5")
	if addr != "0x08010000" {
		t.Errorf("section address = %q, want 0x08010000", addr)
	}
}

func TestWriter_Write_AppendsExtension(t *testing.T) {
	w := NewWriter(nil)
	base := filepath.Join(t.TempDir(), "report")

	if err := w.Write(newTestResult(model.MethodRawScan), base); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(base + ".xlsx"); err != nil {
		t.Errorf("expected %s.xlsx to exist: %v", base, err)
	}
}
