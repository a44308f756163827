//go:build ignore
// +build ignore

// This script generates a sample firmware image and its Excel report for manual verification.
// Run with: go run scripts/gen_sample.go
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"fwversion/internal/firmware"
	"fwversion/internal/model"
	"fwversion/internal/report/excel"
)

const (
	imagePath  = "sample_firmware.bin"
	reportPath = "sample_version_report.xlsx"
	imageSize  = 64 << 10
	// Record placed after a fake vector table and code
	recordOffset = 0x2400
)

func main() {
	record := createSampleRecord()

	image := bytes.Repeat([]byte{0xFF}, imageSize)
	copy(image[recordOffset:], firmware.Encode(record))

	// A stray magic without a plausible record, the scanner must skip it
	copy(image[0x400:], firmware.Encode(model.VersionRecord{Magic: firmware.Magic}))

	if err := os.WriteFile(imagePath, image, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing firmware image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Firmware image generated: %s (%d bytes)\n", imagePath, len(image))

	record.Version = model.FormatVersion(record.Major, record.Minor, record.Patch)
	result := &model.ExtractionResult{
		Record:          record,
		Source:          imagePath,
		Method:          model.MethodRawScan,
		Offset:          recordOffset,
		SourceSize:      len(image),
		MagicMatches:    2,
		ValidCandidates: 1,
		ExtractedAt:     time.Now(),
	}

	if err := excel.NewWriter(time.UTC).Write(result, reportPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Excel report generated: %s\n", reportPath)
	fmt.Println("\nVerify with:")
	fmt.Printf("  go run ./cmd/fwversion %s\n", imagePath)
	fmt.Println("  go run scripts/read_excel.go")
}

func createSampleRecord() model.VersionRecord {
	built := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return model.VersionRecord{
		Magic:          firmware.Magic,
		Major:          1,
		Minor:          4,
		Patch:          12,
		BuildNumber:    318,
		GitCommit:      "a1b2c3d4e5f60718293a4b5c6d7e8f9012345678",
		GitBranch:      "main",
		IsDirty:        true,
		BuildDate:      built.Format("2006-01-02"),
		BuildTime:      built.Format("15:04:05"),
		BuildTimestamp: uint32(built.Unix()),
		Compiler:       "GCC 13.2.1 20231009",
		BoardName:      "stm32f407zg",
		CRC32:          0xDEADBEEF,
	}
}
