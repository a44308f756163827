// Package report provides report export functionality for extracted version records.
// It defines the ReportWriter interface and provides implementations for
// different file formats including Excel and HTML.
package report

import (
	"fwversion/internal/model"
)

// ReportWriter defines the interface for exporting an extraction result to a file.
type ReportWriter interface {
	// Write generates a report from the extraction result and saves it
	// to the specified output path. The writer's extension is appended
	// when the path lacks it.
	//
	// Returns an error if the report generation or file writing fails.
	Write(result *model.ExtractionResult, outputPath string) error

	// Format returns the format identifier for this writer.
	// Common values are "excel" and "html".
	Format() string

	// Extension returns the file extension the writer produces, with the dot.
	Extension() string
}
