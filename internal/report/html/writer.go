// Package html provides HTML report generation for extracted version records.
// It implements the report.ReportWriter interface to generate .html files
// with the decoded record and the details of where it was found.
package html

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fwversion/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Writer implements report.ReportWriter for HTML format.
type Writer struct {
	timezone     *time.Location
	templatePath string // User-defined template path (optional)
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title       string
	Version     string
	Dirty       bool
	Fields      []*FieldData
	Extraction  []*FieldData
	Record      model.VersionRecord
	GeneratedAt string
}

// FieldData is a single label/value row in the report.
type FieldData struct {
	Label string
	Value string
	Class string
	Mono  bool
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to UTC.
// If templatePath is empty, the embedded default template will be used.
func NewWriter(timezone *time.Location, templatePath string) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone:     timezone,
		templatePath: templatePath,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Extension returns the file extension of HTML reports.
func (w *Writer) Extension() string {
	return ".html"
}

// Write generates an HTML report from the extraction result.
func (w *Writer) Write(result *model.ExtractionResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("extraction result is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	data := w.prepareTemplateData(result)

	// Render fully before touching the output path.
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// loadTemplate loads the HTML template.
// It first tries to load a user-defined template, then falls back to the embedded default.
func (w *Writer) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"hex32":      hex32,
		"dirtyText":  dirtyText,
		"dirtyClass": dirtyClass,
	}

	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).Funcs(funcMap).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
		// User template not found, fall through to default
	}

	tmpl, err := template.New("default.html").Funcs(funcMap).ParseFS(embeddedTemplates, "templates/default.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// prepareTemplateData converts an ExtractionResult to TemplateData.
func (w *Writer) prepareTemplateData(result *model.ExtractionResult) *TemplateData {
	r := result.Record

	builtAt := ""
	if t := r.BuiltAt(); !t.IsZero() {
		builtAt = t.In(w.timezone).Format("2006-01-02 15:04:05 MST")
	}

	fields := []*FieldData{
		{Label: "Version", Value: r.FullVersion()},
		{Label: "Board", Value: r.BoardName},
		{Label: "Build Number", Value: fmt.Sprintf("%d", r.BuildNumber)},
		{Label: "Build Date", Value: strings.TrimSpace(r.BuildDate + " " + r.BuildTime)},
		{Label: "Built At", Value: builtAt},
		{Label: "Git Branch", Value: r.GitBranch},
		{Label: "Git Commit", Value: r.GitCommit, Mono: true},
		{Label: "Dirty", Value: dirtyText(r.IsDirty), Class: dirtyClass(r.IsDirty)},
		{Label: "Compiler", Value: r.Compiler},
		{Label: "Magic", Value: hex32(r.Magic), Mono: true},
		{Label: "CRC32", Value: hex32(r.CRC32), Mono: true},
	}

	extraction := []*FieldData{
		{Label: "Source", Value: result.Source, Mono: true},
		{Label: "Source Size", Value: fmt.Sprintf("%d bytes", result.SourceSize)},
		{Label: "Method", Value: string(result.Method)},
	}
	if result.Method == model.MethodELFSection {
		extraction = append(extraction,
			&FieldData{Label: "Section", Value: result.SectionName, Mono: true},
			&FieldData{Label: "Section Address", Value: hex32(result.SectionAddr), Mono: true},
		)
	} else {
		extraction = append(extraction,
			&FieldData{Label: "Record Offset", Value: hex32(result.Offset), Mono: true},
			&FieldData{Label: "Magic Matches", Value: fmt.Sprintf("%d", result.MagicMatches)},
			&FieldData{Label: "Valid Candidates", Value: fmt.Sprintf("%d", result.ValidCandidates)},
		)
	}
	extraction = append(extraction, &FieldData{
		Label: "Extracted At",
		Value: result.ExtractedAt.In(w.timezone).Format("2006-01-02 15:04:05"),
	})

	return &TemplateData{
		Title:       "Firmware Version Report",
		Version:     r.FullVersion(),
		Dirty:       r.IsDirty,
		Fields:      fields,
		Extraction:  extraction,
		Record:      r,
		GeneratedAt: time.Now().In(w.timezone).Format("2006-01-02 15:04:05"),
	}
}

// hex32 formats an integer as 0x-prefixed, zero-padded uppercase hex.
func hex32(v any) string {
	return fmt.Sprintf("0x%08X", v)
}

func dirtyText(dirty bool) string {
	if dirty {
		return "Yes"
	}
	return "No"
}

// dirtyClass returns the CSS class for the dirty flag.
func dirtyClass(dirty bool) string {
	if dirty {
		return "status-warning"
	}
	return "status-normal"
}
