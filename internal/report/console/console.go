// Package console renders a version record to standard output as a
// bordered text block, JSON or YAML.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fwversion/internal/model"
)

// Format is a console output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// borderWidth is the width of the "=" rule around the text block.
const borderWidth = 80

type renderFunc func(w io.Writer, r model.VersionRecord) error

var renderers = map[Format]renderFunc{
	FormatText: renderText,
	FormatJSON: renderJSON,
	FormatYAML: renderYAML,
}

// Formats returns all supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for f := range renderers {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// ParseFormat normalizes s and checks that it names a supported format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := renderers[f]; !ok {
		return "", fmt.Errorf("unsupported output format %q, supported formats: %s",
			s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Render writes r to w in the given format.
func Render(w io.Writer, r model.VersionRecord, format Format) error {
	render, ok := renderers[format]
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}
	return render(w, r)
}

func renderText(w io.Writer, r model.VersionRecord) error {
	rule := strings.Repeat("=", borderWidth)
	dirty := "No"
	if r.IsDirty {
		dirty = "Yes"
	}

	var sb strings.Builder
	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("  Firmware Version Information\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "  %-15s%s\n", "Version:", r.BuildString())
	fmt.Fprintf(&sb, "  %-15s%s\n", "Board:", r.BoardName)
	fmt.Fprintf(&sb, "  %-15s%s %s\n", "Build Date:", r.BuildDate, r.BuildTime)
	fmt.Fprintf(&sb, "  %-15s%s\n", "Git Branch:", r.GitBranch)
	fmt.Fprintf(&sb, "  %-15s%s\n", "Git Commit:", r.GitCommit)
	fmt.Fprintf(&sb, "  %-15s%s\n", "Dirty:", dirty)
	fmt.Fprintf(&sb, "  %-15s%s\n", "Compiler:", r.Compiler)
	fmt.Fprintf(&sb, "  %-15s0x%08X\n", "Magic:", r.Magic)
	fmt.Fprintf(&sb, "  %-15s0x%08X\n", "CRC32:", r.CRC32)
	sb.WriteString(rule + "\n\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func renderJSON(w io.Writer, r model.VersionRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, r model.VersionRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
