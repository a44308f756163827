package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fwversion/internal/client/artifact"
	"fwversion/internal/config"
	"fwversion/internal/firmware"
	"fwversion/internal/model"
	"fwversion/internal/report"
	"fwversion/internal/report/console"
)

// runExtract executes the extraction workflow for a single artifact.
// Nothing is written to stdout unless every step succeeds.
func runExtract(cmd *cobra.Command, opts *rootOptions, source string) error {
	format, err := resolveFormat(cmd, opts)
	if err != nil {
		return err
	}
	if opts.exportFormat != "" && opts.outputPath == "" {
		return fmt.Errorf("--export-format requires --output")
	}

	// Step 1: Load configuration
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Step 2: Initialize logger, --log-level overrides the config file
	logLevel := cfg.Logging.Level
	if opts.logLevel != "" {
		logLevel = opts.logLevel
	}
	logger := setupLogger(logLevel, cfg.Logging.Format, cmd.ErrOrStderr())
	logger.Debug().
		Str("config_path", opts.configPath).
		Str("log_level", logLevel).
		Msg("configuration loaded")

	sectionName := cfg.Extraction.SectionName
	if opts.sectionName != "" {
		sectionName = opts.sectionName
	}

	// Step 3: Wire the extractor
	validator := firmware.NewValidator(cfg.Extraction.MinYear, cfg.Extraction.MaxYear)
	locator := firmware.NewLocator(validator, logger)
	fetcher := artifact.NewClient(&cfg.Fetch, cfg.Extraction.MaxFileSize, logger)
	extractor := firmware.NewExtractor(locator, fetcher, firmware.Options{
		SectionName: sectionName,
		MaxFileSize: cfg.Extraction.MaxFileSize,
	}, logger)

	// Step 4: Extract
	result, err := extractor.Extract(cmd.Context(), source)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := console.Render(&out, result.Record, format); err != nil {
		return err
	}

	// Step 5: Optional report file
	if opts.outputPath != "" {
		if err := exportReport(cfg, opts, result, logger); err != nil {
			return err
		}
	}

	_, err = cmd.OutOrStdout().Write(out.Bytes())
	return err
}

// resolveFormat merges --json and --format.
func resolveFormat(cmd *cobra.Command, opts *rootOptions) (console.Format, error) {
	format, err := console.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}
	if opts.jsonOutput {
		if cmd.Flags().Changed("format") && format != console.FormatJSON {
			return "", fmt.Errorf("--json conflicts with --format %s", format)
		}
		format = console.FormatJSON
	}
	return format, nil
}

// exportReport writes the extraction result with the selected report writer.
func exportReport(cfg *config.Config, opts *rootOptions, result *model.ExtractionResult, logger zerolog.Logger) error {
	tz, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return fmt.Errorf("invalid report timezone %q: %w", cfg.Report.Timezone, err)
	}

	registry := report.NewRegistry(tz, cfg.Report.HTMLTemplate)

	var writer report.ReportWriter
	if opts.exportFormat != "" {
		writer, err = registry.Get(opts.exportFormat)
	} else {
		writer, err = registry.ForPath(opts.outputPath)
	}
	if err != nil {
		return err
	}

	if err := writer.Write(result, opts.outputPath); err != nil {
		return fmt.Errorf("failed to write %s report: %w", writer.Format(), err)
	}

	logger.Info().
		Str("format", writer.Format()).
		Str("path", opts.outputPath).
		Msg("report written")
	return nil
}

// setupLogger configures zerolog with the given level and format.
// Logs always go to w so stdout stays machine readable.
func setupLogger(level string, format string, w io.Writer) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if w == nil {
		w = os.Stderr
	}

	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = w
	} else {
		// Console format - human-readable output
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
