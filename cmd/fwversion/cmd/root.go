// Package cmd provides CLI commands for the firmware version extractor.
package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// rootOptions holds the flag values shared by the commands.
type rootOptions struct {
	configPath   string // Config file path
	logLevel     string // Overrides logging.level when set
	format       string // Console output format
	jsonOutput   bool   // Shorthand for --format json
	outputPath   string // Report file path
	exportFormat string // Report format, inferred from outputPath when empty
	sectionName  string // Overrides extraction.section_name when set
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "fwversion [flags] <firmware.bin|firmware.elf|URL>",
		Short: "Extract embedded version information from firmware images",
		Long: `fwversion locates the version record embedded in a firmware build
artifact and prints it.

Raw binaries (.bin) are scanned for the record magic 0x46574556 and every
candidate is checked for plausibility. ELF executables (.elf) are read
through their .version section. HEX files are not supported.

Examples:
  # Human readable output
  fwversion build/app.bin

  # JSON for scripts
  fwversion --json build/app.elf

  # Download the artifact and export an Excel report
  fwversion https://ci.example.com/artifacts/app.elf -o report.xlsx`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0])
		},
	}

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.Flags().BoolVarP(&opts.jsonOutput, "json", "j", false, "JSON output (same as --format json)")
	rootCmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json, yaml)")
	rootCmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "also write a report file (.xlsx or .html)")
	rootCmd.Flags().StringVar(&opts.exportFormat, "export-format", "", "report format (excel, html), defaults to the --output extension")
	rootCmd.Flags().StringVar(&opts.sectionName, "section", "", "ELF section holding the version record (default .version)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newValidateCmd(opts))

	return rootCmd
}

// Execute runs the root command and exits with status 1 on any error.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes a single "[ERROR] message" line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("[ERROR]"), err)
}

func okLabel() string {
	return color.New(color.FgGreen, color.Bold).Sprint("[OK]")
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return "fwversion " + Version + "\n" +
		"Build Time: " + BuildTime + "\n" +
		"Git Commit: " + GitCommit + "\n" +
		"Go Version: " + runtime.Version() + "\n" +
		"OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH
}
