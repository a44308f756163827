package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fwversion/internal/config"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long:  "Load and validate a configuration file, checking format, value ranges and cross-field constraints.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}
}

// runValidate executes the validate command logic.
func runValidate(cmd *cobra.Command, opts *rootOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("no config file given, use --config")
	}

	// Load internally calls Validate
	if _, err := config.Load(opts.configPath); err != nil {
		return fmt.Errorf("%s: %w", opts.configPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s config file is valid: %s\n", okLabel(), opts.configPath)
	return nil
}
