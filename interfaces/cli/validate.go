package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/autopilot/domain/config"
	infraconfig "github.com/felixgeelhaar/autopilot/infrastructure/config"
)

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file without running an agent.

Checks the file format, expands environment variables, and reports every
validation error with its configuration path.

Examples:
  autopilot validate -c agent.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// validateConfig loads the file and prints the result.
func (a *App) validateConfig(path string) error {
	cfg, err := infraconfig.NewLoader().LoadFile(path)

	var verrs domainconfig.ValidationErrors
	if errors.As(err, &verrs) {
		fmt.Fprintf(a.stderr, "Configuration invalid: %s\n", path)
		for _, ve := range verrs {
			fmt.Fprintf(a.stderr, "  %s: %s\n", ve.Path, ve.Message)
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// A loadable file can still fail component assembly.
	if _, err := infraconfig.NewBuilder(cfg).Build(); err != nil {
		return fmt.Errorf("building components: %w", err)
	}

	fmt.Fprintf(a.stdout, "Configuration valid: %s\n", path)
	fmt.Fprintf(a.stdout, "  Agent: %s\n", cfg.Name)
	if cfg.Version != "" {
		fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	}
	return nil
}
