package main

import (
	"github.com/spf13/cobra"
	"github.com/vango-dev/signup/internal/config"
)

// loadConfig reads the file named by path, or signup.json / signup.hcl in
// the working directory when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(".")
}

func configCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Load and validate the configuration and print it as JSON with all
defaults applied.

Examples:
  signup config
  signup config --config=deploy/signup.hcl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return cfg.WriteJSON(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (.json or .hcl)")

	return cmd
}
