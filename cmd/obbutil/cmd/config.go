package cmd

import (
	"github.com/spf13/cobra"

	"github.com/andeb/obbutil/pkg/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the obbutil configuration",
		// Overrides the root hook so a broken config file can be replaced.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default configuration to the config path.

Example:
  obbutil config init
  obbutil config init --config ./obbutil.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := root.configPath
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			cmd.SilenceUsage = true
			if _, err := config.BootstrapConfig(configPath, force); err != nil {
				return err
			}

			cmd.Printf("Configuration written to %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
