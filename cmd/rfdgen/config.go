package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or show the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "rfdgen.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		return writeConfigFile(path, config.Default(), force)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return config.WriteYAML(cmd.OutOrStdout(), cfg)
	},
}

// writeConfigFile writes cfg to path, refusing to replace an existing file
// unless force is set.
func writeConfigFile(path string, cfg config.Config, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Errorf("%s already exists (use --force to replace it)", path)
		}
		return errors.Wrap(err, "creating config file")
	}
	if err := config.WriteYAML(f, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing config file")
	}
	logger.WithField("file", path).Info("wrote configuration")
	return nil
}

func init() {
	configInitCmd.Flags().Bool("force", false, "replace an existing file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
