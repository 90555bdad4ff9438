// Package main is the entry point for the rfdgen CLI.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/ukaji3/rfdgen/internal/logging"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// configErr holds a config file that was named but could not be read.
	configErr error
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rfdgen",
	Short: "Generate renewable fuel declarations from an allocation workbook",
	Long: `rfdgen reads customer allocations from an Excel workbook, fills a copy of
the declaration template for every customer above the fossil fuel blend
threshold, and exports each copy as a PDF.

Settings come from a YAML config file (./rfdgen.yaml or
~/.config/rfdgen/config.yaml), RFDGEN_* environment variables and flags,
with flags taking precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		if err := bindFlags(cmd.Root().PersistentFlags(), map[string]string{
			"log.level":  "log-level",
			"log.format": "log-format",
		}); err != nil {
			return err
		}
		l, err := logging.New(os.Stderr, viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rfdgen.yaml or ~/.config/rfdgen/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rfdgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rfdgen"))
		}
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = errors.Wrap(err, "reading config file")
		}
	}
}

// bindFlags binds viper keys to the named flags of fs. Subcommands bind in
// PreRunE because a key holds only one flag binding.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return errors.Wrapf(err, "binding flag %s", name)
		}
	}
	return nil
}

// loadConfig returns the effective configuration.
func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
