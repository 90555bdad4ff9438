package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ukaji3/rfdgen/internal/sample"
	"github.com/ukaji3/rfdgen/pkg/rfd/config"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [dir]",
	Short: "Write a demo allocation workbook, template and config",
	Long: `Sample writes allocation.xlsx, template.xlsx and rfdgen.yaml into dir
(default "sample"). Run "rfdgen --config <dir>/rfdgen.yaml generate" to try
the full pipeline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "sample"
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating sample folder")
		}

		cfg := config.Default()
		cfg.Source.Path = filepath.Join(dir, "allocation.xlsx")
		cfg.Template.Path = filepath.Join(dir, "template.xlsx")
		cfg.Template.Sheet = sample.TemplateSheet
		cfg.Output.Dir = filepath.Join(dir, "out")

		if err := sample.WriteSource(cfg.Source.Path, sample.Customers()); err != nil {
			return err
		}
		if err := sample.WriteTemplate(cfg.Template.Path); err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		return writeConfigFile(filepath.Join(dir, "rfdgen.yaml"), cfg, force)
	},
}

func init() {
	sampleCmd.Flags().Bool("force", false, "replace an existing rfdgen.yaml")
	rootCmd.AddCommand(sampleCmd)
}
