package main

import (
	"github.com/spf13/cobra"
	"github.com/ukaji3/rfdgen/internal/report"
	"github.com/ukaji3/rfdgen/pkg/rfd"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the customers a generate run would process",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"source.path":   "source",
			"template.path": "template",
			"output.dir":    "output",
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Listing rows needs no PDF engine.
		cfg.Export.SaveAsPDF = false

		g, err := rfd.New(cfg, rfd.WithLogger(logger))
		if err != nil {
			return err
		}
		cands, err := g.Scan(cmd.Context())
		if err != nil {
			return err
		}
		logger.WithField("count", len(cands)).Debug("scan finished")
		return report.Candidates(cmd.OutOrStdout(), cands)
	},
}

func init() {
	scanCmd.Flags().StringP("source", "s", "", "source allocation workbook")
	scanCmd.Flags().StringP("template", "t", "", "declaration template workbook")
	scanCmd.Flags().StringP("output", "o", "", "output folder")
	rootCmd.AddCommand(scanCmd)
}
