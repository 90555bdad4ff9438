package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/rfdgen/internal/report"
	"github.com/ukaji3/rfdgen/pkg/rfd"
	"github.com/ukaji3/rfdgen/pkg/rfd/ledger"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a declaration for every qualifying customer",
	Long: `Generate scans the source sheet for customers whose fossil fuel blend is at
or above the threshold, fills a copy of the template for each one and exports
it as a PDF. When a PDF cannot be created the filled workbook is kept instead.

The command exits non-zero when any customer failed.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), generateKeys)
	},
	RunE: runGenerate,
}

var generateKeys = map[string]string{
	"source.path":          "source",
	"template.path":        "template",
	"output.dir":           "output",
	"export.engine":        "engine",
	"export.keep_workbook": "keep-workbook",
	"ledger.path":          "ledger",
}

func init() {
	f := generateCmd.Flags()
	f.StringP("source", "s", "", "source allocation workbook")
	f.StringP("template", "t", "", "declaration template workbook")
	f.StringP("output", "o", "", "output folder")
	f.String("engine", "auto", "pdf engine: auto, soffice or native")
	f.String("ledger", "", "record outcomes in this SQLite file")
	f.Bool("keep-workbook", false, "keep the filled workbook next to each PDF")
	f.Bool("no-pdf", false, "save filled workbooks only")
	f.IntSlice("row", nil, "process only these source rows, ignoring the blend filter")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if noPDF, _ := cmd.Flags().GetBool("no-pdf"); noPDF {
		viper.Set("export.save_as_pdf", false)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []rfd.Option{rfd.WithLogger(logger)}
	if cfg.Ledger.Path != "" {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, rfd.WithLedger(store))
	}

	g, err := rfd.New(cfg, opts...)
	if err != nil {
		return err
	}
	if e := g.Exporter(); e != nil {
		logger.WithField("engine", e.Name()).Info("pdf engine selected")
	}

	var (
		sum    models.Summary
		runErr error
	)
	if rows, _ := cmd.Flags().GetIntSlice("row"); len(rows) > 0 {
		sum, runErr = g.ProcessRows(ctx, rows)
	} else {
		sum, runErr = g.Run(ctx)
	}

	switch {
	case errors.Is(runErr, rfd.ErrNoQualifyingRows):
		logger.Warn("no customers at or above the blend threshold")
		runErr = nil
	case runErr != nil && len(sum.Outcomes) == 0 && !errors.Is(runErr, context.Canceled):
		return runErr
	}

	if err := report.Summary(cmd.OutOrStdout(), sum); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if sum.HasErrors() {
		return fmt.Errorf("%d customer(s) failed", len(sum.Errors()))
	}
	return nil
}
