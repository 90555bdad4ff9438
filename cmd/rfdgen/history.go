package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/rfdgen/pkg/rfd/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs from the ledger",
	Long: `History lists recent runs recorded in the SQLite ledger, newest first.
With --run it lists the outcome of every customer in that run.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{"ledger.path": "ledger"})
	},
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", "", "SQLite ledger file")
	historyCmd.Flags().Int("limit", 20, "number of runs to list")
	historyCmd.Flags().Int64("run", 0, "list the outcomes of this run")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("ledger.path")
	if path == "" {
		return errors.New("no ledger configured (set ledger.path or --ledger)")
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		entries, err := store.Entries(cmd.Context(), runID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ROW\tCUSTOMER\tSTATUS\tOUTPUT\tERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Row, e.Customer, e.Status, e.Output, e.Error)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "RUN\tSTARTED\tCREATED\tSKIPPED\tFAILED\tSOURCE")
	for _, r := range runs {
		started := r.StartedAt.Local().Format("2006-01-02 15:04")
		if r.FinishedAt == nil {
			started += " (unfinished)"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n", r.ID, started, r.Created, r.Skipped, r.Failed, r.Source)
	}
	return nil
}
