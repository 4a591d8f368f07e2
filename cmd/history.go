package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prodline-sim/prodline-sim/sim/history"
)

var (
	historyDBPath string
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect runs recorded with --record",
}

// --- prodline-sim history list ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		store := openHistory()
		defer store.Close()
		entries, err := store.Recent(historyLimit)
		if err != nil {
			logrus.Fatalf("Listing runs failed: %v", err)
		}
		writeHistoryList(cmd.OutOrStdout(), entries)
	},
}

// --- prodline-sim history show ---

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the config and report of one recorded run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateFormat(historyFormat); err != nil {
			logrus.Fatalf("%v", err)
		}
		store := openHistory()
		defer store.Close()
		entry, err := store.Get(args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeHistoryEntry(cmd.OutOrStdout(), historyFormat, entry); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func openHistory() *history.Store {
	store, err := history.Open(historyDBPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return store
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "prodline-history.db", "Path to the SQLite history database")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to list (0 = all)")
	historyShowCmd.Flags().StringVar(&historyFormat, "format", formatText, "Output format (text, json, yaml)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)

	rootCmd.AddCommand(historyCmd)
}
