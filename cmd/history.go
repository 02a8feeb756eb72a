package cmd

import (
	"fmt"

	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/internal/search"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recent search queries",
	GroupID: "search",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
			if err := w.db.ClearHistory(); err != nil {
				output.Error("failed to clear history: %v", err)
				return err
			}
			fmt.Println("Cleared search history")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		queries, err := w.db.RecentQueries(limit)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if queries == nil {
				queries = []string{}
			}
			return output.JSON(queries)
		}
		if len(queries) == 0 {
			fmt.Println("No searches yet. Try:")
			for _, q := range search.RecentQueries {
				fmt.Printf("  smartsearch search %q\n", q)
			}
			return nil
		}
		for _, q := range queries {
			fmt.Println(q)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget local state (selection, favorites, keys, theme, history)",
	Long: `Delete every value stored in the local state database and the search
history. The config file (server, catalog, session) is kept.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		keys, err := w.db.Keys()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			for _, k := range keys {
				fmt.Println(k)
			}
			fmt.Printf("Would remove %d stored values and the search history\n", len(keys))
			return nil
		}
		if err := w.db.Clear(); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := w.db.ClearHistory(); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Removed %d stored values", len(keys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)

	historyCmd.Flags().Bool("clear", false, "Forget all recorded queries")
	historyCmd.Flags().IntP("limit", "n", 20, "Limit results")
	historyCmd.Flags().Bool("json", false, "JSON output")
	resetCmd.Flags().Bool("dry-run", false, "List what would be removed")
}
