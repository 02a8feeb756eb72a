package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/internal/search"
	"github.com/spf13/cobra"
)

// searchHit is the JSON form of a scored result
type searchHit struct {
	Score int               `json:"score"`
	File  models.FileRecord `json:"file"`
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"s", "find"},
	Short:   "Search files by name, path, type and owner",
	Long: `Score every file against the query and print the best matches.

Name matches weigh most (prefix matches more), then path, type and owner.
Favorites get a small boost. Use --in or --selected to search only inside
folders; subfolders are always included.

Examples:
  smartsearch search 보고서
  smartsearch search pdf --in reports
  smartsearch search 마케팅 --selected --limit 10`,
	GroupID: "search",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		query := strings.Join(args, " ")
		folders, _ := cmd.Flags().GetStringSlice("in")
		if useSelected, _ := cmd.Flags().GetBool("selected"); useSelected {
			folders = append(folders, w.drive.Selected()...)
		}
		if err := w.folderIDs(folders); err != nil {
			output.Error("%v", err)
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		results := search.Search(query, w.files.Files(), search.Options{
			Tree:      w.drive.Tree(),
			FolderIDs: folders,
			Limit:     limit,
		})

		if err := w.db.RecordQuery(query); err != nil {
			slog.Warn("record query", "err", err)
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			hits := make([]searchHit, len(results))
			for i, r := range results {
				hits[i] = searchHit{Score: r.Score, File: r.File}
			}
			return output.JSON(hits)
		}

		if len(results) == 0 {
			fmt.Printf("No files matching '%s'\n", query)
			return nil
		}
		showScore, _ := cmd.Flags().GetBool("show-score")
		for _, r := range results {
			if showScore {
				fmt.Println(output.FormatScoredFile(r.File, r.Score, 0))
			} else {
				fmt.Println(output.FormatFileShort(r.File, 0))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSlice("in", nil, "Only search these folders and their subfolders")
	searchCmd.Flags().Bool("selected", false, "Only search the folders selected in the explorer")
	searchCmd.Flags().IntP("limit", "n", search.DefaultLimit, "Limit results")
	searchCmd.Flags().Bool("json", false, "JSON output")
	searchCmd.Flags().Bool("show-score", false, "Show relevance scores")
}
