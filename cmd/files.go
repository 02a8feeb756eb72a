package cmd

import (
	"fmt"

	"github.com/smhrd/smartsearch/internal/files"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/internal/search"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files [filter]",
	Short: "List files, optionally filtered",
	Long: `List every file in the catalog. The optional filter matches name, type
or owner as a substring; --fuzzy ranks fzf-style instead. --type and --owner
narrow the list further.

Examples:
  smartsearch files
  smartsearch files 보고서 --type PDF
  smartsearch files --owner 김철수
  smartsearch files mktstr --fuzzy`,
	GroupID: "files",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		typ, _ := cmd.Flags().GetString("type")
		owner, _ := cmd.Flags().GetString("owner")
		useFuzzy, _ := cmd.Flags().GetBool("fuzzy")

		list := w.files.Files()
		if useFuzzy {
			list = search.Filter("", search.Fuzzy(query, list), search.FilterOptions{Type: typ, Owner: owner})
		} else {
			list = search.Filter(query, list, search.FilterOptions{Type: typ, Owner: owner})
		}
		return printFiles(cmd, list, "No files found")
	},
}

var recentCmd = &cobra.Command{
	Use:     "recent",
	Short:   "List files by most recent modification",
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		list := w.files.Recent()
		if n, _ := cmd.Flags().GetInt("limit"); n > 0 && len(list) > n {
			list = list[:n]
		}
		return printFiles(cmd, list, "No files")
	},
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favs"},
	Short:   "List favorite files",
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		return printFiles(cmd, w.files.Favorites(), "No favorites yet")
	},
}

var favoriteCmd = &cobra.Command{
	Use:     "favorite <file-id...>",
	Aliases: []string{"fav", "star"},
	Short:   "Toggle the favorite mark on files",
	GroupID: "files",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		for _, id := range args {
			if err := w.fileID(id); err != nil {
				output.Error("%v", err)
				return err
			}
		}
		for _, id := range args {
			f, err := w.files.ToggleFavorite(id)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if f.IsFavorite {
				output.Success("★ %s added to favorites", f.Name)
			} else {
				output.Success("%s removed from favorites", f.Name)
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <file-id>",
	Aliases: []string{"preview", "info"},
	Short:   "Show the details of a file",
	GroupID: "files",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		if err := w.fileID(args[0]); err != nil {
			output.Error("%v", err)
			return err
		}
		f, _ := w.files.Get(args[0])

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(f)
		}
		if md, _ := cmd.Flags().GetBool("render-markdown"); md {
			rendered, err := output.RenderMarkdown(fileMarkdown(f))
			if err != nil {
				return err
			}
			fmt.Print(rendered)
			return nil
		}
		fmt.Print(output.FormatFileLong(f))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Count files and favorites",
	GroupID: "files",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		st := w.files.Stats()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(st)
		}
		fmt.Printf("Files:     %d\n", st.Total)
		fmt.Printf("Favorites: %d\n", st.Favorites)
		fmt.Printf("Selected:  %d folders\n", len(w.drive.Selected()))
		fmt.Printf("Connected: %d API keys\n", len(w.keys.Connected()))
		return nil
	},
}

// fileMarkdown is the preview card as markdown
func fileMarkdown(f models.FileRecord) string {
	fav := ""
	if f.IsFavorite {
		fav = " ★"
	}
	return fmt.Sprintf("# %s %s%s\n\n| Field | Value |\n|---|---|\n| Type | %s |\n| Size | %s |\n| Modified | %s |\n| Author | %s |\n| Path | `%s` |\n",
		f.Icon, f.Name, fav, f.Type, f.Size, f.Modified, f.ModifiedBy, f.Path)
}

func printFiles(cmd *cobra.Command, list []models.FileRecord, empty string) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if list == nil {
			list = []models.FileRecord{}
		}
		return output.JSON(list)
	}
	if len(list) == 0 {
		fmt.Println(empty)
		return nil
	}
	for _, f := range list {
		fmt.Println(output.FormatFileShort(f, 0))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)

	filesCmd.Flags().StringP("type", "t", "", "Only files of this type (PDF, PPT, ...)")
	filesCmd.Flags().StringP("owner", "o", "", "Only files last modified by this person")
	filesCmd.Flags().Bool("fuzzy", false, "Rank by fuzzy match instead of substring")
	recentCmd.Flags().IntP("limit", "n", files.StripSize, "Limit results (0 = all)")
	showCmd.Flags().BoolP("render-markdown", "m", false, "Render as a markdown card")

	for _, c := range []*cobra.Command{filesCmd, recentCmd, favoritesCmd, showCmd, statsCmd} {
		c.Flags().Bool("json", false, "JSON output")
	}
}
