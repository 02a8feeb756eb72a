package cmd

import (
	"fmt"

	"github.com/smhrd/smartsearch/internal/drive"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/spf13/cobra"
)

// treeNode is the JSON form of a folder with its selection state
type treeNode struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	State      models.CheckState `json:"state"`
	Files      []string          `json:"files"`
	SubFolders []treeNode        `json:"subfolders,omitempty"`
}

var treeCmd = &cobra.Command{
	Use:     "tree [folder-id]",
	Aliases: []string{"folders", "ls"},
	Short:   "Show the folder tree with selection state",
	Long: `Print the explorer tree. [x] is selected, [-] is partly selected
(some subfolders), [ ] is not selected.

The tree is rebuilt from the file list and the first connected API key, so
its contents change when keys are connected or disconnected.`,
	GroupID: "folders",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		roots := w.drive.Tree()
		if len(args) == 1 {
			if err := w.folderIDs(args); err != nil {
				output.Error("%v", err)
				return err
			}
			roots = []*models.FolderNode{drive.Find(roots, args[0])}
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(jsonTree(w.drive, roots))
		}

		showFiles, _ := cmd.Flags().GetBool("files")
		drive.Walk(roots, func(n *models.FolderNode, depth int) bool {
			// Every level is printed regardless of the explorer's expand state
			row := *n
			row.IsExpanded = true
			fmt.Println(output.FormatFolderRow(&row, depth, w.drive.CheckState(n.ID)))
			if showFiles {
				for _, f := range n.Files {
					fmt.Println(output.IndentString(output.FormatFileShort(f, 0), (depth+2)*2))
				}
			}
			return true
		})
		return nil
	},
}

func jsonTree(s *drive.Store, nodes []*models.FolderNode) []treeNode {
	out := make([]treeNode, 0, len(nodes))
	for _, n := range nodes {
		ids := make([]string, len(n.Files))
		for i, f := range n.Files {
			ids[i] = f.ID
		}
		out = append(out, treeNode{
			ID:         n.ID,
			Name:       n.Name,
			State:      s.CheckState(n.ID),
			Files:      ids,
			SubFolders: jsonTree(s, n.SubFolders),
		})
	}
	return out
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().Bool("files", false, "List the files in each folder")
	treeCmd.Flags().Bool("json", false, "JSON output")
}
