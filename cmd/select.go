package cmd

import (
	"fmt"

	"github.com/smhrd/smartsearch/internal/output"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:     "select <folder-id...>",
	Aliases: []string{"sel"},
	Short:   "Toggle folders and their subfolders in the search scope",
	Long: `Toggle each folder together with all of its subfolders. When the
folder and every subfolder are already selected they are all removed,
otherwise they are all added.

The selection is saved and scopes "smartsearch search --selected" and the
chat assistant.`,
	GroupID: "folders",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		if err := w.folderIDs(args); err != nil {
			output.Error("%v", err)
			return err
		}

		only, _ := cmd.Flags().GetBool("only")
		for _, id := range args {
			if only {
				w.drive.ToggleSelect(id)
			} else {
				w.drive.ToggleCascade(id)
			}
			fmt.Printf("%s %s\n", output.CheckBox(w.drive.CheckState(id)), id)
		}
		return nil
	},
}

var selectAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Select every folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(func(w *workspace) {
			w.drive.SelectAll()
			output.Success("Selected %d folders", len(w.drive.Selected()))
		})
	},
}

var selectClearCmd = &cobra.Command{
	Use:     "clear",
	Aliases: []string{"none"},
	Short:   "Clear the selection (search everything)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSelection(func(w *workspace) {
			w.drive.ClearSelection()
			output.Success("Selection cleared")
		})
	},
}

var selectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the selected folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		selected := w.drive.Selected()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if selected == nil {
				selected = []string{}
			}
			return output.JSON(selected)
		}
		if len(selected) == 0 {
			fmt.Println("No folders selected; searches cover every file")
			return nil
		}
		for _, id := range selected {
			fmt.Printf("%s %s\n", output.CheckBox(w.drive.CheckState(id)), id)
		}
		return nil
	},
}

func withSelection(fn func(w *workspace)) error {
	w, err := openWorkspace(getBaseDir())
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer w.Close()
	fn(w)
	return nil
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.AddCommand(selectAllCmd)
	selectCmd.AddCommand(selectClearCmd)
	selectCmd.AddCommand(selectListCmd)

	selectCmd.Flags().Bool("only", false, "Toggle only the named folder, not its subfolders")
	selectListCmd.Flags().Bool("json", false, "JSON output")
}
