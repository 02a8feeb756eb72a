package cmd

import (
	"fmt"
	"strings"

	"github.com/smhrd/smartsearch/internal/help"
	"github.com/smhrd/smartsearch/internal/layout"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/internal/suggest"
	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:     "guide [section]",
	Aliases: []string{"manual"},
	Short:   "Read the user guide",
	Long: `Print the user guide. With no section every section is printed in order;
"smartsearch guide --list" shows the section IDs.`,
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, s := range help.Sections() {
				fmt.Printf("%-12s %s\n", s.ID, s.Title)
			}
			return nil
		}

		sections := help.Sections()
		if len(args) == 1 {
			s, ok := help.Find(args[0])
			if !ok {
				err := fmt.Errorf("unknown section %q", args[0])
				if hints := suggest.Closest(args[0], help.IDs()); len(hints) > 0 {
					err = fmt.Errorf("unknown section %q (did you mean %s?)", args[0], strings.Join(hints, ", "))
				}
				output.Error("%v", err)
				return err
			}
			sections = []help.Section{s}
		}

		raw, _ := cmd.Flags().GetBool("raw")
		width := min(layout.TerminalWidth(100), 100)
		for _, s := range sections {
			if raw {
				fmt.Println(s.Markdown)
				continue
			}
			rendered, err := output.RenderMarkdownWithWidth(s.Markdown, width)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)

	guideCmd.Flags().Bool("list", false, "List section IDs")
	guideCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
