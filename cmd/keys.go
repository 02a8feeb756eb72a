package cmd

import (
	"fmt"

	"github.com/smhrd/smartsearch/internal/apikeys"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:     "keys",
	Aliases: []string{"key", "api"},
	Short:   "Manage API key connections",
	Long: `List and manage the document-service API keys. The first connected key
decides which folder tree is shown, so connecting or disconnecting keys
rebuilds the tree.`,
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		keys := w.keys.Keys()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			for i := range keys {
				keys[i].Key = ""
			}
			if keys == nil {
				keys = []models.APIKey{}
			}
			return output.JSON(keys)
		}
		if len(keys) == 0 {
			fmt.Println("No API keys. Add one with: smartsearch keys add <name> <key>")
			return nil
		}
		for _, k := range keys {
			fmt.Println(output.FormatAPIKey(k, apikeys.LastUsedLabel(k)))
		}
		return nil
	},
}

// keyAction runs fn for every key ID in args and rebuilds the tree once
func keyAction(fn func(s *apikeys.Store, id string) error, done string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		for _, id := range args {
			if err := fn(w.keys, id); err != nil {
				output.Error("%s: %v", id, err)
				return err
			}
			output.Success("%s %s", done, id)
		}
		w.rebuild()
		return nil
	}
}

var keysConnectCmd = &cobra.Command{
	Use:   "connect <key-id...>",
	Short: "Connect API keys",
	Args:  cobra.MinimumNArgs(1),
	RunE:  keyAction((*apikeys.Store).Connect, "Connected"),
}

var keysDisconnectCmd = &cobra.Command{
	Use:   "disconnect <key-id...>",
	Short: "Disconnect API keys",
	Args:  cobra.MinimumNArgs(1),
	RunE:  keyAction((*apikeys.Store).Disconnect, "Disconnected"),
}

var keysDeleteCmd = &cobra.Command{
	Use:     "delete <key-id...>",
	Aliases: []string{"rm"},
	Short:   "Delete API keys",
	Args:    cobra.MinimumNArgs(1),
	RunE:    keyAction((*apikeys.Store).Delete, "Deleted"),
}

var keysDisconnectAllCmd = &cobra.Command{
	Use:   "disconnect-all",
	Short: "Disconnect every API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		w.keys.DisconnectAll()
		w.rebuild()
		output.Success("Disconnected all API keys")
		return nil
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add <name> <key>",
	Short: "Add an API key (connected immediately)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		k, err := w.keys.Add(args[0], args[1])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		w.rebuild()
		output.Success("Added %s (%s) %s", k.Name, k.ID, k.MaskedKey)
		return nil
	},
}

var keysUpdateCmd = &cobra.Command{
	Use:   "update <key-id> <name> <key>",
	Short: "Rename an API key and replace its value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		k, err := w.keys.Update(args[0], args[1], args[2])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		w.rebuild()
		output.Success("Updated %s (%s) %s", k.Name, k.ID, k.MaskedKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysConnectCmd)
	keysCmd.AddCommand(keysDisconnectCmd)
	keysCmd.AddCommand(keysDisconnectAllCmd)
	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysUpdateCmd)
	keysCmd.AddCommand(keysDeleteCmd)

	keysCmd.Flags().Bool("json", false, "JSON output")
}
