package cmd

import (
	"fmt"
	"strings"

	"github.com/smhrd/smartsearch/internal/config"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change local settings",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		server, err := config.ServerURL(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		w, err := openWorkspace(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		mode := "light"
		if w.theme.Dark() {
			mode = "dark"
		}
		if w.theme.FollowsSystem() {
			mode += " (system)"
		}
		catalogPath := cfg.CatalogPath
		if catalogPath == "" {
			catalogPath = "(built-in)"
		}
		signedIn := "no"
		if cfg.AuthToken != "" {
			signedIn = cfg.LastEmail
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(map[string]any{
				"server_url":          server,
				"catalog_path":        cfg.CatalogPath,
				"watch_catalog":       cfg.WatchCatalog,
				"dark_mode":           w.theme.Dark(),
				"dark_mode_system":    w.theme.FollowsSystem(),
				"last_email":          cfg.LastEmail,
				"signed_in":           cfg.AuthToken != "",
				"onboarding_complete": cfg.OnboardingComplete,
			})
		}

		fmt.Printf("Server:      %s\n", server)
		fmt.Printf("Catalog:     %s\n", catalogPath)
		fmt.Printf("Watch:       %t\n", cfg.WatchCatalog)
		fmt.Printf("Theme:       %s\n", mode)
		fmt.Printf("Signed in:   %s\n", signedIn)
		fmt.Printf("Onboarded:   %t\n", cfg.OnboardingComplete)
		return nil
	},
}

var settingsDarkModeCmd = &cobra.Command{
	Use:       "dark-mode <on|off|system>",
	Short:     "Choose the color theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off", "system"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		switch strings.ToLower(args[0]) {
		case "on", "dark", "true":
			w.theme.Toggle(true)
		case "off", "light", "false":
			w.theme.Toggle(false)
		case "system", "auto":
			w.theme.FollowSystem()
		default:
			err := fmt.Errorf("invalid mode %q: use on, off or system", args[0])
			output.Error("%v", err)
			return err
		}
		output.Success("Dark mode: %s", args[0])
		return nil
	},
}

var settingsServerCmd = &cobra.Command{
	Use:   "server <url>",
	Short: "Set the account server URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := strings.TrimRight(strings.TrimSpace(args[0]), "/")
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			err := fmt.Errorf("server URL must start with http:// or https://")
			output.Error("%v", err)
			return err
		}
		if err := config.SetServerURL(getBaseDir(), url); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Server: %s", url)
		return nil
	},
}

var settingsCatalogCmd = &cobra.Command{
	Use:   "catalog [path]",
	Short: "Use a catalog file instead of the built-in one",
	Long: `Point smartsearch at a YAML catalog of folders, files and API keys.
Run without a path to go back to the built-in catalog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.SetCatalogPath(getBaseDir(), path); err != nil {
			output.Error("%v", err)
			return err
		}
		// Validate now so a bad file is reported here and not at the next run
		if err := checkWorkspace(getBaseDir()); err != nil {
			output.Warning("catalog saved but does not load: %v", err)
			return nil
		}
		if path == "" {
			output.Success("Using the built-in catalog")
		} else {
			output.Success("Catalog: %s", path)
		}
		return nil
	},
}

var settingsWatchCmd = &cobra.Command{
	Use:       "watch <on|off>",
	Short:     "Reload the catalog in the chat TUI when the file changes",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.SetWatchCatalog(getBaseDir(), on); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Watch catalog: %s", args[0])
		return nil
	},
}

var settingsKeymapCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Show the chat TUI key bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := keymap.Load(getBaseDir())
		if err != nil {
			output.Warning("keymap overrides ignored: %v", err)
		}
		md := r.Markdown(r.Contexts()...)
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(md)
			return nil
		}
		rendered, err := output.RenderMarkdown(md)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

var settingsBindCmd = &cobra.Command{
	Use:   "bind <[context:]key> <command>",
	Short: "Override a chat TUI key binding",
	Long: `Bind a key to a command in one context. A key without a context is
global. An empty command removes the override.

Examples:
  smartsearch settings bind sidebar:s toggle-select
  smartsearch settings bind ctrl+q quit
  smartsearch settings bind sidebar:s ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := keymap.ConfigPath(getBaseDir())
		cfg, err := keymap.LoadConfig(path)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if args[1] == "" {
			delete(cfg.Bindings, args[0])
		} else {
			cfg.Bindings[args[0]] = args[1]
		}
		if err := keymap.SaveConfig(path, cfg); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Saved %s", path)
		return nil
	},
}

// checkWorkspace opens and closes the workspace to validate config
func checkWorkspace(baseDir string) error {
	w, err := openWorkspace(baseDir)
	if err != nil {
		return err
	}
	return w.Close()
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsDarkModeCmd)
	settingsCmd.AddCommand(settingsServerCmd)
	settingsCmd.AddCommand(settingsCatalogCmd)
	settingsCmd.AddCommand(settingsWatchCmd)
	settingsCmd.AddCommand(settingsKeymapCmd)
	settingsCmd.AddCommand(settingsBindCmd)

	settingsCmd.Flags().Bool("json", false, "JSON output")
	settingsKeymapCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
