package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smhrd/smartsearch/internal/workdir"
	"github.com/spf13/cobra"
)

var (
	versionStr string
	baseDir    string

	// baseDirOverride replaces workspace discovery, for tests
	baseDirOverride *string
)

// SetVersion sets the version string
func SetVersion(v string) {
	versionStr = v
}

var rootCmd = &cobra.Command{
	Use:   "smartsearch",
	Short: "Search shared drive files by folder, name and owner",
	Long: `smartsearch - find files across the shared drive folders from the terminal.

Pick folders in the explorer tree (selection cascades to subfolders), then ask
for files by name, type, path or owner. Run "smartsearch chat" for the
interactive assistant.

State lives in .smartsearch/ of the nearest directory that has one, or of the
current directory.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.PersistentFlags().String("dir", "", "Workspace directory (default: nearest directory with .smartsearch/)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "search", Title: "Search Commands:"},
		&cobra.Group{ID: "folders", Title: "Folder Commands:"},
		&cobra.Group{ID: "files", Title: "File Commands:"},
		&cobra.Group{ID: "account", Title: "Account Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}

func initBaseDir() {
	if baseDirOverride != nil {
		baseDir = *baseDirOverride
		return
	}
	if dir, _ := rootCmd.PersistentFlags().GetString("dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --dir: %v\n", err)
			os.Exit(1)
		}
		baseDir = abs
		return
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	baseDir = workdir.ResolveBaseDir(cwd)
}

// getBaseDir returns the workspace directory holding .smartsearch/
func getBaseDir() string {
	if baseDirOverride != nil {
		return *baseDirOverride
	}
	return baseDir
}
