package cmd

import (
	"fmt"

	"github.com/smhrd/smartsearch/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version and check for updates",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Print(versionStr)
			return
		}

		fmt.Printf("smartsearch version %s\n", versionStr)

		checkUpdates, _ := cmd.Flags().GetBool("check")
		if !checkUpdates || version.IsDevelopmentVersion(versionStr) {
			return
		}

		result := version.Cached(cmd.Context(), versionStr)
		if result.Error != nil {
			fmt.Printf("Update check failed: %v\n", result.Error)
			return
		}
		if result.HasUpdate {
			fmt.Printf("\nUpdate available: %s → %s\n", versionStr, result.LatestVersion)
			if c := version.UpdateCommand(result.LatestVersion); c != "" {
				fmt.Printf("Run: %s\n", c)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("check", true, "Check for updates")
	versionCmd.Flags().Bool("short", false, "Output only version string")
}
