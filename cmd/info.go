package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byronlcollier/zaparoo-label-automator/internal/buildinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about this zaplab build",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.GetBuildInfo()
		fmt.Println(bold("\n── zaplab Build Information ──"))
		fmt.Printf("  %s:    %s\n", faint("Version"), info.Version)
		fmt.Printf("  %s:     %s\n", faint("Commit"), info.CommitHash)
		fmt.Printf("  %s:      %s\n", faint("About"), info.About)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
