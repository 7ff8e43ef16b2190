package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/byronlcollier/zaparoo-label-automator/internal/catalogue"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the platforms of interest from the CSV",
	Long: `Parses the platforms-of-interest CSV and prints what a fetch run would
process. Useful to check the file before a long scrape.`,
	Example: `  zaplab platforms --platforms-file mister_supported_cores.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		platforms, err := catalogue.ReadPlatformsCSV(f.PlatformsFile)
		if err != nil {
			return err
		}

		if len(platforms) == 0 {
			log.Info().Msg("no platforms found in file")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, platform := range platforms {
			t.AppendRow(table.Row{platform.ID, truncate(platform.Name, 48)})
		}
		t.Render()

		log.Info().Msgf("%d platform(s) of interest", len(platforms))
		return nil
	},
}

func init() {
	f.bindPlatformsFlag(platformsCmd.Flags())
	rootCmd.AddCommand(platformsCmd)
}
