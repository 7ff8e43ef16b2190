package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/byronlcollier/zaparoo-label-automator/internal/catalogue"
	"github.com/byronlcollier/zaparoo-label-automator/internal/logging"
)

var (
	fetchOutputDir  string
	fetchGamesCount int
	fetchFilter     string
	fetchSkipImages bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch platform and game metadata into the catalogue tree",
	Long: `Reads the platforms-of-interest CSV, then for each platform fetches its
IGDB metadata and the top games, post-processes dates and country codes,
downloads the referenced cover art and logos, and writes one folder per
platform with pretty-printed JSON.

Platforms missing from the remote database are warnings, not failures.
Everything runs sequentially; there is no retry logic, a failing request
aborts the run.`,
	Example: `  zaplab fetch --platforms-file mister_supported_cores.csv --output output/
  zaplab fetch --games 200 --filter 'total_rating > 70'
  zaplab fetch --skip-images`,
	RunE: func(cmd *cobra.Command, args []string) error {
		platforms, err := catalogue.ReadPlatformsCSV(f.PlatformsFile)
		if err != nil {
			return err
		}
		log.Info().Msgf("found %d platform(s) to process", len(platforms))

		cfg, err := f.LoadEndpoints()
		if err != nil {
			return err
		}
		gamesEndpoint, err := cfg.Get("games")
		if err != nil {
			return err
		}
		platformsEndpoint, err := cfg.Get("platforms")
		if err != nil {
			return err
		}
		if fetchFilter != "" {
			if err := gamesEndpoint.SetFilter(fetchFilter); err != nil {
				return err
			}
		}

		manager := f.GetTokenManager()
		if _, err := manager.Initialise(cmd.Context()); err != nil {
			reportAuthFailure(err)
			return err
		}

		pipeline := &catalogue.Pipeline{
			Client:           f.GetQueryClient(manager),
			Games:            gamesEndpoint,
			Platforms:        platformsEndpoint,
			Writer:           catalogue.NewWriter(fetchOutputDir),
			Images:           catalogue.NewImageDownloader(),
			Logger:           logging.NewZLogger(log.Logger),
			GamesPerPlatform: fetchGamesCount,
			SkipImages:       fetchSkipImages,
		}

		stats, err := pipeline.Run(cmd.Context(), platforms)
		if err != nil {
			log.Error().Msgf("%s fetch aborted: %v", redCross, err)
			return err
		}

		printFetchSummary(stats)
		return nil
	},
}

func init() {
	f.bindPlatformsFlag(fetchCmd.Flags())
	f.bindEndpointsFlag(fetchCmd.Flags())
	fetchCmd.Flags().StringVarP(&fetchOutputDir, "output", "o", "output", "Output directory for the catalogue tree")
	fetchCmd.Flags().IntVarP(&fetchGamesCount, "games", "g", 100, "Games to fetch per platform")
	fetchCmd.Flags().StringVar(&fetchFilter, "filter", "", "Expression filtering games, e.g. 'total_rating > 70'")
	fetchCmd.Flags().BoolVar(&fetchSkipImages, "skip-images", false, "Write JSON only, skip image downloads")
	rootCmd.AddCommand(fetchCmd)
}

func printFetchSummary(stats *catalogue.Stats) {
	fmt.Println(bold("\n── Fetch Summary ──"))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRow(table.Row{"Run", stats.RunID})
	t.AppendRow(table.Row{"Platforms processed", stats.PlatformsProcessed})
	t.AppendRow(table.Row{"Games written", stats.GamesWritten})
	t.AppendRow(table.Row{"Images downloaded", stats.ImagesDownloaded})
	t.AppendRow(table.Row{"Warnings", len(stats.Warnings)})
	t.Render()

	if len(stats.Warnings) > 0 {
		fmt.Printf("\n%s\n", faint(strings.Join(stats.Warnings, "\n")))
	}
	log.Info().Msgf("%s fetch complete", greenCheck)
}
