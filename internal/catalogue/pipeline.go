package catalogue

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/byronlcollier/zaparoo-label-automator/internal/endpoints"
	"github.com/byronlcollier/zaparoo-label-automator/internal/igdb"
	"github.com/byronlcollier/zaparoo-label-automator/internal/logging"
)

// Stats summarizes one pipeline run.
type Stats struct {
	RunID              string
	PlatformsProcessed int
	GamesWritten       int
	ImagesDownloaded   int
	Warnings           []string
}

// Pipeline drives the whole scrape: platforms CSV in, catalogue tree out.
// Strictly sequential; one platform at a time, one game at a time.
type Pipeline struct {
	Client    *igdb.Client
	Games     *endpoints.Endpoint
	Platforms *endpoints.Endpoint
	Writer    *Writer
	Images    *ImageDownloader
	Logger    logging.InternalLogger

	// GamesPerPlatform caps how many games are fetched for each platform.
	GamesPerPlatform int

	// SkipImages leaves the image downloader untouched, JSON only.
	SkipImages bool
}

// Run processes every platform of interest and returns run statistics.
// A platform with no remote data is a warning, not a failure; everything
// else aborts the run so partial output is obvious rather than silent.
func (p *Pipeline) Run(ctx context.Context, platforms []PlatformOfInterest) (*Stats, error) {
	stats := &Stats{RunID: xid.New().String()}

	p.Logger.Info("run %s: processing %d platform(s)", stats.RunID, len(platforms))

	for _, platform := range platforms {
		p.Logger.Info("processing platform: %s (ID: %s)", platform.Name, platform.ID)

		if err := p.processPlatform(ctx, platform, stats); err != nil {
			return stats, fmt.Errorf("processing platform '%s': %w", platform.Name, err)
		}
	}

	return stats, nil
}

func (p *Pipeline) processPlatform(ctx context.Context, platform PlatformOfInterest, stats *Stats) error {
	records, err := p.Client.Query(ctx, p.Platforms.URL,
		fmt.Sprintf("%s limit 1;", igdb.WhereID(p.Platforms.Body, platform.ID)))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		warning := fmt.Sprintf("no data found for platform %s (ID: %s)", platform.Name, platform.ID)
		p.Logger.Warn("%s", warning)
		stats.Warnings = append(stats.Warnings, warning)
		return nil
	}

	info := igdb.PostProcess(records[0])

	folder, err := p.Writer.WritePlatform(info)
	if err != nil {
		return err
	}

	if !p.SkipImages {
		downloaded, err := p.Images.DownloadAll(ctx, info, folder)
		if err != nil {
			return err
		}
		if len(downloaded) > 0 {
			stats.ImagesDownloaded += len(downloaded)
			AnnotateLocalPaths(info, downloaded)
			// rewrite with the local paths filled in
			if _, err := p.Writer.WritePlatform(info); err != nil {
				return err
			}
		}
	}

	games, err := p.Client.QueryAll(ctx, p.Games.URL,
		igdb.WherePlatform(p.Games.Body, platform.ID), p.GamesPerPlatform)
	if err != nil {
		return err
	}

	written := 0
	for _, game := range igdb.PostProcessAll(games) {
		if !p.Games.Matches(game) {
			continue
		}

		gameFolder, err := p.Writer.WriteGame(folder, game)
		if err != nil {
			return err
		}

		if !p.SkipImages {
			downloaded, err := p.Images.DownloadAll(ctx, game, gameFolder)
			if err != nil {
				return err
			}
			if len(downloaded) > 0 {
				stats.ImagesDownloaded += len(downloaded)
				AnnotateLocalPaths(game, downloaded)
				if _, err := p.Writer.WriteGame(folder, game); err != nil {
					return err
				}
			}
		}
		written++
	}

	p.Logger.Info("created output for %s: %d game(s)", PlatformFolderName(info), written)

	stats.PlatformsProcessed++
	stats.GamesWritten += written
	return nil
}
