package catalogue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/byronlcollier/zaparoo-label-automator/internal/endpoints"
	"github.com/byronlcollier/zaparoo-label-automator/internal/igdb"
)

type testLogger struct {
	t        *testing.T
	warnings []string
}

func (l *testLogger) Info(format string, args ...any)  { l.t.Logf("INFO  "+format, args...) }
func (l *testLogger) Error(format string, args ...any) { l.t.Logf("ERROR "+format, args...) }
func (l *testLogger) Warn(format string, args ...any) {
	l.warnings = append(l.warnings, format)
	l.t.Logf("WARN  "+format, args...)
}

type noHeaders struct{}

func (noHeaders) AuthHeaders() map[string]string { return map[string]string{} }

func TestPipelineRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/platforms":
			_, _ = w.Write([]byte(`[{"id": 19, "name": "Super Nintendo"}]`))
		case "/games":
			_, _ = w.Write([]byte(`[
				{"id": 1, "name": "Chrono Trigger", "total_rating": 95.0},
				{"id": 2, "name": "Shovelware Special", "total_rating": 12.0}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	games := &endpoints.Endpoint{Name: "games", URL: srv.URL + "/games", Body: "fields name, total_rating;"}
	if err := games.SetFilter("total_rating > 50"); err != nil {
		t.Fatal(err)
	}
	platforms := &endpoints.Endpoint{Name: "platforms", URL: srv.URL + "/platforms", Body: "fields name;"}

	root := t.TempDir()
	logger := &testLogger{t: t}

	p := &Pipeline{
		Client:           igdb.NewClient(noHeaders{}),
		Games:            games,
		Platforms:        platforms,
		Writer:           NewWriter(root),
		Images:           NewImageDownloader(),
		Logger:           logger,
		GamesPerPlatform: 10,
		SkipImages:       true,
	}

	stats, err := p.Run(context.Background(), []PlatformOfInterest{{ID: "19", Name: "SNES"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.PlatformsProcessed != 1 {
		t.Errorf("PlatformsProcessed = %d, want 1", stats.PlatformsProcessed)
	}
	if stats.GamesWritten != 1 {
		t.Errorf("GamesWritten = %d, want 1 (filter drops the low-rated game)", stats.GamesWritten)
	}
	if stats.RunID == "" {
		t.Error("RunID is empty")
	}

	if _, err := os.Stat(filepath.Join(root, "Super_Nintendo", "platform_info.json")); err != nil {
		t.Errorf("platform_info.json missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Super_Nintendo", "Chrono_Trigger", "Chrono_Trigger.json")); err != nil {
		t.Errorf("game json missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Super_Nintendo", "Shovelware_Special")); err == nil {
		t.Error("filtered game was written anyway")
	}
}

func TestPipelineUnknownPlatformIsWarning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	logger := &testLogger{t: t}
	p := &Pipeline{
		Client:           igdb.NewClient(noHeaders{}),
		Games:            &endpoints.Endpoint{Name: "games", URL: srv.URL, Body: "fields name;"},
		Platforms:        &endpoints.Endpoint{Name: "platforms", URL: srv.URL, Body: "fields name;"},
		Writer:           NewWriter(t.TempDir()),
		Images:           NewImageDownloader(),
		Logger:           logger,
		GamesPerPlatform: 10,
		SkipImages:       true,
	}

	stats, err := p.Run(context.Background(), []PlatformOfInterest{{ID: "9999", Name: "Vaporware Station"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.PlatformsProcessed != 0 {
		t.Errorf("PlatformsProcessed = %d, want 0", stats.PlatformsProcessed)
	}
	if len(stats.Warnings) != 1 {
		t.Errorf("Warnings = %v, want exactly one", stats.Warnings)
	}
}
