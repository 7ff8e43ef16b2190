package endpoints

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
variables:
  api_base: https://api.igdb.com/v4
endpoints:
  - name: games
    url: ${api_base}/games
    method: POST
    body: "fields name; where total_rating_count > ${min_ratings};"
    filter: "total_rating > 70"
  - name: platforms
    url: ${api_base}/platforms
    body: "fields name, abbreviation;"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	games, err := cfg.Get("games")
	if err != nil {
		t.Fatalf("Get(games) error = %v", err)
	}
	if games.URL != "https://api.igdb.com/v4/games" {
		t.Errorf("variable substitution in url failed: %q", games.URL)
	}

	platforms, err := cfg.Get("platforms")
	if err != nil {
		t.Fatalf("Get(platforms) error = %v", err)
	}
	if platforms.Method != "POST" {
		t.Errorf("method default not applied: %q", platforms.Method)
	}

	if _, err := cfg.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}

func TestLoadInvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing url",
			content: `
endpoints:
  - name: games
    body: "fields name;"
`,
			wantErr: "endpoint 'games' missing url",
		},
		{
			name: "missing body",
			content: `
endpoints:
  - name: games
    url: https://api.igdb.com/v4/games
`,
			wantErr: "endpoint 'games' missing body",
		},
		{
			name: "duplicate name",
			content: `
endpoints:
  - name: games
    url: https://api.igdb.com/v4/games
    body: "fields name;"
  - name: games
    url: https://api.igdb.com/v4/games
    body: "fields name;"
`,
			wantErr: "not unique",
		},
		{
			name: "unsupported method",
			content: `
endpoints:
  - name: games
    url: https://api.igdb.com/v4/games
    method: DELETE
    body: "fields name;"
`,
			wantErr: "unsupported method",
		},
		{
			name: "non-boolean filter",
			content: `
endpoints:
  - name: games
    url: https://api.igdb.com/v4/games
    body: "fields name;"
    filter: "1 + 2"
`,
			wantErr: "compiling filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	e := &Endpoint{Name: "games", URL: "u", Body: "b"}
	if err := e.SetFilter("total_rating > 70"); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}

	tests := []struct {
		name   string
		record map[string]any
		want   bool
	}{
		{"above threshold", map[string]any{"total_rating": 85.0}, true},
		{"below threshold", map[string]any{"total_rating": 42.0}, false},
		{"missing field kept", map[string]any{"name": "obscure"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Matches(tt.record); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.record, got, tt.want)
			}
		})
	}
}

func TestNoFilterMatchesEverything(t *testing.T) {
	e := &Endpoint{Name: "games"}
	if !e.Matches(map[string]any{"anything": 1}) {
		t.Error("endpoint without filter should match everything")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults() do not validate: %v", err)
	}
	for _, name := range []string{"games", "platforms"} {
		if _, err := cfg.Get(name); err != nil {
			t.Errorf("Defaults() missing endpoint %q", name)
		}
	}
}
