package catalogue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	forbiddenChars      = regexp.MustCompile(`[<>:"/\\|?*]`)
	repeatedUnderscores = regexp.MustCompile(`_+`)
)

// SanitizeName turns a platform or game name into a filesystem-safe folder name.
func SanitizeName(name string) string {
	s := forbiddenChars.ReplaceAllString(name, "")
	s = strings.ReplaceAll(s, " ", "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unknown"
	}
	return s
}

// Writer lays out the per-platform output tree:
//
//	<root>/<Platform_Name>/platform_info.json
//	<root>/<Platform_Name>/<Game_Name>/<Game_Name>.json
type Writer struct {
	Root string
}

func NewWriter(root string) *Writer {
	return &Writer{Root: root}
}

// PlatformFolderName picks the folder name the way the catalogue expects:
// name first, then abbreviation, then the raw ID.
func PlatformFolderName(platform map[string]any) string {
	for _, key := range []string{"name", "abbreviation"} {
		if v, ok := platform[key].(string); ok && v != "" {
			return SanitizeName(v)
		}
	}
	if id, ok := platform["id"]; ok {
		return SanitizeName(fmt.Sprintf("%v", id))
	}
	return "unknown"
}

// WritePlatform writes platform_info.json and returns the platform folder path.
func (w *Writer) WritePlatform(platform map[string]any) (string, error) {
	folder := filepath.Join(w.Root, PlatformFolderName(platform))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("creating platform folder '%s': %w", folder, err)
	}
	if err := writePrettyJSON(filepath.Join(folder, "platform_info.json"), platform); err != nil {
		return "", err
	}
	return folder, nil
}

// WriteGame writes the game's JSON into its own subfolder of the platform folder
// and returns the game folder path.
func (w *Writer) WriteGame(platformFolder string, game map[string]any) (string, error) {
	name, _ := game["name"].(string)
	if name == "" {
		name = "unknown_game"
	}
	fileName := SanitizeName(name)

	folder := filepath.Join(platformFolder, fileName)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("creating game folder '%s': %w", folder, err)
	}
	if err := writePrettyJSON(filepath.Join(folder, fileName+".json"), game); err != nil {
		return "", err
	}
	return folder, nil
}

func writePrettyJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding '%s': %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing '%s': %w", path, err)
	}
	return nil
}
