package catalogue

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// PlatformOfInterest is one row of the operator-maintained platforms CSV,
// correlating a display name with its remote database ID.
type PlatformOfInterest struct {
	ID   string
	Name string
}

// ReadPlatformsCSV parses the platforms-of-interest CSV. Headers are matched
// after trimming and lowercasing because the source files are hand-edited.
func ReadPlatformsCSV(path string) ([]PlatformOfInterest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening platforms file '%s': %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing platforms file '%s': %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("platforms file '%s' is empty", path)
	}

	idCol, nameCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "id":
			idCol = i
		case "name":
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("platforms file '%s' missing 'id' or 'name' column", path)
	}

	var platforms []PlatformOfInterest
	for rowIdx, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= nameCol {
			return nil, fmt.Errorf("platforms file '%s': row %d has too few columns", path, rowIdx+2)
		}
		id := strings.TrimSpace(row[idCol])
		name := strings.TrimSpace(row[nameCol])
		if id == "" && name == "" {
			continue
		}
		if id == "" || name == "" {
			return nil, fmt.Errorf("platforms file '%s': row %d has empty id or name", path, rowIdx+2)
		}
		platforms = append(platforms, PlatformOfInterest{ID: id, Name: name})
	}

	return platforms, nil
}
