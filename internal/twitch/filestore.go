package twitch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	CredentialsFileName = "api_credentials.json"
	TokenFileName       = "token.json"

	placeholderID     = "YOUR_TWITCH_CLIENT_ID"
	placeholderSecret = "YOUR_TWITCH_CLIENT_SECRET"
)

// credentialsTemplate is written when no credentials file exists yet.
// JSON has no comments, so the instructions ride along as a field the
// loader knows to ignore.
type credentialsTemplate struct {
	Instructions string `json:"_instructions"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// FileStore persists credentials and tokens as JSON files in a config directory.
//
// Writes are plain truncate-writes: two processes sharing a config directory may
// race on token.json. Single-operator sequential use is assumed.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) credentialsPath() string {
	return filepath.Join(s.Dir, CredentialsFileName)
}

func (s *FileStore) tokenPath() string {
	return filepath.Join(s.Dir, TokenFileName)
}

// EnsureDir creates the config directory if it does not exist yet.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("creating config directory '%s': %w", s.Dir, err)
	}
	return nil
}

// LoadCredentials reads and checks the operator-maintained credentials file.
// If the file is missing, a template is written and a *ConfigError returned so
// the operator can fill it in and re-run.
func (s *FileStore) LoadCredentials() (*ClientCredentials, error) {
	path := s.credentialsPath()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.writeCredentialsTemplate(path); err != nil {
			return nil, err
		}
		return nil, configError(path, "",
			"credentials file was missing; a template has been created, fill in client_id and client_secret and re-run")
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials file '%s': %w", path, err)
	}

	var creds ClientCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, configError(path, "", fmt.Sprintf("invalid JSON: %v", err))
	}

	if creds.ClientID == "" || creds.ClientID == placeholderID {
		return nil, configError(path, "client_id", "is missing or still the template placeholder")
	}
	if creds.ClientSecret == "" || creds.ClientSecret == placeholderSecret {
		return nil, configError(path, "client_secret", "is missing or still the template placeholder")
	}

	return &creds, nil
}

func (s *FileStore) writeCredentialsTemplate(path string) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	tmpl := credentialsTemplate{
		Instructions: "Fill in the client_id and client_secret of your Twitch developer application (https://dev.twitch.tv/console), then re-run.",
		ClientID:     placeholderID,
		ClientSecret: placeholderSecret,
	}
	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials template: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials template '%s': %w", path, err)
	}
	return nil
}

// LoadToken returns the cached token, or ErrNoToken when none was persisted yet.
// A token file that cannot be parsed is treated as absent, not repaired.
func (s *FileStore) LoadToken() (*TokenRecord, error) {
	data, err := os.ReadFile(s.tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file '%s': %w", s.tokenPath(), err)
	}

	var record TokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrNoToken
	}
	if record.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &record, nil
}

// SaveToken overwrites the token file wholesale with pretty-printed JSON.
func (s *FileStore) SaveToken(record *TokenRecord) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token record: %w", err)
	}
	if err := os.WriteFile(s.tokenPath(), data, 0600); err != nil {
		return fmt.Errorf("writing token file '%s': %w", s.tokenPath(), err)
	}
	return nil
}
