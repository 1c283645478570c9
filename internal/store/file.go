package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/weather-companion/internal/weather"
)

const preferencesFile = "preferences.json"

// FileStore keeps preferences as a flat JSON object in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the preferences file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "weather", preferencesFile), nil
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the preferences file. A missing file is not an error; a file
// that cannot be decoded, or decodes to an unknown unit system, is.
func (s *FileStore) Load() (*weather.Preferences, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var p weather.Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("malformed preferences file %s: %w", s.path, err)
	}
	if !p.Units.Valid() {
		return nil, fmt.Errorf("malformed preferences file %s: unknown units %q", s.path, p.Units)
	}
	return &p, nil
}

// Save replaces the preferences file. The write goes through a temporary
// file so a crash never leaves a partial document behind.
func (s *FileStore) Save(p weather.Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
