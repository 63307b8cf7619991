package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atinyakov/passc/internal/models"
)

// isYAML reports whether path names a YAML export; every other extension
// is read and written as JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Export writes entries unencrypted to path as an indented JSON array, or
// as YAML for .yaml/.yml paths.
func Export(path string, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(entries)
	} else {
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return writeFileAtomic(path, data, 0o600)
}

// ReadImport parses a file written by Export. Every record needs a
// non-empty name and a password; info may be omitted. Names are not
// checked for duplicates here, see models.Collection.Merge.
func ReadImport(path string) ([]models.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImportError{Path: path, Err: fmt.Errorf("%w: %w", ErrIO, err)}
	}

	var records []wireEntry
	if isYAML(path) {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, &ImportError{Path: path, Err: fmt.Errorf("%w: %w", ErrMalformedImport, err)}
	}

	entries := make([]models.Entry, 0, len(records))
	for i, r := range records {
		if r.Name == nil || r.Password == nil {
			return nil, &ImportError{
				Path: path,
				Err:  fmt.Errorf("%w: record %d is missing name or password", ErrMalformedImport, i),
			}
		}
		e := models.Entry{Name: *r.Name, Password: *r.Password}
		if r.Info != nil {
			e.Info = *r.Info
		}
		if err := e.Validate(); err != nil {
			return nil, &ImportError{Path: path, Err: fmt.Errorf("%w: record %d: %w", ErrMalformedImport, i, err)}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
