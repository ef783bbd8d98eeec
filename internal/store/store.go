// Package store persists user-defined column synonyms.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/revenue-dash/internal/fileutils"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultSynonymsFile is the file name looked up when none is configured.
const DefaultSynonymsFile = "synonyms.yaml"

// SynonymRepository loads and extends extra column synonyms.
type SynonymRepository interface {
	Load() (map[models.Field][]string, error)
	Add(field models.Field, name string) (bool, error)
}

// SynonymsConfig is the on-disk layout:
//
//	synonyms:
//	  period: [기간, date]
//	  revenue: [sales]
type SynonymsConfig struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// SynonymStore manages loading and saving of the synonyms file
type SynonymStore struct {
	File   string
	logger logging.Logger
}

// NewSynonymStore creates a store for the given file; an empty name means
// DefaultSynonymsFile.
func NewSynonymStore(file string, logger logging.Logger) *SynonymStore {
	if file == "" {
		file = DefaultSynonymsFile
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &SynonymStore{File: file, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *SynonymStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	if configPath, err := userConfigPath(filename); err == nil {
		if fileutils.FileExists(configPath) {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func userConfigPath(filename string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "revenue-dash", filename), nil
}

// Load reads the synonyms file. A missing file yields an empty map.
func (s *SynonymStore) Load() (map[models.Field][]string, error) {
	path, err := s.FindConfigFile(s.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Synonyms file not found, using built-in synonyms only",
				logging.F(logging.FieldFile, s.File))
			return map[models.Field][]string{}, nil
		}
		return nil, fmt.Errorf("error resolving synonyms file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is resolved from configuration
	if err != nil {
		return nil, fmt.Errorf("error reading synonyms file: %w", err)
	}

	var cfg SynonymsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing synonyms file %s: %w", path, err)
	}

	result := make(map[models.Field][]string, len(cfg.Synonyms))
	for key, names := range cfg.Synonyms {
		field, err := models.ParseField(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("error in synonyms file %s: %w", path, err)
		}
		result[field] = append(result[field], names...)
	}
	if err := checkConflicts(result); err != nil {
		return nil, fmt.Errorf("error in synonyms file %s: %w", path, err)
	}

	s.logger.Debug("Loaded synonyms",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(result)))
	return result, nil
}

// Save writes the synonyms to the resolved file, or to s.File when it does not
// exist yet. Fields are written in declared order.
func (s *SynonymStore) Save(synonyms map[models.Field][]string) error {
	path, err := s.FindConfigFile(s.File)
	if err != nil {
		path = s.File
	}

	cfg := SynonymsConfig{Synonyms: make(map[string][]string, len(synonyms))}
	for _, field := range models.RequiredFields {
		if names := synonyms[field]; len(names) > 0 {
			cfg.Synonyms[string(field)] = names
		}
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("error marshaling synonyms: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing synonyms file: %w", err)
	}

	s.logger.Info("Saved synonyms", logging.F(logging.FieldFile, path))
	return nil
}

// Add records name as an extra synonym of field and saves the file. It reports
// false when the name was already present.
func (s *SynonymStore) Add(field models.Field, name string) (bool, error) {
	if _, err := models.ParseField(string(field)); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("synonym name cannot be empty")
	}

	synonyms, err := s.Load()
	if err != nil {
		return false, err
	}
	for _, existing := range synonyms[field] {
		if existing == name {
			return false, nil
		}
	}
	if other, ok := fieldOf(synonyms, name); ok {
		return false, fmt.Errorf("%q is already a synonym of %s", name, other)
	}
	synonyms[field] = append(synonyms[field], name)

	if err := s.Save(synonyms); err != nil {
		return false, err
	}
	return true, nil
}

// checkConflicts rejects a name listed under more than one field.
func checkConflicts(synonyms map[models.Field][]string) error {
	owner := make(map[string]models.Field)
	for _, field := range models.RequiredFields {
		for _, name := range synonyms[field] {
			name = strings.TrimSpace(name)
			if other, ok := owner[name]; ok && other != field {
				return fmt.Errorf("%q is listed under both %s and %s", name, other, field)
			}
			owner[name] = field
		}
	}
	return nil
}

func fieldOf(synonyms map[models.Field][]string, name string) (models.Field, bool) {
	for _, field := range models.RequiredFields {
		for _, existing := range synonyms[field] {
			if strings.TrimSpace(existing) == name {
				return field, true
			}
		}
	}
	return "", false
}
