package draft

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/art2002-alugu/infimobile-form/internal/models"
	"github.com/art2002-alugu/infimobile-form/pkg/logger"

	"go.uber.org/zap"
)

// Store mirrors the in-progress submission to a single JSON file so a
// restart does not lose unsaved work.
type Store struct {
	path string
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("draft path is required")
	}
	return &Store{path: path}, nil
}

// Load returns the persisted draft, or a fresh default draft when the file
// is missing or unreadable. Corrupt data never surfaces as an error.
func (s *Store) Load() *models.Submission {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read draft file", zap.String("path", s.path), zap.Error(err))
		}
		return models.DefaultSubmission()
	}

	var sub models.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		logger.Warn("Discarding corrupt draft", zap.String("path", s.path), zap.Error(err))
		return models.DefaultSubmission()
	}
	return &sub
}

// Save overwrites the stored draft with a full serialization of sub.
func (s *Store) Save(sub *models.Submission) error {
	if sub == nil {
		return errors.New("draft cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return err
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the stored draft. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
