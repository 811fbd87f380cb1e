// Package settings persists the small set of per-install values that must
// survive restarts, most importantly whether onboarding was completed.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the settings file inside the data directory
const FileName = "settings.yaml"

// Values is the on-disk representation of the settings file
type Values struct {
	InstallID    string    `yaml:"install_id"`
	HasOnboarded bool      `yaml:"has_onboarded"`
	OnboardedAt  time.Time `yaml:"onboarded_at,omitempty"`
}

// Store is a YAML-file backed settings store. Writes go to a temp file that
// is synced and renamed over the original, so a crash never leaves a
// partially written file.
type Store struct {
	path string

	mu     sync.Mutex
	values Values
}

// Open loads the settings file from dir, creating it with a fresh install
// id when it does not exist yet.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create settings dir: %w", err)
	}

	s := &Store{path: filepath.Join(dir, FileName)}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.values = Values{InstallID: uuid.New().String()}
		if err := s.save(s.values); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, &s.values); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
		}
		if s.values.InstallID == "" {
			s.values.InstallID = uuid.New().String()
			if err := s.save(s.values); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Path returns the settings file location
func (s *Store) Path() string {
	return s.path
}

// Values returns a copy of the current settings
func (s *Store) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// InstallID returns the random identifier generated on first run
func (s *Store) InstallID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.InstallID
}

// HasOnboarded reports whether onboarding has ever been completed
func (s *Store) HasOnboarded() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.HasOnboarded, nil
}

// SetHasOnboarded durably records the onboarding flag. The in-memory value
// only changes once the file is on disk.
func (s *Store) SetHasOnboarded(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.values
	next.HasOnboarded = v
	if v {
		if next.OnboardedAt.IsZero() {
			next.OnboardedAt = time.Now().UTC().Truncate(time.Second)
		}
	} else {
		next.OnboardedAt = time.Time{}
	}

	if err := s.save(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// Reset clears the onboarding flag so the next login shows onboarding again.
// The install id is kept.
func (s *Store) Reset() error {
	return s.SetHasOnboarded(false)
}

func (s *Store) save(v Values) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to chmod settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
