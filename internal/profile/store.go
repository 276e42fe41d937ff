package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/telemetry"
)

const legacySettingsKey = "lm_studio"

// BackupSuffix is appended to the profile path for the single-generation backup.
const BackupSuffix = ".backup"

// Store owns the profile file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store for the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the profile file path.
func (s *Store) Path() string {
	return s.path
}

// BackupPath returns the sibling path used by Backup.
func (s *Store) BackupPath() string {
	return s.path + BackupSuffix
}

// Exists reports whether the profile file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the profile. A missing file is created from Default.
// A malformed file yields Default together with a ConfigInvalid error; the
// file is left untouched so the user can repair it.
func (s *Store) Load() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		p := Default()
		if err := s.write(p); err != nil {
			return p, err
		}
		telemetry.Info("profile.created", map[string]any{"path": s.path})
		return p, nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read profile: %w", err)
	}

	p, err := Decode(data)
	if err != nil {
		return Default(), apperr.New(apperr.ConfigInvalid, "profile.load", "malformed profile "+s.path, err)
	}
	return p, nil
}

// Decode parses profile JSON, accepting the legacy settings key.
func Decode(data []byte) (Profile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}

	settings, ok := raw["generation_settings"]
	if !ok {
		settings, ok = raw[legacySettingsKey]
	}
	if !ok {
		p.GenerationSettings = DefaultSettings()
		return p, nil
	}
	p.GenerationSettings = GenerationSettings{}
	if err := json.Unmarshal(settings, &p.GenerationSettings); err != nil {
		return Profile{}, fmt.Errorf("decode generation settings: %w", err)
	}
	p.GenerationSettings = fillSettingDefaults(p.GenerationSettings)
	return p, nil
}

// Save writes the profile atomically.
func (s *Store) Save(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(p)
}

func (s *Store) write(p Profile) error {
	data, err := json.MarshalIndent(normalize(p), "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

// Backup copies the current file to BackupPath, replacing any older backup.
// It returns "" when there is nothing to back up.
func (s *Store) Backup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open profile: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(s.BackupPath())
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("copy backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}
	return s.BackupPath(), nil
}

// UpdateSettings applies fn to the stored settings, validates them and saves.
// A malformed file is not overwritten.
func (s *Store) UpdateSettings(fn func(*GenerationSettings)) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return p, err
	}
	fn(&p.GenerationSettings)
	if err := ValidateSettings(p.GenerationSettings); err != nil {
		return p, err
	}
	if err := s.write(p); err != nil {
		return p, err
	}
	return p, nil
}
