package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SettingsKey is the key the chat panel settings are stored under
const SettingsKey = "chat_settings"

// Settings are the player-adjustable chat panel options
type Settings struct {
	AutoHide     bool `json:"autoHide"`
	HideDuration int  `json:"hideDuration"` // ms
}

// DefaultSettings returns the settings used before anything is saved
func DefaultSettings() Settings {
	return Settings{AutoHide: true, HideDuration: 5000}
}

// SettingsPatch is a partial settings update; nil fields are left alone
type SettingsPatch struct {
	AutoHide     *bool `json:"autoHide,omitempty"`
	HideDuration *int  `json:"hideDuration,omitempty"`
}

// Apply returns s with the patch's fields applied. Negative durations are ignored.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.AutoHide != nil {
		s.AutoHide = *p.AutoHide
	}
	if p.HideDuration != nil && *p.HideDuration >= 0 {
		s.HideDuration = *p.HideDuration
	}
	return s
}

// SettingsStore persists chat settings between sessions
type SettingsStore interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileSettingsStore keeps settings in a JSON file under SettingsKey.
// Other top-level keys in the file are preserved.
type FileSettingsStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSettingsStore creates a store backed by path
func NewFileSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

func (s *FileSettingsStore) readAll() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read settings: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return make(map[string]json.RawMessage), fmt.Errorf("parse settings: %w", err)
	}
	return doc, nil
}

// Load returns the saved settings over the defaults. A missing file is not an
// error; a corrupt one returns the defaults along with the error.
func (s *FileSettingsStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := DefaultSettings()

	doc, err := s.readAll()
	if err != nil {
		return settings, err
	}
	raw, ok := doc[SettingsKey]
	if !ok {
		return settings, nil
	}

	var patch SettingsPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return settings, fmt.Errorf("parse %s: %w", SettingsKey, err)
	}
	return settings.Apply(patch), nil
}

// Save writes settings, creating the directory if needed
func (s *FileSettingsStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readAll()
	if err != nil {
		doc = make(map[string]json.RawMessage)
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	doc[SettingsKey] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// MemorySettingsStore keeps settings in memory
type MemorySettingsStore struct {
	settings Settings
	saves    int
	mu       sync.Mutex
}

// NewMemorySettingsStore creates a store holding initial
func NewMemorySettingsStore(initial Settings) *MemorySettingsStore {
	return &MemorySettingsStore{settings: initial}
}

// Load returns the stored settings
func (m *MemorySettingsStore) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

// Save replaces the stored settings
func (m *MemorySettingsStore) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	m.saves++
	return nil
}

// Saves reports how many times Save was called
func (m *MemorySettingsStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
