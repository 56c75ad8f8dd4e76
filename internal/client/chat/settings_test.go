package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSettingsStoreMissingFile(t *testing.T) {
	store := NewFileSettingsStore(filepath.Join(t.TempDir(), "none.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if got != DefaultSettings() {
		t.Errorf("Expected defaults, got %+v", got)
	}
}

func TestFileSettingsStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewFileSettingsStore(path)

	want := Settings{AutoHide: false, HideDuration: 1200}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := NewFileSettingsStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	data, _ := os.ReadFile(path)
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Expected JSON file, got %v", err)
	}
	if _, ok := doc[SettingsKey]; !ok {
		t.Errorf("Expected settings under %q, got %s", SettingsKey, data)
	}
}

func TestFileSettingsStorePartialAndForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{"other":{"x":1},"chat_settings":{"hideDuration":800}}`), 0o644)

	store := NewFileSettingsStore(path)
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.AutoHide || got.HideDuration != 800 {
		t.Errorf("Expected default autoHide with duration 800, got %+v", got)
	}

	if err := store.Save(got); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	var doc map[string]json.RawMessage
	json.Unmarshal(data, &doc)
	if _, ok := doc["other"]; !ok {
		t.Error("Expected unrelated keys to survive a save")
	}
}

func TestFileSettingsStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{not json`), 0o644)

	got, err := NewFileSettingsStore(path).Load()
	if err == nil {
		t.Error("Expected an error for a corrupt file")
	}
	if got != DefaultSettings() {
		t.Errorf("Expected defaults for a corrupt file, got %+v", got)
	}
}

func TestSettingsApply(t *testing.T) {
	off := false
	neg := -5
	dur := 2000

	s := DefaultSettings().Apply(SettingsPatch{AutoHide: &off})
	if s.AutoHide || s.HideDuration != 5000 {
		t.Errorf("Unexpected settings %+v", s)
	}
	s = s.Apply(SettingsPatch{HideDuration: &neg})
	if s.HideDuration != 5000 {
		t.Errorf("Expected negative duration ignored, got %d", s.HideDuration)
	}
	s = s.Apply(SettingsPatch{HideDuration: &dur})
	if s.HideDuration != 2000 {
		t.Errorf("Expected duration 2000, got %d", s.HideDuration)
	}
}
