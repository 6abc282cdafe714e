package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"videoannotation/internal/review"
)

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	p := s.Prefs()
	if p.Language != "en" || p.FullscreenZoom != 1.0 {
		t.Errorf("defaults = %+v", p)
	}
	if p.Review.PlayCountPerItem != 1 {
		t.Errorf("review defaults = %+v", p.Review)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.json")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	p := DefaultPrefs()
	p.LastFolder = "/data/session1"
	p.LastVideo = "story.mp4"
	p.Language = "es"
	p.Review.PlayCountPerItem = 3
	p.Review.Scope = review.ScopeImages
	if err := s.Save(p); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	got := s2.Prefs()
	if got.LastFolder != "/data/session1" || got.LastVideo != "story.mp4" || got.Language != "es" {
		t.Errorf("reloaded = %+v", got)
	}
	if got.Review.PlayCountPerItem != 3 || got.Review.Scope != review.ScopeImages {
		t.Errorf("reloaded review = %+v", got.Review)
	}
}

func TestUnknownKeysPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	original := `{
  "last_folder": "/old",
  "experimental_flag": true,
  "review": {"play_count_per_item": 2, "future_option": "keep-me"}
}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	p := s.Prefs()
	if p.Review.PlayCountPerItem != 2 {
		t.Errorf("play count = %d", p.Review.PlayCountPerItem)
	}
	p.LastFolder = "/new"
	if err := s.Save(p); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["experimental_flag"] != true {
		t.Error("top-level unknown key lost")
	}
	if doc["last_folder"] != "/new" {
		t.Errorf("last_folder = %v", doc["last_folder"])
	}
	reviewDoc := doc["review"].(map[string]any)
	if reviewDoc["future_option"] != "keep-me" {
		t.Error("nested unknown key lost")
	}
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	p := s.Prefs()
	if p.Language != "en" {
		t.Errorf("prefs from corrupt file = %+v", p)
	}
}

func TestClampOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"review": {"play_count_per_item": 50, "time_weighting_percent": -10}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	p := s.Prefs()
	if p.Review.PlayCountPerItem != 10 {
		t.Errorf("play count not clamped: %d", p.Review.PlayCountPerItem)
	}
	if p.Review.TimeWeightingPercent != 0 {
		t.Errorf("weighting not clamped: %d", p.Review.TimeWeightingPercent)
	}
}
