// Package settings persists user preferences as JSON under the user's
// home directory. Unknown keys are preserved across save, so newer and
// older builds can share the same file.
package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"videoannotation/internal/review"
)

const (
	configDirName  = ".videooralannotation"
	configFileName = "settings.json"
)

// Prefs are the typed preferences the application reads and writes.
type Prefs struct {
	LastFolder       string
	LastVideo        string
	Language         string
	FullscreenZoom   float64
	ImagesThumbScale float64
	OcenaudioPath    string
	Review           review.Settings
}

// DefaultPrefs returns a fresh preference set.
func DefaultPrefs() Prefs {
	return Prefs{
		Language:         "en",
		FullscreenZoom:   1.0,
		ImagesThumbScale: 1.0,
		Review:           review.DefaultSettings(),
	}
}

// DefaultPath is ~/.videooralannotation/settings.json (or the platform
// equivalent of the home directory).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Store reads and writes the preference file, keeping the raw document
// around so keys it does not understand survive a save.
type Store struct {
	path   string
	logger zerolog.Logger
	raw    map[string]json.RawMessage
}

// Open loads the preference file at path. A missing file yields an
// empty store; a corrupt file is treated as empty with a warning, the
// broken content stands until the next save.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With().Str("component", "settings").Logger(),
		raw:    map[string]json.RawMessage{},
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.raw); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("preferences unreadable, starting fresh")
		s.raw = map[string]json.RawMessage{}
	}
	return s, nil
}

// Prefs materializes the typed preferences, falling back to defaults
// for absent or malformed fields.
func (s *Store) Prefs() Prefs {
	p := DefaultPrefs()
	getString(s.raw, "last_folder", &p.LastFolder)
	getString(s.raw, "last_video", &p.LastVideo)
	getString(s.raw, "language", &p.Language)
	getFloat(s.raw, "fullscreen_zoom", &p.FullscreenZoom)
	getFloat(s.raw, "images_thumb_scale", &p.ImagesThumbScale)
	getString(s.raw, "ocenaudio_path", &p.OcenaudioPath)
	if rawReview, ok := s.raw["review"]; ok {
		if err := json.Unmarshal(rawReview, &p.Review); err != nil {
			s.logger.Warn().Err(err).Msg("review settings unreadable, using defaults")
			p.Review = review.DefaultSettings()
		}
	}
	p.Review.Clamp()
	return p
}

// Save merges p into the raw document and writes it atomically.
// Unknown keys, at the top level and inside the review subtree, are
// preserved.
func (s *Store) Save(p Prefs) error {
	setJSON(s.raw, "last_folder", p.LastFolder)
	setJSON(s.raw, "last_video", p.LastVideo)
	setJSON(s.raw, "language", p.Language)
	setJSON(s.raw, "fullscreen_zoom", p.FullscreenZoom)
	setJSON(s.raw, "images_thumb_scale", p.ImagesThumbScale)
	setJSON(s.raw, "ocenaudio_path", p.OcenaudioPath)

	reviewRaw := map[string]json.RawMessage{}
	if existing, ok := s.raw["review"]; ok {
		json.Unmarshal(existing, &reviewRaw)
	}
	typed, err := json.Marshal(p.Review)
	if err != nil {
		return err
	}
	typedMap := map[string]json.RawMessage{}
	if err := json.Unmarshal(typed, &typedMap); err != nil {
		return err
	}
	for k, v := range typedMap {
		reviewRaw[k] = v
	}
	setJSON(s.raw, "review", reviewRaw)

	data, err := json.MarshalIndent(s.raw, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	s.logger.Debug().Str("path", s.path).Msg("preferences saved")
	return nil
}

func getString(raw map[string]json.RawMessage, key string, dst *string) {
	if v, ok := raw[key]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			*dst = s
		}
	}
}

func getFloat(raw map[string]json.RawMessage, key string, dst *float64) {
	if v, ok := raw[key]; ok {
		var f float64
		if json.Unmarshal(v, &f) == nil {
			*dst = f
		}
	}
}

func setJSON(raw map[string]json.RawMessage, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	raw[key] = data
}
