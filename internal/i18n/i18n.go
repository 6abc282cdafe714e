// Package i18n provides user-facing message lookup with per-language
// YAML overlays. English is the base catalog; other languages override
// the keys they translate and fall back to English for the rest.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const fallbackLang = "en"

// Message keys. Every key must have an English entry; a missing
// translation in another language falls back to English.
const (
	KeyFolderNotFound    = "folder.not_found"
	KeyFolderPermission  = "folder.permission"
	KeyFolderNoSelection = "folder.no_selection"
	KeyRecordingStarted  = "recording.started"
	KeyRecordingSaved    = "recording.saved"
	KeyRecordingFailed   = "recording.failed"
	KeyRecordingNoDevice = "recording.no_device"
	KeyPlaybackFailed    = "playback.failed"
	KeyJoinDone          = "join.done"
	KeyJoinFailed        = "join.failed"
	KeyJoinCanceled      = "join.canceled"
	KeyReviewFinished    = "review.finished"
	KeyReviewGrade       = "review.grade"
	KeyExportDone        = "export.done"
	KeyExportOverlap     = "export.overlap"
	KeyOverwriteConfirm  = "overwrite.confirm"
)

type Catalog struct {
	lang     string
	messages map[string]string
	fallback map[string]string
}

// Load builds a catalog for lang from the embedded locale files.
// An unknown language yields the English catalog.
func Load(lang string) (*Catalog, error) {
	base, err := loadLocale(fallbackLang)
	if err != nil {
		return nil, fmt.Errorf("load base locale: %w", err)
	}
	c := &Catalog{lang: fallbackLang, messages: base, fallback: base}

	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == fallbackLang {
		return c, nil
	}
	overlay, err := loadLocale(lang)
	if err != nil {
		return c, nil
	}
	c.lang = lang
	c.messages = overlay
	return c, nil
}

func loadLocale(lang string) (map[string]string, error) {
	data, err := localeFS.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, err
	}
	messages := map[string]string{}
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse locale %s: %w", lang, err)
	}
	return messages, nil
}

func (c *Catalog) Lang() string {
	return c.lang
}

// T returns the message for key, formatted with args when given.
func (c *Catalog) T(key string, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = c.fallback[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Available lists the embedded locale codes, sorted.
func Available() []string {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return []string{fallbackLang}
	}
	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			langs = append(langs, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(langs)
	return langs
}
