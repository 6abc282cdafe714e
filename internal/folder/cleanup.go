package folder

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// junkFiles are deleted on every platform.
var junkFiles = map[string]bool{
	"Thumbs.db":   true,
	"desktop.ini": true,
}

// CleanupHiddenFiles deletes well-known junk artifacts from dir:
// Thumbs.db and desktop.ini always, dot-prefixed entries only on
// Windows (where they are not naturally hidden). Returns per-file
// error messages for entries that could not be removed.
func (m *Manager) CleanupHiddenFiles(dir string) []string {
	if dir == "" {
		dir = m.Folder()
	}
	if dir == "" {
		return []string{ErrNoFolder.Error()}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{classify(err).Error()}
	}

	var problems []string
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		junk := junkFiles[name]
		if !junk && runtime.GOOS == "windows" && strings.HasPrefix(name, ".") {
			junk = true
		}
		if !junk {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		removed++
		m.logger.Debug().Str("path", path).Msg("removed junk file")
	}
	if removed > 0 {
		m.logger.Info().Int("removed", removed).Str("dir", dir).Msg("hidden file cleanup done")
	}
	return problems
}
