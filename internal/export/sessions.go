package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

type Format string

const (
	FormatFolders Format = "folders"
	FormatZip     Format = "zip"
)

// SessionGroup describes one exported container.
type SessionGroup struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Count int    `json:"count"`
}

type SessionSummary struct {
	Format      Format         `json:"format"`
	TotalGroups int            `json:"total_groups"`
	TotalItems  int            `json:"total_items"`
	Groups      []SessionGroup `json:"groups"`
}

var forbiddenNameChars = `/\:*?"<>|`

// SanitizeName makes a session name filesystem-safe: forbidden
// characters become '-', leading/trailing space and dot are stripped.
// Empty results fall back to the caller's default.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(forbiddenNameChars, r) {
			b.WriteRune('-')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), " .")
}

// sessionName picks the container name for 0-based session index i.
func sessionName(groupNames []string, i int) string {
	if i < len(groupNames) {
		if s := SanitizeName(groupNames[i]); s != "" {
			return s
		}
	}
	return fmt.Sprintf("Set %d", i+1)
}

// ExportSessions writes one container per session, either a directory
// or a deflate ZIP with entries stored by basename. Moving sessions
// that share a source file is rejected up front.
func ExportSessions(sessions [][]Pair, outputDir string, format Format, transfer Transfer, groupNames []string, logger zerolog.Logger) (*SessionSummary, error) {
	if transfer == TransferMove {
		if dup := findOverlap(sessions); dup != "" {
			return nil, fmt.Errorf("source file %s appears in more than one session; move would lose it", dup)
		}
	}

	summary := &SessionSummary{Format: format, Groups: []SessionGroup{}}
	for i, session := range sessions {
		name := sessionName(groupNames, i)

		var path string
		var err error
		if format == FormatZip {
			path = filepath.Join(outputDir, name+".zip")
			err = writeSessionZip(path, session)
		} else {
			path = filepath.Join(outputDir, name)
			err = writeSessionFolder(path, session, transfer)
		}
		if err != nil {
			return nil, err
		}

		count := countFiles(session)
		summary.Groups = append(summary.Groups, SessionGroup{Name: name, Path: path, Count: count})
		summary.TotalGroups++
		summary.TotalItems += len(session)
		logger.Debug().Str("name", name).Int("files", count).Msg("session exported")
	}

	logger.Info().
		Str("format", string(format)).
		Int("groups", summary.TotalGroups).
		Int("items", summary.TotalItems).
		Msg("session export done")
	return summary, nil
}

func findOverlap(sessions [][]Pair) string {
	seen := map[string]bool{}
	for _, session := range sessions {
		for _, p := range session {
			if seen[p.MediaPath] {
				return p.MediaPath
			}
			seen[p.MediaPath] = true
			if p.WavPath != "" {
				if seen[p.WavPath] {
					return p.WavPath
				}
				seen[p.WavPath] = true
			}
		}
	}
	return ""
}

func countFiles(session []Pair) int {
	n := 0
	for _, p := range session {
		n++
		if p.WavPath != "" {
			if _, err := os.Stat(p.WavPath); err == nil {
				n++
			}
		}
	}
	return n
}

func writeSessionFolder(dir string, session []Pair, transfer Transfer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, p := range session {
		if err := transferPair(p, dir, transfer); err != nil {
			return err
		}
	}
	return nil
}

// writeSessionZip creates a deflate ZIP whose entries are the bare
// basenames of the session's files. The copy/move setting does not
// apply: sources are always left in place.
func writeSessionZip(path string, session []Pair) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	addFile := func(src string) error {
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		hdr := &zip.FileHeader{
			Name:     filepath.Base(src),
			Method:   zip.Deflate,
			Modified: info.ModTime(),
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		in, err := os.Open(src)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	}

	for _, p := range session {
		if err := addFile(p.MediaPath); err != nil {
			zw.Close()
			f.Close()
			os.Remove(path)
			return err
		}
		if p.WavPath != "" {
			if _, err := os.Stat(p.WavPath); err == nil {
				if err := addFile(p.WavPath); err != nil {
					zw.Close()
					f.Close()
					os.Remove(path)
					return err
				}
			}
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
