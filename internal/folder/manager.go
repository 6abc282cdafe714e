// Package folder is the single source of truth for the current working
// folder: it enumerates videos, images and recordings, resolves
// annotation paths from media names, and publishes change events.
package folder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"videoannotation/internal/event"
	"videoannotation/internal/media"
)

// imageSubdirs are the fixed sibling subdirectories scanned for images
// at depth 1, in addition to the folder itself.
var imageSubdirs = []string{"images", "Images"}

type Manager struct {
	logger zerolog.Logger
	bus    *event.Bus

	mu     sync.RWMutex
	folder string
}

func NewManager(bus *event.Bus, logger zerolog.Logger) *Manager {
	return &Manager{
		logger: logger.With().Str("component", "folder").Logger(),
		bus:    bus,
	}
}

// Folder returns the current working folder, empty if none is set.
func (m *Manager) Folder() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.folder
}

// SetFolder switches the working folder. It succeeds only if path is an
// existing, readable, traversable directory and a trial listing works.
// On success it emits FolderChanged, then VideosUpdated and
// ImagesUpdated. On failure it returns false without mutating state.
func (m *Manager) SetFolder(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		m.logger.Warn().Err(err).Str("path", path).Msg("rejecting folder")
		return false
	}
	if _, err := os.ReadDir(path); err != nil {
		m.logger.Warn().Err(err).Str("path", path).Msg("trial listing failed")
		return false
	}

	path = filepath.Clean(path)
	m.mu.Lock()
	m.folder = path
	m.mu.Unlock()

	m.logger.Info().Str("path", path).Msg("working folder changed")
	m.bus.Publish(event.FolderChanged{Path: path})

	videos, _ := m.ListVideosIn(path)
	m.bus.Publish(event.VideosUpdated{Videos: videos})
	images, _ := m.ListImagesIn(path)
	m.bus.Publish(event.ImagesUpdated{Folder: path, Images: images})
	return true
}

// ListVideos lists the videos of the current folder.
func (m *Manager) ListVideos() ([]string, error) {
	dir := m.Folder()
	if dir == "" {
		return nil, ErrNoFolder
	}
	return m.ListVideosIn(dir)
}

// ListVideosIn returns a lexicographically sorted list of absolute
// video paths in dir. Dotfiles are skipped.
func (m *Manager) ListVideosIn(dir string) ([]string, error) {
	return m.listMatching(dir, media.IsSupportedVideo)
}

// ListImages lists the images of the current folder.
func (m *Manager) ListImages() ([]string, error) {
	dir := m.Folder()
	if dir == "" {
		return nil, ErrNoFolder
	}
	return m.ListImagesIn(dir)
}

// ListImagesIn returns the sorted image paths of dir plus the fixed
// sibling subdirectories at depth 1.
func (m *Manager) ListImagesIn(dir string) ([]string, error) {
	out, err := m.listMatching(dir, media.IsSupportedImage)
	if err != nil {
		return nil, err
	}
	for _, sub := range imageSubdirs {
		subdir := filepath.Join(dir, sub)
		info, err := os.Stat(subdir)
		if err != nil || !info.IsDir() {
			continue
		}
		more, err := m.listMatching(subdir, media.IsSupportedImage)
		if err != nil {
			m.logger.Debug().Err(err).Str("dir", subdir).Msg("skipping image subdir")
			continue
		}
		out = append(out, more...)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Manager) listMatching(dir string, match func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classify(err)
	}
	out := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if match(name) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// WavPathFor resolves the annotation path for a video name in the
// current folder: {folder}/{stem}.wav.
func (m *Manager) WavPathFor(videoName string) string {
	dir := m.Folder()
	stem := strings.TrimSuffix(filepath.Base(videoName), filepath.Ext(videoName))
	return filepath.Join(dir, stem+".wav")
}

// WavPathForImage resolves the canonical annotation path for an image.
func (m *Manager) WavPathForImage(imagePath string) string {
	return media.WavPathForImage(imagePath)
}

// FindExistingImageAudio returns the first existing candidate among the
// canonical and legacy pairing forms, or empty if none exists.
func (m *Manager) FindExistingImageAudio(imagePath string) string {
	for _, candidate := range media.ImageAudioCandidates(imagePath) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Recordings lists all annotation WAVs in the current folder.
func (m *Manager) Recordings() ([]string, error) {
	dir := m.Folder()
	if dir == "" {
		return nil, ErrNoFolder
	}
	return m.RecordingsIn(dir)
}

// RecordingsIn lists all .wav files in dir, sorted, dotfiles excluded.
func (m *Manager) RecordingsIn(dir string) ([]string, error) {
	return m.listMatching(dir, media.IsWav)
}

// VideoRecordingsIn lists WAVs paired with a video in dir.
func (m *Manager) VideoRecordingsIn(dir string) ([]string, error) {
	videos, err := m.ListVideosIn(dir)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]bool, len(videos))
	for _, v := range videos {
		stems[media.NewVideoItem(v).Stem] = true
	}

	wavs, err := m.RecordingsIn(dir)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, w := range wavs {
		base := filepath.Base(w)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if stems[stem] {
			out = append(out, w)
		}
	}
	return out, nil
}

// ImageRecordingsIn lists WAVs paired with an image in dir, matching
// the canonical form first and the legacy form second.
func (m *Manager) ImageRecordingsIn(dir string) ([]string, error) {
	images, err := m.ListImagesIn(dir)
	if err != nil {
		return nil, err
	}
	paired := make(map[string]bool, len(images)*2)
	for _, img := range images {
		for _, candidate := range media.ImageAudioCandidates(img) {
			paired[candidate] = true
		}
	}

	wavs, err := m.RecordingsIn(dir)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, w := range wavs {
		if paired[w] {
			out = append(out, w)
		}
	}
	return out, nil
}
