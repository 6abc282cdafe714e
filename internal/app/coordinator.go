// Package app wires the folder manager, audio workers, review engine
// and preference store together. The coordinator holds references
// downward only; workers report back through the event bus.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"videoannotation/internal/audio"
	"videoannotation/internal/event"
	"videoannotation/internal/folder"
	"videoannotation/internal/settings"
	"videoannotation/internal/tools"
)

// Version is the application version stamped into session reports.
const Version = "1.2.0"

var (
	ErrReviewActive      = errors.New("review session active")
	ErrOverwriteDeclined = errors.New("overwrite declined")
	ErrNoRecordedItems   = errors.New("no recorded items in scope")
)

// ConfirmFunc asks the user whether an existing file may be replaced.
type ConfirmFunc func(path string) bool

type Coordinator struct {
	logger   zerolog.Logger
	bus      *event.Bus
	backend  audio.Backend
	folders  *folder.Manager
	store    *settings.Store
	resolver *tools.Resolver

	mu          sync.Mutex
	prefs       settings.Prefs
	chunkFrames int

	recorder *audio.Recorder
	player   *audio.Player

	session *Session
}

func NewCoordinator(bus *event.Bus, backend audio.Backend, store *settings.Store, resolver *tools.Resolver, logger zerolog.Logger) *Coordinator {
	c := &Coordinator{
		logger:      logger.With().Str("component", "coordinator").Logger(),
		bus:         bus,
		backend:     backend,
		folders:     folder.NewManager(bus, logger),
		store:       store,
		resolver:    resolver,
		prefs:       store.Prefs(),
		chunkFrames: audio.FramesPerChunk,
	}
	return c
}

// SetAudioChunkFrames sets the device buffer size handed to the capture
// and playback workers. Values < 1 keep the current size.
func (c *Coordinator) SetAudioChunkFrames(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n >= 1 {
		c.chunkFrames = n
	}
}

func (c *Coordinator) Folders() *folder.Manager {
	return c.folders
}

func (c *Coordinator) Prefs() settings.Prefs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// UpdatePrefs applies fn to the preferences and persists the result.
func (c *Coordinator) UpdatePrefs(fn func(*settings.Prefs)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.prefs)
	c.prefs.Review.Clamp()
	return c.store.Save(c.prefs)
}

// OpenFolder switches the working folder. Any running capture or
// playback is stopped first; on success the folder is remembered.
func (c *Coordinator) OpenFolder(path string) bool {
	c.mu.Lock()
	c.stopRecordingLocked()
	c.stopPlaybackLocked()
	c.mu.Unlock()

	if !c.folders.SetFolder(path) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.LastFolder = c.folders.Folder()
	if err := c.store.Save(c.prefs); err != nil {
		c.logger.Warn().Err(err).Msg("cannot persist folder preference")
	}
	return true
}

// SelectMedia records the current selection. Switching selection cancels
// an in-flight recording and stops playback.
func (c *Coordinator) SelectMedia(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRecordingLocked()
	c.stopPlaybackLocked()
	c.prefs.LastVideo = filepath.Base(path)
	if err := c.store.Save(c.prefs); err != nil {
		c.logger.Warn().Err(err).Msg("cannot persist selection preference")
	}
}

// StartRecording begins capture into targetPath. When the target exists
// the confirm callback decides; declining leaves everything unchanged.
// Recording is disallowed while a review session is active.
func (c *Coordinator) StartRecording(targetPath string, confirm ConfirmFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrReviewActive
	}
	if !c.backend.Available() {
		return audio.ErrBackendUnavailable
	}
	if _, err := os.Stat(targetPath); err == nil {
		if confirm == nil || !confirm(targetPath) {
			return ErrOverwriteDeclined
		}
	}

	c.stopPlaybackLocked()
	c.stopRecordingLocked()

	c.recorder = audio.NewRecorder(c.backend, c.bus, c.chunkFrames, c.logger)
	c.recorder.Start(targetPath)
	c.logger.Info().Str("path", targetPath).Msg("recording started")
	return nil
}

// StopRecording ends the active capture and waits for the worker.
func (c *Coordinator) StopRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRecordingLocked()
}

// IsRecording reports whether a capture worker is active.
func (c *Coordinator) IsRecording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recorder != nil
}

// Play starts playback of path, stopping any running capture or
// previous playback first.
func (c *Coordinator) Play(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.backend.Available() {
		return audio.ErrBackendUnavailable
	}
	c.stopRecordingLocked()
	c.stopPlaybackLocked()

	c.player = audio.NewPlayer(c.backend, c.bus, c.chunkFrames, c.logger)
	c.player.Start(path)
	return nil
}

// StopPlayback stops the active player and waits for the worker.
func (c *Coordinator) StopPlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPlaybackLocked()
}

func (c *Coordinator) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player != nil
}

// JoinRecordings concatenates the folder's recordings into outputPath.
// Playback and capture are quiesced before the join starts.
func (c *Coordinator) JoinRecordings(ctx context.Context, inputs []string, outputPath string) error {
	c.mu.Lock()
	c.stopRecordingLocked()
	c.stopPlaybackLocked()
	c.mu.Unlock()

	j := audio.NewJoiner(c.bus, c.logger)
	return j.Join(ctx, inputs, outputPath)
}

// Close shuts everything down: workers stopped, review canceled,
// preferences flushed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelReviewLocked()
	c.stopRecordingLocked()
	c.stopPlaybackLocked()
	if err := c.store.Save(c.prefs); err != nil {
		c.logger.Warn().Err(err).Msg("cannot flush preferences")
	}
}

// stopRecordingLocked quiesces the capture worker. Callers hold c.mu.
func (c *Coordinator) stopRecordingLocked() {
	if c.recorder == nil {
		return
	}
	c.recorder.Stop()
	c.recorder.Wait()
	c.recorder = nil
}

func (c *Coordinator) stopPlaybackLocked() {
	if c.player == nil {
		return
	}
	c.player.Stop()
	c.player.Wait()
	c.player = nil
}
