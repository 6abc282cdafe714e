package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"videoannotation/internal/event"
	"videoannotation/internal/review"
)

// Session is the transient state of one review run. It lives on the
// coordinator and is never persisted; only the final report is.
type Session struct {
	ID        string
	Settings  review.Settings
	Queue     *review.Queue
	Tracker   *review.Tracker
	StartedAt time.Time

	current    review.Prompt
	hasCurrent bool
	promptGen  int

	promptStart time.Time
	pausedAt    time.Time
	pausedDur   time.Duration
	previewOpen bool

	limitTimer     *time.Timer
	limitRemaining time.Duration
	limitStarted   time.Time
	limitPaused    bool
}

// reviewItem is one recorded media/annotation pair eligible for review.
type reviewItem struct {
	mediaPath string
	wavPath   string
	kind      string
}

// StartReview builds the prompt queue from the folder's recorded items
// under the current review settings and serves the first prompt. A
// non-nil seed makes the queue order reproducible.
func (c *Coordinator) StartReview(seed *int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrReviewActive
	}

	items, err := c.recordedItemsLocked()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrNoRecordedItems
	}

	c.stopRecordingLocked()
	c.stopPlaybackLocked()

	rs := c.prefs.Review
	rs.Clamp()

	prompts := make([]review.Prompt, 0, len(items))
	tracker := review.NewTracker()
	for _, it := range items {
		id := filepath.Base(it.mediaPath)
		prompts = append(prompts, review.Prompt{
			ItemID:    id,
			MediaPath: it.mediaPath,
			WavPath:   it.wavPath,
		})
		tracker.RegisterItem(id, it.mediaPath, it.wavPath, it.kind)
	}

	c.session = &Session{
		ID:        uuid.NewString(),
		Settings:  rs,
		Queue:     review.BuildQueue(prompts, rs.PlayCountPerItem, seed),
		Tracker:   tracker,
		StartedAt: time.Now(),
	}
	c.logger.Info().
		Str("session_id", c.session.ID).
		Int("items", len(items)).
		Int("play_count", rs.PlayCountPerItem).
		Msg("review started")

	c.advanceLocked()
	return nil
}

// recordedItemsLocked enumerates the media items that have an existing
// annotation, filtered by the review scope.
func (c *Coordinator) recordedItemsLocked() ([]reviewItem, error) {
	scope := c.prefs.Review.Scope
	var out []reviewItem

	if scope == review.ScopeVideos || scope == review.ScopeBoth {
		videos, err := c.folders.ListVideos()
		if err != nil {
			return nil, err
		}
		for _, v := range videos {
			wav := c.folders.WavPathFor(v)
			if _, err := os.Stat(wav); err == nil {
				out = append(out, reviewItem{mediaPath: v, wavPath: wav, kind: "video"})
			}
		}
	}
	if scope == review.ScopeImages || scope == review.ScopeBoth {
		images, err := c.folders.ListImages()
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			if wav := c.folders.FindExistingImageAudio(img); wav != "" {
				out = append(out, reviewItem{mediaPath: img, wavPath: wav, kind: "image"})
			}
		}
	}
	return out, nil
}

// ReviewProgress returns (served, total) prompts for the active
// session, zeros when none.
func (c *Coordinator) ReviewProgress() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0, 0
	}
	return c.session.Queue.Progress()
}

// ReviewOutcome computes the aggregate statistics of the active
// session so far.
func (c *Coordinator) ReviewOutcome() (review.Overall, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return review.Overall{}, false
	}
	s := c.session
	return s.Tracker.OverallStats(s.Settings.TimeWeightingPercent, float64(s.Settings.UIOverheadMs)/1000), true
}

// InReview reports whether a session is active.
func (c *Coordinator) InReview() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// CurrentPrompt returns the prompt awaiting a response.
func (c *Coordinator) CurrentPrompt() (review.Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || !c.session.hasCurrent {
		return review.Prompt{}, false
	}
	return c.session.current, true
}

// ConfirmResponse registers the user's answer to the current prompt.
// A wrong answer keeps the prompt active; a correct one advances.
func (c *Coordinator) ConfirmResponse(correct bool, method review.ConfirmMethod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil || !s.hasCurrent {
		return
	}

	overtime := false
	if s.Settings.PerItemTimeLimitSec > 0 {
		overtime = s.promptElapsed() > time.Duration(s.Settings.PerItemTimeLimitSec)*time.Second
	}

	s.Tracker.RecordResponse(s.current.ItemID, correct, method, overtime, false)
	if correct {
		c.disarmLimitLocked()
		c.advanceLocked()
	}
}

// EnterFullscreenPreview suspends the response timer while the user
// inspects the stimulus up close.
func (c *Coordinator) EnterFullscreenPreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil || !s.hasCurrent {
		return
	}
	s.Tracker.PauseTimer()
	if !s.previewOpen {
		s.previewOpen = true
		s.pausedAt = time.Now()
	}
	c.pauseLimitLocked()
}

// ExitFullscreenPreview resumes the response timer.
func (c *Coordinator) ExitFullscreenPreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil || !s.hasCurrent {
		return
	}
	s.Tracker.ResumeTimer()
	if s.previewOpen {
		s.pausedDur += time.Since(s.pausedAt)
		s.previewOpen = false
	}
	c.resumeLimitLocked()
}

// FinishReview writes the session report into dir and ends the session.
func (c *Coordinator) FinishReview(dir string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return "", ErrNoRecordedItems
	}
	c.disarmLimitLocked()

	in := review.ReportInput{
		SessionID:   s.ID,
		Language:    c.prefs.Language,
		AppVersion:  Version,
		Settings:    s.Settings,
		QueueMeta:   s.Queue.Metadata(),
		Tracker:     s.Tracker,
		FFmpegPath:  c.resolver.ResolvePathOnly("ffmpeg"),
		FFprobePath: c.resolver.ResolvePathOnly("ffprobe"),
	}
	path, err := review.WriteReport(dir, in, time.Now())
	if err != nil {
		return "", err
	}
	c.logger.Info().Str("session_id", s.ID).Str("report", path).Msg("review finished")
	c.session = nil
	return path, nil
}

// CancelReview abandons the session without writing a report.
func (c *Coordinator) CancelReview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelReviewLocked()
}

func (c *Coordinator) cancelReviewLocked() {
	if c.session == nil {
		return
	}
	c.disarmLimitLocked()
	c.logger.Info().Str("session_id", c.session.ID).Msg("review canceled")
	c.session = nil
	c.bus.Publish(event.Canceled{Stage: "review"})
}

// advanceLocked serves the next prompt or finishes the queue. Callers
// hold c.mu.
func (c *Coordinator) advanceLocked() {
	s := c.session
	p, ok := s.Queue.NextPrompt()
	if !ok {
		s.hasCurrent = false
		c.bus.Publish(event.QueueFinished{})
		return
	}
	s.current = p
	s.hasCurrent = true
	s.promptGen++
	s.promptStart = time.Now()
	s.pausedDur = 0
	s.previewOpen = false
	s.Tracker.StartPrompt(p.ItemID)
	c.armLimitLocked()
	c.bus.Publish(event.PromptReady{ItemID: p.ItemID, WavPath: p.WavPath})
}

// Hard-limit timer. Armed per prompt, paused with the tracker during
// fullscreen preview, and disarmed on a correct response.

func (c *Coordinator) armLimitLocked() {
	s := c.session
	if s.Settings.PerItemTimeLimitSec <= 0 || s.Settings.LimitMode != review.LimitHard {
		return
	}
	s.limitRemaining = time.Duration(s.Settings.PerItemTimeLimitSec) * time.Second
	s.limitStarted = time.Now()
	s.limitPaused = false
	gen := s.promptGen
	s.limitTimer = time.AfterFunc(s.limitRemaining, func() {
		c.handleHardTimeout(gen)
	})
}

func (c *Coordinator) disarmLimitLocked() {
	s := c.session
	if s != nil && s.limitTimer != nil {
		s.limitTimer.Stop()
		s.limitTimer = nil
	}
}

func (c *Coordinator) pauseLimitLocked() {
	s := c.session
	if s.limitTimer == nil || s.limitPaused {
		return
	}
	s.limitTimer.Stop()
	s.limitRemaining -= time.Since(s.limitStarted)
	if s.limitRemaining < 0 {
		s.limitRemaining = 0
	}
	s.limitPaused = true
}

func (c *Coordinator) resumeLimitLocked() {
	s := c.session
	if s.limitTimer == nil || !s.limitPaused {
		return
	}
	s.limitStarted = time.Now()
	s.limitPaused = false
	gen := s.promptGen
	s.limitTimer = time.AfterFunc(s.limitRemaining, func() {
		c.handleHardTimeout(gen)
	})
}

// handleHardTimeout auto-records a timeout response for the prompt the
// timer was armed for. Stale fires from an already-answered prompt are
// dropped by the generation check.
func (c *Coordinator) handleHardTimeout(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil || !s.hasCurrent || s.promptGen != gen {
		return
	}
	c.logger.Debug().Str("item", s.current.ItemID).Msg("hard time limit reached")
	s.Tracker.RecordResponse(s.current.ItemID, false, review.MethodTimeout, false, true)
	s.limitTimer = nil
	c.advanceLocked()
}

// promptElapsed is the active response time for the current prompt,
// excluding fullscreen-preview pauses.
func (s *Session) promptElapsed() time.Duration {
	paused := s.pausedDur
	if s.previewOpen {
		paused += time.Since(s.pausedAt)
	}
	return time.Since(s.promptStart) - paused
}
