// Package review implements the self-quiz engine: persisted settings,
// the randomized prompt queue, outcome tracking with grading, and the
// structured session report.
package review

type Scope string

const (
	ScopeImages Scope = "images"
	ScopeVideos Scope = "videos"
	ScopeBoth   Scope = "both"
)

type LimitMode string

const (
	LimitSoft LimitMode = "soft"
	LimitHard LimitMode = "hard"
)

type SfxTone string

const (
	ToneDefault SfxTone = "default"
	ToneGentle  SfxTone = "gentle"
)

// Settings is the persisted configuration of a review session. The
// transient session state (active, paused, prompt index) lives on the
// coordinator and is never persisted.
type Settings struct {
	Scope                        Scope     `json:"scope"`
	PlayCountPerItem             int       `json:"play_count_per_item"`
	PerItemTimeLimitSec          int       `json:"per_item_time_limit_sec"`
	LimitMode                    LimitMode `json:"limit_mode"`
	TimeWeightingPercent         int       `json:"time_weighting_percent"`
	UIOverheadMs                 int       `json:"ui_overhead_ms"`
	SfxEnabled                   bool      `json:"sfx_enabled"`
	SfxVolumePercent             int       `json:"sfx_volume_percent"`
	SfxTone                      SfxTone   `json:"sfx_tone"`
	QuickConfirmMode             bool      `json:"quick_confirm_mode"`
	GroupedDefaultItemsPerFolder int       `json:"grouped_default_items_per_folder"`
	ReviewThumbScale             float64   `json:"review_thumb_scale"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Scope:                        ScopeBoth,
		PlayCountPerItem:             1,
		PerItemTimeLimitSec:          0,
		LimitMode:                    LimitSoft,
		TimeWeightingPercent:         30,
		UIOverheadMs:                 600,
		SfxEnabled:                   true,
		SfxVolumePercent:             80,
		SfxTone:                      ToneDefault,
		QuickConfirmMode:             false,
		GroupedDefaultItemsPerFolder: 10,
		ReviewThumbScale:             1.0,
	}
}

// ResetToDefaults restores the documented defaults in place.
func (s *Settings) ResetToDefaults() {
	*s = DefaultSettings()
}

// Clamp forces every field into its documented range. Impossible
// values are coerced, never rejected.
func (s *Settings) Clamp() {
	switch s.Scope {
	case ScopeImages, ScopeVideos, ScopeBoth:
	default:
		s.Scope = ScopeBoth
	}
	s.PlayCountPerItem = clampInt(s.PlayCountPerItem, 1, 10)
	s.PerItemTimeLimitSec = clampInt(s.PerItemTimeLimitSec, 0, 60)
	switch s.LimitMode {
	case LimitSoft, LimitHard:
	default:
		s.LimitMode = LimitSoft
	}
	s.TimeWeightingPercent = clampInt(s.TimeWeightingPercent, 0, 100)
	s.UIOverheadMs = clampInt(s.UIOverheadMs, 0, 2000)
	s.SfxVolumePercent = clampInt(s.SfxVolumePercent, 0, 100)
	switch s.SfxTone {
	case ToneDefault, ToneGentle:
	default:
		s.SfxTone = ToneDefault
	}
	if s.GroupedDefaultItemsPerFolder < 1 {
		s.GroupedDefaultItemsPerFolder = 1
	}
	if s.ReviewThumbScale <= 0 {
		s.ReviewThumbScale = 1.0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
