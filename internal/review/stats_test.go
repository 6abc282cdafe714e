package review

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) advanceSec(s float64)    { c.advance(time.Duration(s * float64(time.Second))) }

func newTestTracker() (*Tracker, *fakeClock) {
	tr := NewTracker()
	clock := newFakeClock()
	tr.SetClock(clock.now)
	return tr, clock
}

func TestGradingSampleSession(t *testing.T) {
	// 10 prompts, 8 correct with elapsed times [1.5 2.0 2.5 3.0 2.0 2.5
	// 3.5 1.5], 2 never answered correctly. UI overhead 0.6 s, time
	// weighting 30%.
	tr, clock := newTestTracker()

	elapsed := []float64{1.5, 2.0, 2.5, 3.0, 2.0, 2.5, 3.5, 1.5}
	for i, e := range elapsed {
		id := fmt.Sprintf("ok%d", i)
		tr.RegisterItem(id, "/d/"+id+".mp4", "/d/"+id+".wav", "video")
		tr.StartPrompt(id)
		clock.advanceSec(e)
		tr.RecordResponse(id, true, MethodMouse, false, false)
	}
	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("bad%d", i)
		tr.RegisterItem(id, "/d/"+id+".mp4", "/d/"+id+".wav", "video")
		tr.StartPrompt(id)
		clock.advanceSec(4.0)
		tr.RecordResponse(id, false, MethodKeyboard, false, false)
	}

	o := tr.OverallStats(30, 0.6)

	require.Equal(t, 10, o.TotalResponses)
	require.Equal(t, 8, o.CorrectResponses)
	require.Equal(t, 2, o.WrongResponses)
	assert.InDelta(t, 80.0, o.AccuracyPercent, 1e-9)
	// Effective times: [0.9 1.4 1.9 2.4 1.4 1.9 2.9 0.9], mean 1.7125.
	assert.InDelta(t, 1.71, o.AverageTimeSec, 1e-9)
	assert.InDelta(t, 1.65, o.MedianTimeSec, 1e-9)
	// Ts = (10-1.7125)/8 = 1.036 clamped to 1.0.
	assert.InDelta(t, 1.0, o.TimeEfficiencyScore, 1e-9)
	// S = 0.7*0.8 + 0.3*1.0 = 0.86 -> B+.
	assert.InDelta(t, 0.86, o.CompositeScore, 1e-9)
	assert.Equal(t, "B+", o.Grade)
}

func TestFirstCorrectTimeOnly(t *testing.T) {
	tr, clock := newTestTracker()
	tr.RegisterItem("x", "/d/x.mp4", "/d/x.wav", "video")

	tr.StartPrompt("x")
	clock.advanceSec(1.0)
	tr.RecordResponse("x", false, MethodMouse, false, false)
	clock.advanceSec(1.5)
	tr.RecordResponse("x", true, MethodKeyboard, false, false)

	st := tr.Items()[0]
	assert.Equal(t, 1, st.WrongGuesses)
	assert.Equal(t, 2, st.Attempts)
	// Timing state survives the wrong guess: first correct at 2.5 s.
	assert.InDelta(t, 2.5, st.TimeToCorrectSec, 1e-9)
	assert.Equal(t, MethodKeyboard, st.ConfirmMethod)

	h := tr.History()
	require.Len(t, h, 2)
	assert.False(t, h[0].Correct)
	assert.InDelta(t, 1.0, h[0].ElapsedSec, 1e-9)
	assert.True(t, h[1].Correct)
	assert.InDelta(t, 2.5, h[1].ElapsedSec, 1e-9)
}

func TestPauseExcludedFromElapsed(t *testing.T) {
	tr, clock := newTestTracker()
	tr.RegisterItem("x", "", "", "image")

	tr.StartPrompt("x")
	clock.advanceSec(1.0)
	tr.PauseTimer()
	clock.advanceSec(30.0) // fullscreen preview open
	tr.ResumeTimer()
	clock.advanceSec(0.5)
	tr.RecordResponse("x", true, MethodMouse, false, false)

	assert.InDelta(t, 1.5, tr.Items()[0].TimeToCorrectSec, 1e-9)
}

func TestPauseResumeIdentity(t *testing.T) {
	// Pause immediately followed by resume leaves elapsed unchanged.
	tr, clock := newTestTracker()
	tr.RegisterItem("x", "", "", "image")

	tr.StartPrompt("x")
	clock.advanceSec(2.0)
	tr.PauseTimer()
	tr.ResumeTimer()
	tr.ResumeTimer() // idempotent
	clock.advanceSec(1.0)
	tr.RecordResponse("x", true, MethodMouse, false, false)

	assert.InDelta(t, 3.0, tr.Items()[0].TimeToCorrectSec, 1e-9)
}

func TestTimeoutResponse(t *testing.T) {
	tr, clock := newTestTracker()
	tr.RegisterItem("x", "", "", "video")

	tr.StartPrompt("x")
	clock.advanceSec(10.0)
	tr.RecordResponse("x", false, MethodTimeout, false, true)

	st := tr.Items()[0]
	assert.True(t, st.Timeout)
	assert.Equal(t, MethodTimeout, st.ConfirmMethod)

	o := tr.OverallStats(0, 0)
	assert.Equal(t, 1, o.Timeouts)
}

func TestGradeThresholdTable(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.97, "A+"}, {0.95, "A+"},
		{0.94, "A"}, {0.90, "A"},
		{0.85, "B+"}, {0.80, "B+"},
		{0.78, "B"}, {0.75, "B"},
		{0.72, "C+"}, {0.70, "C+"},
		{0.68, "C"}, {0.65, "C"},
		{0.60, "D"}, {0.55, "D"},
		{0.54, "F"}, {0.0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.score), "score %v", tt.score)
	}
}

func TestCompositeMonotonicity(t *testing.T) {
	// For fixed accuracy the composite is non-decreasing in Ts, and
	// vice versa.
	w := 0.4
	composite := func(a, ts float64) float64 { return (1-w)*a + w*ts }
	for a := 0.0; a <= 1.0; a += 0.25 {
		prev := -1.0
		for ts := 0.0; ts <= 1.0; ts += 0.1 {
			s := composite(a, ts)
			require.GreaterOrEqual(t, s, prev)
			prev = s
		}
	}
	for ts := 0.0; ts <= 1.0; ts += 0.25 {
		prev := -1.0
		for a := 0.0; a <= 1.0; a += 0.1 {
			s := composite(a, ts)
			require.GreaterOrEqual(t, s, prev)
			prev = s
		}
	}
}

func TestTroubleItemsOrdering(t *testing.T) {
	tr, clock := newTestTracker()

	add := func(id string, elapsed float64, wrong int) {
		tr.RegisterItem(id, "", "", "video")
		tr.StartPrompt(id)
		for i := 0; i < wrong; i++ {
			tr.RecordResponse(id, false, MethodMouse, false, false)
		}
		clock.advanceSec(elapsed)
		tr.RecordResponse(id, true, MethodMouse, false, false)
	}
	add("fast", 0.5, 0)
	add("slow", 8.0, 1)
	add("medium", 3.0, 4)

	trouble := tr.TroubleItems()
	require.Len(t, trouble, 3)
	assert.Equal(t, "slow", trouble[0].ItemID)
	assert.Equal(t, "medium", trouble[1].ItemID)
	assert.Equal(t, "fast", trouble[2].ItemID)
}

func TestTroubleItemsFilter(t *testing.T) {
	tr, _ := newTestTracker()
	tr.RegisterItem("clean", "", "", "video")
	tr.StartPrompt("clean")
	// Answered instantly with no wrong guesses: not a trouble item.
	tr.RecordResponse("clean", true, MethodMouse, false, false)

	assert.Empty(t, tr.TroubleItems())
}

func TestNoCorrectResponses(t *testing.T) {
	tr, clock := newTestTracker()
	tr.RegisterItem("x", "", "", "video")
	tr.StartPrompt("x")
	clock.advanceSec(2.0)
	tr.RecordResponse("x", false, MethodMouse, false, false)

	o := tr.OverallStats(50, 0)
	assert.Equal(t, 0.0, o.AccuracyPercent)
	assert.Equal(t, 0.0, o.TimeEfficiencyScore)
	assert.Equal(t, "F", o.Grade)
}

func TestSettingsClamp(t *testing.T) {
	s := Settings{
		Scope:                        "bogus",
		PlayCountPerItem:             99,
		PerItemTimeLimitSec:          -5,
		LimitMode:                    "none",
		TimeWeightingPercent:         150,
		UIOverheadMs:                 5000,
		SfxVolumePercent:             -1,
		SfxTone:                      "loud",
		GroupedDefaultItemsPerFolder: 0,
	}
	s.Clamp()
	assert.Equal(t, ScopeBoth, s.Scope)
	assert.Equal(t, 10, s.PlayCountPerItem)
	assert.Equal(t, 0, s.PerItemTimeLimitSec)
	assert.Equal(t, LimitSoft, s.LimitMode)
	assert.Equal(t, 100, s.TimeWeightingPercent)
	assert.Equal(t, 2000, s.UIOverheadMs)
	assert.Equal(t, 0, s.SfxVolumePercent)
	assert.Equal(t, ToneDefault, s.SfxTone)
	assert.Equal(t, 1, s.GroupedDefaultItemsPerFolder)
	assert.Equal(t, 1.0, s.ReviewThumbScale)
}
