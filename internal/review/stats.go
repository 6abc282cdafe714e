package review

import (
	"math"
	"sort"
	"time"
)

type ConfirmMethod string

const (
	MethodMouse    ConfirmMethod = "mouse"
	MethodKeyboard ConfirmMethod = "keyboard"
	MethodTimeout  ConfirmMethod = "timeout"
)

// Grading constants: the time-efficiency score is 1.0 at an average
// correct-response time of Topt seconds and 0.0 at Tmax.
const (
	TimeOptimalSec = 2.0
	TimeMaxSec     = 10.0
)

// GradeThresholds maps letter grades to the minimum composite score,
// checked in descending order.
var GradeThresholds = []struct {
	Grade string
	Min   float64
}{
	{"A+", 0.95},
	{"A", 0.90},
	{"B+", 0.80},
	{"B", 0.75},
	{"C+", 0.70},
	{"C", 0.65},
	{"D", 0.55},
}

// ItemStats accumulates per-item outcomes over a session.
type ItemStats struct {
	ItemID           string
	MediaPath        string
	WavPath          string
	Kind             string
	WrongGuesses     int
	Attempts         int
	PlayCountServed  int
	TimeToCorrectSec float64
	Overtime         bool
	Timeout          bool
	ConfirmMethod    ConfirmMethod
}

// HistoryEntry is one user response, including wrong guesses.
type HistoryEntry struct {
	ItemID     string
	ElapsedSec float64
	Correct    bool
	Method     ConfirmMethod
}

// Overall is the aggregate outcome of a session.
type Overall struct {
	TotalResponses      int     `json:"total_responses"`
	CorrectResponses    int     `json:"correct_responses"`
	WrongResponses      int     `json:"wrong_responses"`
	Timeouts            int     `json:"timeouts"`
	OvertimeCount       int     `json:"overtime_count"`
	AccuracyPercent     float64 `json:"accuracy_percent"`
	AverageTimeSec      float64 `json:"average_time_sec"`
	MedianTimeSec       float64 `json:"median_time_sec"`
	TimeEfficiencyScore float64 `json:"time_efficiency_score"`
	CompositeScore      float64 `json:"composite_score"`
	Grade               string  `json:"grade"`
}

// Tracker scores a review session. Timing uses a monotonic clock with
// pause/resume; the clock is injectable for tests.
type Tracker struct {
	now func() time.Time

	items   map[string]*ItemStats
	order   []string
	history []HistoryEntry

	current     string
	startTime   time.Time
	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{
		now:   time.Now,
		items: make(map[string]*ItemStats),
	}
}

// SetClock replaces the time source. Test hook.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// RegisterItem declares an item before its first prompt.
func (t *Tracker) RegisterItem(id, mediaPath, wavPath, kind string) {
	if _, ok := t.items[id]; ok {
		return
	}
	t.items[id] = &ItemStats{ItemID: id, MediaPath: mediaPath, WavPath: wavPath, Kind: kind}
	t.order = append(t.order, id)
}

// StartPrompt stamps the start time for an item's prompt and counts
// the serving.
func (t *Tracker) StartPrompt(id string) {
	st := t.item(id)
	st.PlayCountServed++
	t.current = id
	t.startTime = t.now()
	t.paused = false
	t.pausedTotal = 0
}

// PauseTimer suspends elapsed accumulation. No-op while paused.
func (t *Tracker) PauseTimer() {
	if t.paused || t.current == "" {
		return
	}
	t.paused = true
	t.pausedAt = t.now()
}

// ResumeTimer resumes after a pause. Idempotent.
func (t *Tracker) ResumeTimer() {
	if !t.paused {
		return
	}
	t.pausedTotal += t.now().Sub(t.pausedAt)
	t.paused = false
}

// RecordResponse registers one user response for the current prompt.
// A wrong answer keeps the timing state: the same prompt is retried.
// A correct answer stores the elapsed time on first correct only and
// clears the timing state. Every response is appended to history.
func (t *Tracker) RecordResponse(id string, correct bool, method ConfirmMethod, overtime, timeout bool) {
	st := t.item(id)
	st.Attempts++
	if overtime {
		st.Overtime = true
	}
	if timeout {
		st.Timeout = true
	}

	elapsed := t.elapsed()
	if correct {
		if st.TimeToCorrectSec == 0 {
			st.TimeToCorrectSec = elapsed
		}
		st.ConfirmMethod = method
		t.current = ""
		t.paused = false
		t.pausedTotal = 0
	} else {
		st.WrongGuesses++
		if timeout {
			st.ConfirmMethod = method
		}
	}
	t.history = append(t.history, HistoryEntry{
		ItemID:     id,
		ElapsedSec: elapsed,
		Correct:    correct,
		Method:     method,
	})
}

func (t *Tracker) elapsed() float64 {
	if t.current == "" {
		return 0
	}
	paused := t.pausedTotal
	if t.paused {
		paused += t.now().Sub(t.pausedAt)
	}
	return (t.now().Sub(t.startTime) - paused).Seconds()
}

func (t *Tracker) item(id string) *ItemStats {
	st, ok := t.items[id]
	if !ok {
		st = &ItemStats{ItemID: id}
		t.items[id] = st
		t.order = append(t.order, id)
	}
	return st
}

// History returns the append-only response log.
func (t *Tracker) History() []HistoryEntry {
	out := make([]HistoryEntry, len(t.history))
	copy(out, t.history)
	return out
}

// Items returns the per-item stats in registration order.
func (t *Tracker) Items() []*ItemStats {
	out := make([]*ItemStats, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.items[id])
	}
	return out
}

// OverallStats computes the aggregate outcome. weightPercent is the
// time weighting w*100; uiOverheadSec is subtracted from each correct
// response time before averaging.
func (t *Tracker) OverallStats(weightPercent int, uiOverheadSec float64) Overall {
	o := Overall{}
	var correctTimes []float64
	for _, h := range t.history {
		o.TotalResponses++
		if h.Correct {
			o.CorrectResponses++
			eff := h.ElapsedSec - uiOverheadSec
			if eff < 0 {
				eff = 0
			}
			correctTimes = append(correctTimes, eff)
		} else {
			o.WrongResponses++
		}
	}
	for _, st := range t.items {
		if st.Timeout {
			o.Timeouts++
		}
		if st.Overtime {
			o.OvertimeCount++
		}
	}

	var accuracy float64
	if o.TotalResponses > 0 {
		accuracy = float64(o.CorrectResponses) / float64(o.TotalResponses)
	}

	var avg, med, ts float64
	if len(correctTimes) > 0 {
		sum := 0.0
		for _, v := range correctTimes {
			sum += v
		}
		avg = sum / float64(len(correctTimes))
		med = median(correctTimes)
		ts = (TimeMaxSec - avg) / (TimeMaxSec - TimeOptimalSec)
		if ts < 0 {
			ts = 0
		}
		if ts > 1 {
			ts = 1
		}
	}

	w := float64(weightPercent) / 100
	composite := (1-w)*accuracy + w*ts

	o.AccuracyPercent = round2(accuracy * 100)
	o.AverageTimeSec = round2(avg)
	o.MedianTimeSec = round2(med)
	o.TimeEfficiencyScore = round3(ts)
	o.CompositeScore = round3(composite)
	o.Grade = GradeFor(composite)
	return o
}

// GradeFor maps a composite score to its letter grade.
func GradeFor(score float64) string {
	for _, g := range GradeThresholds {
		if score >= g.Min {
			return g.Grade
		}
	}
	return "F"
}

// TroubleItems returns items with at least one wrong guess or non-zero
// time-to-correct, worst first: longest correct time, then most wrong
// guesses.
func (t *Tracker) TroubleItems() []*ItemStats {
	var out []*ItemStats
	for _, id := range t.order {
		st := t.items[id]
		if st.WrongGuesses > 0 || st.TimeToCorrectSec > 0 {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TimeToCorrectSec != out[j].TimeToCorrectSec {
			return out[i].TimeToCorrectSec > out[j].TimeToCorrectSec
		}
		return out[i].WrongGuesses > out[j].WrongGuesses
	})
	return out
}

func median(v []float64) float64 {
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
