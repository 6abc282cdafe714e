package review

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"videoannotation/internal/event"
)

// smallSetThreshold selects the budgeted-random build path. Below it,
// strict anti-repeat would starve the candidate pool, so adjacency
// repeats are accepted in exchange for exact per-item totals.
const smallSetThreshold = 6

// StrategyName is the literal recorded in queue metadata and reports.
const StrategyName = "shuffle_without_replacement_per_round"

// Prompt is one occurrence of a recorded item in the queue.
type Prompt struct {
	ItemID    string
	MediaPath string
	WavPath   string
}

// QueueMetadata describes how the sequence was randomized.
type QueueMetadata struct {
	Strategy string `json:"strategy"`
	Rounds   int    `json:"rounds"`
	Seed     int64  `json:"seed"`
}

// Queue is a finite randomized sequence of prompts over a set of
// recorded items. Each item appears exactly playCount times in total.
type Queue struct {
	prompts []Prompt
	pos     int
	meta    QueueMetadata
}

// BuildQueue produces the randomized sequence. With a non-nil seed the
// sequence is deterministic; afterwards randomness is reseeded from
// system entropy so later sessions are not reproducible.
func BuildQueue(items []Prompt, playCount int, seed *int64) *Queue {
	if playCount < 1 {
		playCount = 1
	}

	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = entropySeed()
	}
	rng := rand.New(rand.NewSource(s))

	n := len(items)
	var prompts []Prompt
	switch {
	case n == 0:
		prompts = []Prompt{}
	case n <= smallSetThreshold:
		prompts = buildSmall(rng, items, playCount)
	case playCount == 1:
		prompts = shuffled(rng, items)
	default:
		prompts = buildRounds(rng, items, playCount)
	}

	return &Queue{
		prompts: prompts,
		meta: QueueMetadata{
			Strategy: StrategyName,
			Rounds:   playCount,
			Seed:     s,
		},
	}
}

// buildSmall picks each position uniformly among items with remaining
// budget, keeping exact totals per item.
func buildSmall(rng *rand.Rand, items []Prompt, playCount int) []Prompt {
	budget := make([]int, len(items))
	for i := range budget {
		budget[i] = playCount
	}
	out := make([]Prompt, 0, len(items)*playCount)
	for len(out) < len(items)*playCount {
		candidates := make([]int, 0, len(items))
		for i, b := range budget {
			if b > 0 {
				candidates = append(candidates, i)
			}
		}
		pick := candidates[rng.Intn(len(candidates))]
		budget[pick]--
		out = append(out, items[pick])
	}
	return out
}

func shuffled(rng *rand.Rand, items []Prompt) []Prompt {
	out := make([]Prompt, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// buildRounds produces playCount independent shuffles, each rotated by
// its round index to decorrelate positions. At every round boundary, a
// repeat of the previous round's last item is swapped away.
func buildRounds(rng *rand.Rand, items []Prompt, playCount int) []Prompt {
	n := len(items)
	out := make([]Prompt, 0, n*playCount)
	for r := 0; r < playCount; r++ {
		round := shuffled(rng, items)
		rotate(round, r%n)
		if len(out) > 0 && round[0].ItemID == out[len(out)-1].ItemID {
			j := 1 + rng.Intn(n-1)
			round[0], round[j] = round[j], round[0]
		}
		out = append(out, round...)
	}
	return out
}

func rotate(p []Prompt, k int) {
	if k == 0 || len(p) == 0 {
		return
	}
	k %= len(p)
	rotated := append(append([]Prompt{}, p[k:]...), p[:k]...)
	copy(p, rotated)
}

func entropySeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// Entropy exhaustion is not realistically recoverable here;
		// a zero seed still yields a valid (if predictable) queue.
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// NextPrompt dequeues one prompt; ok is false when the queue is done.
func (q *Queue) NextPrompt() (Prompt, bool) {
	if q.pos >= len(q.prompts) {
		return Prompt{}, false
	}
	p := q.prompts[q.pos]
	q.pos++
	return p, true
}

// EmitNext publishes PromptReady for the next prompt, or QueueFinished
// when the sequence is exhausted.
func (q *Queue) EmitNext(bus *event.Bus) {
	p, ok := q.NextPrompt()
	if !ok {
		bus.Publish(event.QueueFinished{})
		return
	}
	bus.Publish(event.PromptReady{ItemID: p.ItemID, WavPath: p.WavPath})
}

// Progress returns (served, total).
func (q *Queue) Progress() (int, int) {
	return q.pos, len(q.prompts)
}

func (q *Queue) IsFinished() bool {
	return q.pos >= len(q.prompts)
}

// Reset rewinds the queue to the beginning of the same sequence.
func (q *Queue) Reset() {
	q.pos = 0
}

func (q *Queue) Metadata() QueueMetadata {
	return q.meta
}

// Sequence returns a copy of the full prompt order.
func (q *Queue) Sequence() []Prompt {
	out := make([]Prompt, len(q.prompts))
	copy(out, q.prompts)
	return out
}
