package review

import (
	"fmt"
	"reflect"
	"testing"

	"videoannotation/internal/event"
)

func promptSet(ids ...string) []Prompt {
	out := make([]Prompt, 0, len(ids))
	for _, id := range ids {
		out = append(out, Prompt{
			ItemID:    id,
			MediaPath: "/data/" + id + ".mp4",
			WavPath:   "/data/" + id + ".wav",
		})
	}
	return out
}

func countByID(seq []Prompt) map[string]int {
	out := map[string]int{}
	for _, p := range seq {
		out[p.ItemID]++
	}
	return out
}

func TestSmallSetTotals(t *testing.T) {
	// Three items at playCount 3 yield nine prompts, three per item.
	items := promptSet("A", "B", "C")
	q := BuildQueue(items, 3, nil)

	seq := q.Sequence()
	if len(seq) != 9 {
		t.Fatalf("queue length = %d, want 9", len(seq))
	}
	counts := countByID(seq)
	for _, id := range []string{"A", "B", "C"} {
		if counts[id] != 3 {
			t.Errorf("count(%s) = %d, want 3", id, counts[id])
		}
	}
}

func TestLargeSetRoundBoundary(t *testing.T) {
	// Eight items, two rounds, fixed seed: 16 prompts and no repeat
	// across the round boundary.
	items := promptSet("A", "B", "C", "D", "E", "F", "G", "H")
	seed := int64(42)
	q := BuildQueue(items, 2, &seed)

	seq := q.Sequence()
	if len(seq) != 16 {
		t.Fatalf("queue length = %d, want 16", len(seq))
	}
	if seq[7].ItemID == seq[8].ItemID {
		t.Errorf("round boundary repeat: %s at positions 7 and 8", seq[7].ItemID)
	}
}

func TestQueueConservation(t *testing.T) {
	for _, n := range []int{1, 3, 6, 7, 8, 12, 25} {
		for _, playCount := range []int{1, 2, 3, 5} {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("item%02d", i)
			}
			q := BuildQueue(promptSet(ids...), playCount, nil)
			seq := q.Sequence()
			if len(seq) != n*playCount {
				t.Errorf("n=%d pc=%d: length = %d, want %d", n, playCount, len(seq), n*playCount)
			}
			for id, c := range countByID(seq) {
				if c != playCount {
					t.Errorf("n=%d pc=%d: count(%s) = %d, want %d", n, playCount, id, c, playCount)
				}
			}
		}
	}
}

func TestQueueDeterministicUnderSeed(t *testing.T) {
	items := promptSet("A", "B", "C", "D", "E", "F", "G", "H", "I")
	seed := int64(7)
	a := BuildQueue(items, 3, &seed).Sequence()
	b := BuildQueue(items, 3, &seed).Sequence()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different sequences")
	}
}

func TestNoAdjacentRoundRepeat(t *testing.T) {
	items := promptSet("A", "B", "C", "D", "E", "F", "G", "H", "I", "J")
	n := len(items)
	for seed := int64(0); seed < 50; seed++ {
		s := seed
		seq := BuildQueue(items, 4, &s).Sequence()
		for k := n; k < len(seq); k += n {
			if seq[k-1].ItemID == seq[k].ItemID {
				t.Errorf("seed %d: repeat %q at round boundary %d", seed, seq[k].ItemID, k)
			}
		}
	}
}

func TestQueueOperations(t *testing.T) {
	items := promptSet("A", "B")
	q := BuildQueue(items, 1, nil)

	cur, total := q.Progress()
	if cur != 0 || total != 2 {
		t.Errorf("progress = %d/%d, want 0/2", cur, total)
	}
	if q.IsFinished() {
		t.Error("fresh queue reports finished")
	}

	if _, ok := q.NextPrompt(); !ok {
		t.Fatal("first dequeue failed")
	}
	if _, ok := q.NextPrompt(); !ok {
		t.Fatal("second dequeue failed")
	}
	if _, ok := q.NextPrompt(); ok {
		t.Error("dequeue past the end succeeded")
	}
	if !q.IsFinished() {
		t.Error("drained queue not finished")
	}

	q.Reset()
	cur, _ = q.Progress()
	if cur != 0 {
		t.Errorf("reset left position %d", cur)
	}
}

func TestEmitNext(t *testing.T) {
	bus := event.NewBus()
	ch := bus.Subscribe(8)

	q := BuildQueue(promptSet("A"), 1, nil)
	q.EmitNext(bus)
	q.EmitNext(bus)

	first := <-ch
	pr, ok := first.(event.PromptReady)
	if !ok || pr.ItemID != "A" {
		t.Errorf("first emit = %#v, want PromptReady A", first)
	}
	if _, ok := (<-ch).(event.QueueFinished); !ok {
		t.Error("second emit should be QueueFinished")
	}
}

func TestQueueMetadata(t *testing.T) {
	seed := int64(99)
	q := BuildQueue(promptSet("A", "B", "C", "D", "E", "F", "G"), 2, &seed)
	meta := q.Metadata()
	if meta.Strategy != StrategyName {
		t.Errorf("strategy = %q", meta.Strategy)
	}
	if meta.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", meta.Rounds)
	}
	if meta.Seed != 99 {
		t.Errorf("seed = %d, want 99", meta.Seed)
	}
}

func TestEmptyQueue(t *testing.T) {
	q := BuildQueue(nil, 3, nil)
	if !q.IsFinished() {
		t.Error("empty queue should be finished")
	}
	if _, ok := q.NextPrompt(); ok {
		t.Error("empty queue dequeued a prompt")
	}
}
