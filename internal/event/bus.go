// Package event carries the typed messages exchanged between background
// workers and the coordinator. Workers publish; the coordinator consumes
// on a single goroutine, so observable state mutations stay serialized.
package event

import "sync"

type Event interface {
	event()
}

// Folder lifecycle. FolderChanged always precedes VideosUpdated and
// ImagesUpdated for the same transition.
type FolderChanged struct{ Path string }
type VideosUpdated struct{ Videos []string }
type ImagesUpdated struct {
	Folder string
	Images []string
}
type MetadataChanged struct{ Text string }

// Recording worker.
type RecordingFinished struct {
	Path         string
	Chunks       int
	SilentChunks int
}
type RecordingError struct{ Msg string }

// Playback worker.
type PlaybackFinished struct{ Path string }
type PlaybackError struct{ Msg string }

// Join worker.
type JoinDone struct{ OutputPath string }
type JoinError struct{ Msg string }

// Generic worker progress, 0-100.
type Progress struct {
	Stage string
	Pct   int
}

// Review session.
type PromptReady struct {
	ItemID  string
	WavPath string
}
type QueueFinished struct{}

type Canceled struct{ Stage string }

func (FolderChanged) event()     {}
func (VideosUpdated) event()     {}
func (ImagesUpdated) event()     {}
func (MetadataChanged) event()   {}
func (RecordingFinished) event() {}
func (RecordingError) event()    {}
func (PlaybackFinished) event()  {}
func (PlaybackError) event()     {}
func (JoinDone) event()          {}
func (JoinError) event()         {}
func (Progress) event()          {}
func (PromptReady) event()       {}
func (QueueFinished) event()     {}
func (Canceled) event()          {}

// Bus is a small fan-out of events to subscriber channels. Publish
// blocks when a subscriber's buffer is full; subscribers are expected
// to drain promptly, which preserves publish order per subscriber.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber with the given channel buffer.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers e to every subscriber in registration order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		ch <- e
	}
}

// Close closes all subscriber channels. Publish after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
}
