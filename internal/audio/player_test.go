package audio

import (
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/rs/zerolog"

	"videoannotation/internal/event"
	"videoannotation/internal/wav"
)

func writeTestWav(t *testing.T, path string, samples int) {
	t.Helper()
	data := make([]int, samples)
	for i := range data {
		data[i] = i % 1000
	}
	buf := &gaudio.IntBuffer{
		Format:         wav.CanonicalFormat(),
		Data:           data,
		SourceBitDepth: wav.CanonicalBitDepth,
	}
	if err := wav.Write(path, buf); err != nil {
		t.Fatal(err)
	}
}

func TestPlayerStreamsWholeFile(t *testing.T) {
	bus := event.NewBus()
	ch := bus.Subscribe(8)
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWav(t, path, 3000) // crosses one chunk boundary

	backend := &fakeBackend{rate: 44100}
	p := NewPlayer(backend, bus, FramesPerChunk, zerolog.Nop())
	p.Start(path)
	p.Wait()

	fin, ok := (<-ch).(event.PlaybackFinished)
	if !ok || fin.Path != path {
		t.Fatalf("expected PlaybackFinished for %q, got %#v", path, fin)
	}
	if len(backend.written) != 3000 {
		t.Errorf("streamed %d samples, want 3000", len(backend.written))
	}
}

func TestPlayerMissingFile(t *testing.T) {
	bus := event.NewBus()
	ch := bus.Subscribe(8)

	p := NewPlayer(&fakeBackend{rate: 44100}, bus, FramesPerChunk, zerolog.Nop())
	p.Start(filepath.Join(t.TempDir(), "missing.wav"))
	p.Wait()

	events := collect(ch, 2)
	if _, ok := events[0].(event.PlaybackError); !ok {
		t.Errorf("event 0 = %T, want PlaybackError", events[0])
	}
	if _, ok := events[1].(event.PlaybackFinished); !ok {
		t.Errorf("event 1 = %T, want PlaybackFinished", events[1])
	}
}

func TestPlayerStopBeforeStart(t *testing.T) {
	bus := event.NewBus()
	ch := bus.Subscribe(8)
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWav(t, path, FramesPerChunk*4)

	backend := &fakeBackend{rate: 44100}
	p := NewPlayer(backend, bus, FramesPerChunk, zerolog.Nop())
	p.Stop()
	p.Stop() // idempotent
	p.Start(path)
	p.Wait()

	if _, ok := (<-ch).(event.PlaybackFinished); !ok {
		t.Error("PlaybackFinished must be emitted on every exit path")
	}
	if len(backend.written) != 0 {
		t.Errorf("stopped player wrote %d samples", len(backend.written))
	}
}

func TestPlayerConfiguredChunkFrames(t *testing.T) {
	bus := event.NewBus()
	bus.Subscribe(8)
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWav(t, path, 100)

	backend := &fakeBackend{rate: 44100}
	p := NewPlayer(backend, bus, 256, zerolog.Nop())
	p.Start(path)
	p.Wait()

	if backend.outputChunk != 256 {
		t.Errorf("output chunk frames = %d, want 256", backend.outputChunk)
	}
}

func TestPlayerUnavailableBackend(t *testing.T) {
	bus := event.NewBus()
	ch := bus.Subscribe(8)
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWav(t, path, 100)

	p := NewPlayer(NullBackend{}, bus, FramesPerChunk, zerolog.Nop())
	p.Start(path)
	p.Wait()

	events := collect(ch, 2)
	if _, ok := events[0].(event.PlaybackError); !ok {
		t.Errorf("event 0 = %T, want PlaybackError", events[0])
	}
}
