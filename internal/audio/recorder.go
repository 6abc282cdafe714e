package audio

import (
	"io"
	"sync"

	gaudio "github.com/go-audio/audio"
	"github.com/rs/zerolog"

	"videoannotation/internal/event"
	"videoannotation/internal/wav"
)

// Recorder captures the default input device into a WAV file. The
// worker buffers chunks in memory and writes the file atomically on
// close; cancel before the first chunk leaves no file behind.
type Recorder struct {
	backend     Backend
	bus         *event.Bus
	chunkFrames int
	logger      zerolog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewRecorder builds a capture worker reading chunkFrames frames per
// device read; values < 1 fall back to FramesPerChunk.
func NewRecorder(backend Backend, bus *event.Bus, chunkFrames int, logger zerolog.Logger) *Recorder {
	if chunkFrames < 1 {
		chunkFrames = FramesPerChunk
	}
	return &Recorder{
		backend:     backend,
		bus:         bus,
		chunkFrames: chunkFrames,
		logger:      logger.With().Str("component", "recorder").Logger(),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the capture worker for targetPath. The worker emits
// RecordingFinished on completion and RecordingError on failure.
func (r *Recorder) Start(targetPath string) {
	go r.run(targetPath)
}

// Stop requests a cooperative stop. Idempotent.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Wait blocks until the worker has exited.
func (r *Recorder) Wait() {
	<-r.done
}

func (r *Recorder) run(targetPath string) {
	defer close(r.done)

	rate := r.backend.DefaultSampleRate()
	if rate <= 0 {
		rate = FallbackSampleRate
	}

	in, err := r.backend.OpenInput(rate, 1, r.chunkFrames)
	if err != nil {
		r.logger.Error().Err(err).Msg("cannot open input device")
		r.bus.Publish(event.RecordingError{Msg: err.Error()})
		r.bus.Publish(event.RecordingFinished{})
		return
	}
	defer in.Close()

	var samples []int
	chunks := 0
	silent := 0
	var readErr error

loop:
	for {
		select {
		case <-r.stopCh:
			break loop
		default:
		}

		chunk, err := in.ReadChunk()
		if len(chunk) > 0 {
			chunks++
			if isSilent(chunk) {
				silent++
			}
			for _, s := range chunk {
				samples = append(samples, int(s))
			}
		}
		if err != nil {
			if err != io.EOF {
				readErr = err
				r.logger.Error().Err(err).Msg("device read failed")
			}
			break loop
		}
	}

	r.logger.Info().
		Int("chunks", chunks).
		Int("silent_chunks", silent).
		Int("samples", len(samples)).
		Msg("capture finished")

	if len(samples) == 0 {
		if readErr != nil {
			r.bus.Publish(event.RecordingError{Msg: readErr.Error()})
		}
		r.bus.Publish(event.RecordingFinished{})
		return
	}

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: wav.CanonicalBitDepth,
	}
	if err := wav.Write(targetPath, buf); err != nil {
		r.logger.Error().Err(err).Str("path", targetPath).Msg("write failed")
		r.bus.Publish(event.RecordingError{Msg: err.Error()})
		r.bus.Publish(event.RecordingFinished{})
		return
	}

	if readErr != nil {
		// Partial capture: the buffered audio was still written out.
		r.bus.Publish(event.RecordingError{Msg: readErr.Error()})
	}
	r.bus.Publish(event.RecordingFinished{
		Path:         targetPath,
		Chunks:       chunks,
		SilentChunks: silent,
	})
}

// isSilent reports whether the chunk has zero RMS, i.e. every sample
// is exactly zero.
func isSilent(chunk []int16) bool {
	for _, s := range chunk {
		if s != 0 {
			return false
		}
	}
	return true
}
