package audio

import (
	"sync"

	"github.com/rs/zerolog"

	"videoannotation/internal/event"
	"videoannotation/internal/wav"
)

// Player streams one WAV file to the default output device in
// fixed-size chunks. The coordinator guarantees a single active player.
type Player struct {
	backend     Backend
	bus         *event.Bus
	chunkFrames int
	logger      zerolog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewPlayer builds a playback worker writing chunkFrames frames per
// device write; values < 1 fall back to FramesPerChunk.
func NewPlayer(backend Backend, bus *event.Bus, chunkFrames int, logger zerolog.Logger) *Player {
	if chunkFrames < 1 {
		chunkFrames = FramesPerChunk
	}
	return &Player{
		backend:     backend,
		bus:         bus,
		chunkFrames: chunkFrames,
		logger:      logger.With().Str("component", "player").Logger(),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches playback of path. PlaybackFinished is always emitted
// on exit; errors emit PlaybackError first.
func (p *Player) Start(path string) {
	go p.run(path)
}

// Stop requests a cooperative stop. Idempotent.
func (p *Player) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Wait blocks until the worker has exited.
func (p *Player) Wait() {
	<-p.done
}

func (p *Player) run(path string) {
	defer close(p.done)
	defer func() {
		p.bus.Publish(event.PlaybackFinished{Path: path})
	}()

	buf, err := wav.Read(path)
	if err != nil {
		p.logger.Error().Err(err).Str("path", path).Msg("cannot read wav")
		p.bus.Publish(event.PlaybackError{Msg: err.Error()})
		return
	}

	out, err := p.backend.OpenOutput(buf.Format.SampleRate, buf.Format.NumChannels, p.chunkFrames)
	if err != nil {
		p.logger.Error().Err(err).Msg("cannot open output device")
		p.bus.Publish(event.PlaybackError{Msg: err.Error()})
		return
	}
	defer out.Close()

	chunkSamples := p.chunkFrames * buf.Format.NumChannels
	for off := 0; off < len(buf.Data); off += chunkSamples {
		select {
		case <-p.stopCh:
			p.logger.Debug().Str("path", path).Msg("playback stopped")
			return
		default:
		}

		end := off + chunkSamples
		if end > len(buf.Data) {
			end = len(buf.Data)
		}
		chunk := make([]int16, end-off)
		for i, s := range buf.Data[off:end] {
			chunk[i] = clampInt16(s)
		}
		if err := out.WriteChunk(chunk); err != nil {
			p.logger.Error().Err(err).Msg("device write failed")
			p.bus.Publish(event.PlaybackError{Msg: err.Error()})
			return
		}
	}
}

func clampInt16(s int) int16 {
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
