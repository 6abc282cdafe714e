package audio

import (
	"context"
	"fmt"

	gaudio "github.com/go-audio/audio"
	"github.com/rs/zerolog"

	"videoannotation/internal/event"
	"videoannotation/internal/wav"
)

// Joiner concatenates WAV files in the supplied order, normalizing each
// input to the canonical format and inserting the click marker between
// successive inputs.
type Joiner struct {
	bus    *event.Bus
	logger zerolog.Logger
}

func NewJoiner(bus *event.Bus, logger zerolog.Logger) *Joiner {
	return &Joiner{
		bus:    bus,
		logger: logger.With().Str("component", "joiner").Logger(),
	}
}

// Join writes the concatenation of inputs to outputPath. Emits JoinDone
// on success, JoinError on failure, Canceled when ctx ends first.
// Cancellation leaves no output file.
func (j *Joiner) Join(ctx context.Context, inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		err := fmt.Errorf("no input files")
		j.bus.Publish(event.JoinError{Msg: err.Error()})
		return err
	}

	sep := wav.Separator(wav.CanonicalRate)
	var data []int
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			j.bus.Publish(event.Canceled{Stage: "join"})
			return err
		}

		buf, err := wav.Read(in)
		if err != nil {
			j.logger.Error().Err(err).Str("path", in).Msg("join input failed")
			j.bus.Publish(event.JoinError{Msg: err.Error()})
			return err
		}
		norm := wav.Normalize(buf)

		if i > 0 {
			data = append(data, sep...)
		}
		data = append(data, norm.Data...)

		j.bus.Publish(event.Progress{Stage: "join", Pct: (i + 1) * 100 / len(inputs)})
	}

	out := &gaudio.IntBuffer{
		Format:         wav.CanonicalFormat(),
		Data:           data,
		SourceBitDepth: wav.CanonicalBitDepth,
	}
	if err := wav.Write(outputPath, out); err != nil {
		j.logger.Error().Err(err).Str("path", outputPath).Msg("join output failed")
		j.bus.Publish(event.JoinError{Msg: err.Error()})
		return err
	}

	j.logger.Info().
		Int("inputs", len(inputs)).
		Int("samples", len(data)).
		Str("output", outputPath).
		Msg("join complete")
	j.bus.Publish(event.JoinDone{OutputPath: outputPath})
	return nil
}
