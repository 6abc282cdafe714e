// Package convert extracts the audio track of a stimulus file into a
// canonical WAV via ffmpeg, for annotations imported in other formats.
package convert

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	gaudio "github.com/go-audio/audio"
	"github.com/rs/zerolog"

	"videoannotation/internal/tools"
	"videoannotation/internal/wav"
)

type Converter struct {
	resolver *tools.Resolver
	logger   zerolog.Logger
}

func NewConverter(resolver *tools.Resolver, logger zerolog.Logger) *Converter {
	return &Converter{
		resolver: resolver,
		logger:   logger.With().Str("component", "convert").Logger(),
	}
}

// ExtractAudio decodes mediaPath's audio track to mono 16-bit 44.1 kHz
// and writes it to outputPath. The source file is never modified; on
// failure no output or temp file is left behind.
func (c *Converter) ExtractAudio(ctx context.Context, mediaPath, outputPath string) error {
	ffmpeg, err := c.resolver.Resolve("ffmpeg")
	if err != nil {
		return fmt.Errorf("converter unavailable: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffmpeg.Path,
		"-i", mediaPath,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", wav.CanonicalRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		c.logger.Error().Err(err).
			Str("media", mediaPath).
			Str("stderr", stderr.String()).
			Msg("ffmpeg decode failed")
		return fmt.Errorf("decode %s: %w", filepath.Base(mediaPath), err)
	}

	if len(out)%2 != 0 {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return fmt.Errorf("no audio track in %s", filepath.Base(mediaPath))
	}

	data := make([]int, len(out)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2])))
	}

	buf := &gaudio.IntBuffer{
		Format:         wav.CanonicalFormat(),
		Data:           data,
		SourceBitDepth: wav.CanonicalBitDepth,
	}
	if err := wav.Write(outputPath, buf); err != nil {
		os.Remove(outputPath)
		return err
	}

	c.logger.Info().
		Str("media", mediaPath).
		Str("output", outputPath).
		Int("samples", len(data)).
		Msg("audio extracted")
	return nil
}
