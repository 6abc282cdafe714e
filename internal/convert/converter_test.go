package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"videoannotation/internal/tools"
)

func TestExtractAudioWithoutFFmpeg(t *testing.T) {
	// A resolver with no bundled dir and a scrubbed PATH cannot find
	// ffmpeg; the converter must fail without touching the output.
	t.Setenv("PATH", t.TempDir())

	r := tools.NewResolver("", zerolog.Nop())
	c := NewConverter(r, zerolog.Nop())

	out := filepath.Join(t.TempDir(), "out.wav")
	err := c.ExtractAudio(context.Background(), "/data/in.mp4", out)
	if err == nil {
		t.Fatal("expected error when ffmpeg is unavailable")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output file created despite failure")
	}
}

func TestExtractAudioFailedDecodeLeavesNoOutput(t *testing.T) {
	// A fake ffmpeg that exits non-zero simulates a decode failure.
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := tools.NewResolver(dir, zerolog.Nop())
	c := NewConverter(r, zerolog.Nop())

	src := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(src, []byte("not media"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out.wav")

	if err := c.ExtractAudio(context.Background(), src, out); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output left behind after failed decode")
	}
	// Source untouched.
	if _, err := os.Stat(src); err != nil {
		t.Error("source file disturbed by failed conversion")
	}
}
