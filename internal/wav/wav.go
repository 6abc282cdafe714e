// Package wav reads, writes and normalizes RIFF/WAVE PCM audio. The
// canonical format for recordings and join output is 1 channel, 16-bit
// signed, 44.1 kHz.
package wav

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	CanonicalRate     = 44100
	CanonicalChannels = 1
	CanonicalBitDepth = 16
)

// CanonicalFormat returns the canonical PCM format descriptor.
func CanonicalFormat() *audio.Format {
	return &audio.Format{NumChannels: CanonicalChannels, SampleRate: CanonicalRate}
}

// Read decodes the whole file into an interleaved PCM buffer.
func Read(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(d.BitDepth)
	}
	return buf, nil
}

// Write encodes buf to path atomically: the file appears only after a
// successful encode and close. The bit depth is taken from
// buf.SourceBitDepth, falling back to 16.
func Write(path string, buf *audio.IntBuffer) error {
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = CanonicalBitDepth
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wav-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	e := wav.NewEncoder(tmp, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := e.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := e.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// DownmixMono averages interleaved channels into one.
func DownmixMono(buf *audio.IntBuffer) *audio.IntBuffer {
	ch := buf.Format.NumChannels
	if ch <= 1 {
		return buf
	}
	frames := len(buf.Data) / ch
	out := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < ch; c++ {
			sum += buf.Data[i*ch+c]
		}
		out[i] = sum / ch
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.Format.SampleRate},
		Data:           out,
		SourceBitDepth: buf.SourceBitDepth,
	}
}

// Resample converts a mono buffer to targetRate by linear interpolation.
func Resample(buf *audio.IntBuffer, targetRate int) *audio.IntBuffer {
	srcRate := buf.Format.SampleRate
	if srcRate == targetRate || len(buf.Data) == 0 {
		out := *buf
		out.Format = &audio.Format{NumChannels: buf.Format.NumChannels, SampleRate: targetRate}
		return &out
	}
	ratio := float64(srcRate) / float64(targetRate)
	frames := int(float64(len(buf.Data)) / ratio)
	out := make([]int, frames)
	for i := 0; i < frames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(buf.Data)-1 {
			out[i] = buf.Data[len(buf.Data)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = int(float64(buf.Data[idx])*(1-frac) + float64(buf.Data[idx+1])*frac)
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: buf.Format.NumChannels, SampleRate: targetRate},
		Data:           out,
		SourceBitDepth: buf.SourceBitDepth,
	}
}

// Requantize rescales sample values to the target bit depth.
func Requantize(buf *audio.IntBuffer, targetBitDepth int) *audio.IntBuffer {
	src := buf.SourceBitDepth
	if src == 0 {
		src = CanonicalBitDepth
	}
	if src == targetBitDepth {
		return buf
	}
	shift := src - targetBitDepth
	out := make([]int, len(buf.Data))
	for i, s := range buf.Data {
		if shift > 0 {
			out[i] = s >> uint(shift)
		} else {
			out[i] = s << uint(-shift)
		}
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: buf.Format.NumChannels, SampleRate: buf.Format.SampleRate},
		Data:           out,
		SourceBitDepth: targetBitDepth,
	}
}

// Normalize converts any PCM buffer to the canonical format:
// mono, 16-bit, 44.1 kHz.
func Normalize(buf *audio.IntBuffer) *audio.IntBuffer {
	out := DownmixMono(buf)
	out = Requantize(out, CanonicalBitDepth)
	out = Resample(out, CanonicalRate)
	return out
}
