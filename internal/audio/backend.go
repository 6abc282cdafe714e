// Package audio holds the recording, playback and join workers. Device
// access goes through the Backend capability; when no backend is
// available, record and play degrade to disabled.
package audio

import "errors"

const (
	// FramesPerChunk is the fixed buffer size for device reads/writes.
	FramesPerChunk = 1024
	// FallbackSampleRate is used when the device reports no default.
	FallbackSampleRate = 44100
)

var ErrBackendUnavailable = errors.New("audio backend unavailable")

// InputStream delivers captured PCM in chunks of up to FramesPerChunk
// int16 frames. ReadChunk blocks until a chunk is ready.
type InputStream interface {
	ReadChunk() ([]int16, error)
	Close() error
}

// OutputStream accepts PCM chunks for the default output device.
type OutputStream interface {
	WriteChunk([]int16) error
	Close() error
}

// Backend abstracts the host audio subsystem. At most one input and one
// output stream are open at a time; the coordinator enforces this.
type Backend interface {
	Available() bool
	DefaultSampleRate() int
	OpenInput(sampleRate, channels, framesPerChunk int) (InputStream, error)
	OpenOutput(sampleRate, channels, framesPerChunk int) (OutputStream, error)
}

// NullBackend reports no audio capability. Record and play are disabled
// when it is injected.
type NullBackend struct{}

func (NullBackend) Available() bool        { return false }
func (NullBackend) DefaultSampleRate() int { return FallbackSampleRate }

func (NullBackend) OpenInput(int, int, int) (InputStream, error) {
	return nil, ErrBackendUnavailable
}

func (NullBackend) OpenOutput(int, int, int) (OutputStream, error) {
	return nil, ErrBackendUnavailable
}
