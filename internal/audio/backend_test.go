package audio

import (
	"errors"
	"io"
	"sync"
)

// fakeBackend feeds scripted chunks to the recorder and collects what
// the player writes.
type fakeBackend struct {
	rate    int
	inputs  []fakeRead
	openErr error

	mu          sync.Mutex
	written     []int16
	inputChunk  int
	outputChunk int
}

type fakeRead struct {
	chunk []int16
	err   error
}

func (f *fakeBackend) Available() bool { return true }

func (f *fakeBackend) DefaultSampleRate() int { return f.rate }

func (f *fakeBackend) OpenInput(sampleRate, channels, framesPerChunk int) (InputStream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	f.inputChunk = framesPerChunk
	f.mu.Unlock()
	return &fakeInput{reads: f.inputs}, nil
}

func (f *fakeBackend) OpenOutput(sampleRate, channels, framesPerChunk int) (OutputStream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.mu.Lock()
	f.outputChunk = framesPerChunk
	f.mu.Unlock()
	return &fakeOutput{backend: f}, nil
}

type fakeInput struct {
	reads []fakeRead
	pos   int
}

func (f *fakeInput) ReadChunk() ([]int16, error) {
	if f.pos >= len(f.reads) {
		return nil, io.EOF
	}
	r := f.reads[f.pos]
	f.pos++
	return r.chunk, r.err
}

func (f *fakeInput) Close() error { return nil }

type fakeOutput struct {
	backend *fakeBackend
}

func (f *fakeOutput) WriteChunk(chunk []int16) error {
	f.backend.mu.Lock()
	defer f.backend.mu.Unlock()
	f.backend.written = append(f.backend.written, chunk...)
	return nil
}

func (f *fakeOutput) Close() error { return nil }

var errDeviceRead = errors.New("device read failed")
