package wav

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Info describes a WAV file without decoding its samples.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ProbeCache caches WAV probe results keyed by path and mtime, so
// repeated listings and join previews do not re-read headers.
type ProbeCache struct {
	cache *lru.Cache[string, Info]
}

func NewProbeCache(size int) (*ProbeCache, error) {
	c, err := lru.New[string, Info](size)
	if err != nil {
		return nil, err
	}
	return &ProbeCache{cache: c}, nil
}

// Probe returns the Info for path, reading the header only on cache miss
// or after the file changed on disk.
func (p *ProbeCache) Probe(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, st.Size(), st.ModTime().UnixNano())
	if info, ok := p.cache.Get(key); ok {
		return info, nil
	}

	info, err := probe(path)
	if err != nil {
		return Info{}, err
	}
	p.cache.Add(key, info)
	return info, nil
}

func probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if d.Err() != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, d.Err())
	}
	dur, err := d.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Duration:   dur,
	}, nil
}
