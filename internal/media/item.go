package media

import (
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Item describes one stimulus file on disk. Items are value objects
// produced from directory listings; they carry no open resources.
type Item struct {
	Kind Kind
	Path string
	Stem string
}

// NewVideoItem builds an Item for a video file. The stem is the
// filename without its extension.
func NewVideoItem(path string) Item {
	base := filepath.Base(path)
	return Item{
		Kind: KindVideo,
		Path: path,
		Stem: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// NewImageItem builds an Item for an image file. Images use the full
// filename including extension as the stem, so "cat.jpg" pairs with
// "cat.jpg.wav".
func NewImageItem(path string) Item {
	return Item{
		Kind: KindImage,
		Path: path,
		Stem: filepath.Base(path),
	}
}

// WavPath returns the canonical annotation path for the item.
func (it Item) WavPath() string {
	return filepath.Join(filepath.Dir(it.Path), it.Stem+".wav")
}
