package media

import (
	"path/filepath"
	"strings"
)

// WavPathForVideo maps a video path to its annotation path:
// NAME.EXT pairs with NAME.wav in the same directory.
func WavPathForVideo(videoPath string) string {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(videoPath), stem+".wav")
}

// WavPathForImage maps an image path to its canonical annotation path.
// The full filename including extension is the stem: cat.jpg -> cat.jpg.wav.
func WavPathForImage(imagePath string) string {
	return filepath.Join(filepath.Dir(imagePath), filepath.Base(imagePath)+".wav")
}

// LegacyImageWavPath is the older pairing form NAME.wav, kept
// read-compatible. Writes always use the canonical form.
func LegacyImageWavPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+".wav")
}

// ImageAudioCandidates returns the pairing candidates for an image in
// resolution order: canonical first, then the legacy form.
func ImageAudioCandidates(imagePath string) []string {
	return []string{
		WavPathForImage(imagePath),
		LegacyImageWavPath(imagePath),
	}
}
