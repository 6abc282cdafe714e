package media

import (
	"path/filepath"
	"strings"
)

var supportedVideoExtensions = map[string]bool{
	".mpg":  true,
	".mpeg": true,
	".mp4":  true,
	".avi":  true,
	".mkv":  true,
	".mov":  true,
}

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
}

func IsSupportedVideo(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedVideoExtensions[ext]
}

func IsSupportedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

func IsWav(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".wav"
}
