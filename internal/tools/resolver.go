// Package tools locates the external media binaries (ffmpeg, ffprobe)
// the converter depends on.
package tools

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

type Origin string

const (
	OriginConfigured Origin = "configured"
	OriginBundled    Origin = "bundled"
	OriginPath       Origin = "path"
	OriginCommon     Origin = "common_location"
)

// Tool is a resolved external binary with its provenance, recorded in
// session reports.
type Tool struct {
	Path   string `json:"path"`
	Origin Origin `json:"origin"`
}

// Resolver probes for a tool in order: explicitly configured path,
// bundled directory, $PATH, common install locations.
type Resolver struct {
	bundledDir string
	configured map[string]string
	logger     zerolog.Logger
}

var commonLocations = []string{
	"/usr/local/bin",
	"/opt/homebrew/bin",
	"/usr/bin",
	`C:\ffmpeg\bin`,
}

func NewResolver(bundledDir string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		bundledDir: bundledDir,
		configured: map[string]string{},
		logger:     logger.With().Str("component", "tools").Logger(),
	}
}

// Configure pins an explicit path for a tool name, taking precedence
// over probing.
func (r *Resolver) Configure(name, path string) {
	if path != "" {
		r.configured[name] = path
	}
}

// Resolve locates the named tool ("ffmpeg", "ffprobe").
func (r *Resolver) Resolve(name string) (Tool, error) {
	binary := name
	if runtime.GOOS == "windows" {
		binary += ".exe"
	}

	if p, ok := r.configured[name]; ok {
		if isExecutableFile(p) {
			return Tool{Path: p, Origin: OriginConfigured}, nil
		}
		r.logger.Warn().Str("tool", name).Str("path", p).Msg("configured tool path invalid, probing")
	}

	if r.bundledDir != "" {
		p := filepath.Join(r.bundledDir, binary)
		if isExecutableFile(p) {
			return Tool{Path: p, Origin: OriginBundled}, nil
		}
	}

	if p, err := exec.LookPath(binary); err == nil {
		return Tool{Path: p, Origin: OriginPath}, nil
	}

	for _, dir := range commonLocations {
		p := filepath.Join(dir, binary)
		if isExecutableFile(p) {
			return Tool{Path: p, Origin: OriginCommon}, nil
		}
	}

	return Tool{}, fmt.Errorf("%s not found", name)
}

// ResolvePathOnly returns the resolved path or empty, for report
// provenance where absence is not an error.
func (r *Resolver) ResolvePathOnly(name string) string {
	t, err := r.Resolve(name)
	if err != nil {
		return ""
	}
	return t.Path
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}
