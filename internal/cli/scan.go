package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"videoannotation/internal/wav"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan <folder>",
		Short: "List the folder's media and recordings",
		Args:  cobra.ExactArgs(1),
		Run:   runScan,
	}

	RootCmd.AddCommand(cmd)
}

// recordingInfo is one annotation WAV with its probed duration.
type recordingInfo struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"duration_sec"`
}

// recordingInfos probes each recording through the cache. Files that
// cannot be probed are listed with a zero duration.
func recordingInfos(probe *wav.ProbeCache, paths []string) []recordingInfo {
	out := make([]recordingInfo, 0, len(paths))
	for _, p := range paths {
		info, err := probe.Probe(p)
		rec := recordingInfo{Path: p}
		if err == nil {
			rec.DurationSec = info.Duration.Seconds()
		}
		out = append(out, rec)
	}
	return out
}

func runScan(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	openFolderOrExit(c, loadMessages(c.Prefs().Language), args[0])

	m := c.Folders()
	videos, err := m.ListVideos()
	if err != nil {
		exitErr(exitFilesystem, "list videos", err)
	}
	images, err := m.ListImages()
	if err != nil {
		exitErr(exitFilesystem, "list images", err)
	}
	recordings, err := m.Recordings()
	if err != nil {
		exitErr(exitFilesystem, "list recordings", err)
	}

	probe, err := wav.NewProbeCache(cfg.Probe.CacheCapacity)
	if err != nil {
		exitErr(exitUnexpected, "probe cache", err)
	}

	out := map[string]any{
		"folder":     m.Folder(),
		"videos":     videos,
		"images":     images,
		"recordings": recordingInfos(probe, recordings),
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
