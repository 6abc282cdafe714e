// Package export distributes (media, annotation) pairs into folders or
// archives: numbered groups with deterministic partitioning, or named
// sessions as directories or ZIP files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Pair is one media file and its annotation. WavPath may not exist on
// disk; missing annotations are silently skipped during export.
type Pair struct {
	MediaPath string
	WavPath   string
}

type Mode string

const (
	ModeItemsPerFolder  Mode = "items_per_folder"
	ModeNumberOfFolders Mode = "number_of_folders"
)

type Transfer string

const (
	TransferCopy Transfer = "copy"
	TransferMove Transfer = "move"
)

// GroupSummary reports what ExportGroups did. RemainderInLastFolder is
// populated only for items_per_folder mode.
type GroupSummary struct {
	GroupedMode           Mode     `json:"grouped_mode"`
	ItemsPerFolder        int      `json:"items_per_folder,omitempty"`
	NumberOfFolders       int      `json:"number_of_folders,omitempty"`
	TotalItems            int      `json:"total_items"`
	TotalGroups           int      `json:"total_groups"`
	CopyOrMove            Transfer `json:"copy_or_move"`
	RemainderInLastFolder int      `json:"remainder_in_last_folder,omitempty"`
}

// partition returns the group sizes for n items. The result always
// sums to n; values <= 0 are coerced to 1.
func partition(n int, mode Mode, value int) []int {
	// No items means no groups. The folder-count formula would
	// otherwise yield one empty group, which nothing should create.
	if n == 0 {
		return nil
	}
	if value < 1 {
		value = 1
	}
	switch mode {
	case ModeNumberOfFolders:
		groups := value
		if groups > n {
			groups = n
		}
		base := n / groups
		sizes := make([]int, groups)
		for i := range sizes {
			sizes[i] = base
		}
		sizes[groups-1] += n % groups
		return sizes
	default: // items_per_folder
		groups := (n + value - 1) / value
		sizes := make([]int, groups)
		for i := range sizes {
			sizes[i] = value
		}
		sizes[groups-1] = n - value*(groups-1)
		return sizes
	}
}

// GroupName returns the folder name for 1-based group index i.
func GroupName(i int) string {
	return fmt.Sprintf("Group %02d", i)
}

// ExportGroups partitions items into numbered group folders under
// outputDir, copying or moving each media file and its annotation
// sibling when present.
func ExportGroups(items []Pair, outputDir string, mode Mode, value int, transfer Transfer, logger zerolog.Logger) (*GroupSummary, error) {
	sizes := partition(len(items), mode, value)

	idx := 0
	for g, size := range sizes {
		dir := filepath.Join(outputDir, GroupName(g+1))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		for i := 0; i < size; i++ {
			if err := transferPair(items[idx], dir, transfer); err != nil {
				return nil, err
			}
			idx++
		}
		logger.Debug().Str("group", dir).Int("items", size).Msg("group written")
	}

	summary := &GroupSummary{
		GroupedMode: mode,
		TotalItems:  len(items),
		TotalGroups: len(sizes),
		CopyOrMove:  transfer,
	}
	if mode == ModeNumberOfFolders {
		summary.NumberOfFolders = len(sizes)
	} else {
		if value < 1 {
			value = 1
		}
		summary.ItemsPerFolder = value
		if len(sizes) > 0 {
			summary.RemainderInLastFolder = sizes[len(sizes)-1]
		}
	}
	logger.Info().
		Str("mode", string(mode)).
		Int("items", summary.TotalItems).
		Int("groups", summary.TotalGroups).
		Msg("grouped export done")
	return summary, nil
}

// PreviewGroups returns the partition layout as basenames, without
// touching the filesystem.
func PreviewGroups(items []Pair, mode Mode, value int) [][]string {
	sizes := partition(len(items), mode, value)
	out := make([][]string, 0, len(sizes))
	idx := 0
	for _, size := range sizes {
		group := make([]string, 0, size)
		for i := 0; i < size; i++ {
			group = append(group, filepath.Base(items[idx].MediaPath))
			idx++
		}
		out = append(out, group)
	}
	return out
}

func transferPair(p Pair, destDir string, transfer Transfer) error {
	if err := transferFile(p.MediaPath, filepath.Join(destDir, filepath.Base(p.MediaPath)), transfer); err != nil {
		return err
	}
	if p.WavPath == "" {
		return nil
	}
	if _, err := os.Stat(p.WavPath); err != nil {
		return nil // missing annotation, skip silently
	}
	return transferFile(p.WavPath, filepath.Join(destDir, filepath.Base(p.WavPath)), transfer)
}

func transferFile(src, dst string, transfer Transfer) error {
	if transfer == TransferMove {
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
		// Cross-device move falls back to copy + remove.
		if err := copyFile(src, dst); err != nil {
			return err
		}
		return os.Remove(src)
	}
	return copyFile(src, dst)
}

// copyFile copies src to dst preserving mode and mtime where possible.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// Best effort: preserve the modification time.
	os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
