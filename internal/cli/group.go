package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"videoannotation/internal/app"
	"videoannotation/internal/export"
	"videoannotation/internal/i18n"
)

func init() {
	cmd := &cobra.Command{
		Use:   "group <folder>",
		Short: "Export the folder's recorded pairs into numbered groups",
		Args:  cobra.ExactArgs(1),
		Run:   runGroup,
	}

	cmd.Flags().StringP("output", "o", "", "Output directory (required)")
	cmd.Flags().String("mode", string(export.ModeItemsPerFolder), "Partition mode: items_per_folder or number_of_folders")
	cmd.Flags().Int("value", 10, "Items per folder, or folder count, depending on mode")
	cmd.Flags().Bool("move", false, "Move files instead of copying")
	cmd.Flags().Bool("preview", false, "Print the planned groups without transferring")

	cmd.MarkFlagRequired("output")

	RootCmd.AddCommand(cmd)
}

func runGroup(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	msgs := loadMessages(c.Prefs().Language)
	openFolderOrExit(c, msgs, args[0])

	pairs := recordedPairs(c)
	if len(pairs) == 0 {
		exitErr(exitFilesystem, "group", fmt.Errorf("no recorded items in %s", args[0]))
	}

	modeStr, _ := cmd.Flags().GetString("mode")
	mode := export.Mode(modeStr)
	if mode != export.ModeItemsPerFolder && mode != export.ModeNumberOfFolders {
		exitErr(exitFilesystem, "group", fmt.Errorf("unknown mode %q", modeStr))
	}
	value, _ := cmd.Flags().GetInt("value")

	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		b, _ := json.MarshalIndent(export.PreviewGroups(pairs, mode, value), "", "  ")
		fmt.Println(string(b))
		return
	}

	transfer := export.TransferCopy
	if move, _ := cmd.Flags().GetBool("move"); move {
		transfer = export.TransferMove
	}

	output, _ := cmd.Flags().GetString("output")
	if err := os.MkdirAll(output, 0o755); err != nil {
		exitErr(exitFilesystem, "group", err)
	}

	summary, err := export.ExportGroups(pairs, output, mode, value, transfer, logger)
	if err != nil {
		exitErr(exitFilesystem, "group", err)
	}
	b, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(b))
	fmt.Println(msgs.T(i18n.KeyExportDone, summary.TotalGroups, output))
}

// recordedPairs enumerates the folder's media items that have an
// existing annotation, videos first, images second, each sorted.
func recordedPairs(c *app.Coordinator) []export.Pair {
	m := c.Folders()
	var pairs []export.Pair

	videos, _ := m.ListVideos()
	for _, v := range videos {
		wav := m.WavPathFor(v)
		if _, err := os.Stat(wav); err == nil {
			pairs = append(pairs, export.Pair{MediaPath: v, WavPath: wav})
		}
	}
	images, _ := m.ListImages()
	for _, img := range images {
		if wav := m.FindExistingImageAudio(img); wav != "" {
			pairs = append(pairs, export.Pair{MediaPath: img, WavPath: wav})
		}
	}
	return pairs
}
