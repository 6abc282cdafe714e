package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"videoannotation/internal/export"
	"videoannotation/internal/i18n"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sessions <folder>",
		Short: "Export recorded pairs as review sets, folders or ZIPs",
		Args:  cobra.ExactArgs(1),
		Run:   runSessions,
	}

	cmd.Flags().StringP("output", "o", "", "Output directory (required)")
	cmd.Flags().String("format", string(export.FormatZip), "Output format: folders or zip")
	cmd.Flags().Int("size", 10, "Items per set")
	cmd.Flags().Bool("move", false, "Move files instead of copying")

	cmd.MarkFlagRequired("output")

	RootCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	msgs := loadMessages(c.Prefs().Language)
	openFolderOrExit(c, msgs, args[0])

	pairs := recordedPairs(c)
	if len(pairs) == 0 {
		exitErr(exitFilesystem, "sessions", fmt.Errorf("no recorded items in %s", args[0]))
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format := export.Format(formatStr)
	if format != export.FormatFolders && format != export.FormatZip {
		exitErr(exitFilesystem, "sessions", fmt.Errorf("unknown format %q", formatStr))
	}

	size, _ := cmd.Flags().GetInt("size")
	if size < 1 {
		size = 1
	}
	var sets [][]export.Pair
	for start := 0; start < len(pairs); start += size {
		end := start + size
		if end > len(pairs) {
			end = len(pairs)
		}
		sets = append(sets, pairs[start:end])
	}

	transfer := export.TransferCopy
	if move, _ := cmd.Flags().GetBool("move"); move {
		transfer = export.TransferMove
	}

	output, _ := cmd.Flags().GetString("output")
	if err := os.MkdirAll(output, 0o755); err != nil {
		exitErr(exitFilesystem, "sessions", err)
	}

	summary, err := export.ExportSessions(sets, output, format, transfer, nil, logger)
	if err != nil {
		exitErr(exitFilesystem, "sessions", err)
	}
	b, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(b))
	fmt.Println(msgs.T(i18n.KeyExportDone, summary.TotalGroups, output))
}
