package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"videoannotation/internal/convert"
)

func init() {
	cmd := &cobra.Command{
		Use:   "convert <media-file>",
		Short: "Extract a media file's audio track to canonical WAV",
		Args:  cobra.ExactArgs(1),
		Run:   runConvert,
	}

	cmd.Flags().StringP("output", "o", "", "Output WAV path (default: <stem>.wav next to the input)")

	RootCmd.AddCommand(cmd)
}

func runConvert(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)

	src := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(src, filepath.Ext(src)) + ".wav"
	}

	conv := convert.NewConverter(newResolver(cfg, logger), logger)
	if err := conv.ExtractAudio(context.Background(), src, output); err != nil {
		exitErr(exitUnexpected, "convert", err)
	}
	fmt.Printf("wrote %s\n", output)
}
