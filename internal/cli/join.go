package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"videoannotation/internal/i18n"
)

func init() {
	cmd := &cobra.Command{
		Use:   "join <folder>",
		Short: "Join the folder's recordings into one WAV",
		Long:  "Concatenates every annotation in the folder, in sorted order, into a single WAV with an audible click between recordings.",
		Args:  cobra.ExactArgs(1),
		Run:   runJoin,
	}

	cmd.Flags().StringP("output", "o", "joined.wav", "Output WAV path")

	RootCmd.AddCommand(cmd)
}

func runJoin(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	msgs := loadMessages(c.Prefs().Language)
	openFolderOrExit(c, msgs, args[0])

	inputs, err := c.Folders().Recordings()
	if err != nil {
		exitErr(exitFilesystem, "list recordings", err)
	}
	if len(inputs) == 0 {
		exitErr(exitFilesystem, "join", errors.New("no recordings in folder"))
	}

	output, _ := cmd.Flags().GetString("output")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.JoinRecordings(ctx, inputs, output); err != nil {
		if ctx.Err() != nil {
			fmt.Println(msgs.T(i18n.KeyJoinCanceled))
			return
		}
		fmt.Fprintln(os.Stderr, msgs.T(i18n.KeyJoinFailed, err))
		os.Exit(exitUnexpected)
	}
	fmt.Println(msgs.T(i18n.KeyJoinDone, output))
}
