package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"videoannotation/internal/audio"
	"videoannotation/internal/event"
	"videoannotation/internal/i18n"
)

func init() {
	cmd := &cobra.Command{
		Use:   "play <wav-file>",
		Short: "Play a recorded annotation",
		Args:  cobra.ExactArgs(1),
		Run:   runPlay,
	}

	RootCmd.AddCommand(cmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, bus := newCoordinator(cfg, logger)
	defer c.Close()

	msgs := loadMessages(c.Prefs().Language)

	events := bus.Subscribe(16)
	err := c.Play(args[0])
	if errors.Is(err, audio.ErrBackendUnavailable) {
		exitErr(exitUnsupported, "play", err)
	}
	if err != nil {
		exitErr(exitUnexpected, "play", err)
	}

	for e := range events {
		switch ev := e.(type) {
		case event.PlaybackError:
			fmt.Fprintln(os.Stderr, msgs.T(i18n.KeyPlaybackFailed, ev.Msg))
			os.Exit(exitUnexpected)
		case event.PlaybackFinished:
			fmt.Printf("played %s\n", ev.Path)
			return
		}
	}
}
