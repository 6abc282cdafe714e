package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"videoannotation/internal/app"
	"videoannotation/internal/audio"
	"videoannotation/internal/event"
	"videoannotation/internal/i18n"
	"videoannotation/internal/media"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record <media-file>",
		Short: "Record a spoken annotation for a media file",
		Long:  "Captures the default input device into the annotation WAV paired with the given video or image. Stop with Ctrl-C.",
		Args:  cobra.ExactArgs(1),
		Run:   runRecord,
	}

	cmd.Flags().BoolP("yes", "y", false, "Overwrite an existing annotation without asking")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, bus := newCoordinator(cfg, logger)
	defer c.Close()

	msgs := loadMessages(c.Prefs().Language)

	mediaPath := args[0]
	openFolderOrExit(c, msgs, filepath.Dir(mediaPath))

	var target string
	switch {
	case media.IsSupportedImage(mediaPath):
		target = c.Folders().WavPathForImage(mediaPath)
	case media.IsSupportedVideo(mediaPath):
		target = c.Folders().WavPathFor(mediaPath)
	default:
		exitErr(exitFilesystem, "record", fmt.Errorf("%s is not a supported media file", mediaPath))
	}

	yes, _ := cmd.Flags().GetBool("yes")
	confirm := func(path string) bool {
		if yes {
			return true
		}
		fmt.Printf("%s [y/N] ", msgs.T(i18n.KeyOverwriteConfirm, filepath.Base(path)))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
	}

	events := bus.Subscribe(16)
	err := c.StartRecording(target, confirm)
	switch {
	case errors.Is(err, audio.ErrBackendUnavailable):
		fmt.Fprintln(os.Stderr, msgs.T(i18n.KeyRecordingNoDevice))
		os.Exit(exitUnsupported)
	case errors.Is(err, app.ErrOverwriteDeclined):
		fmt.Println("unchanged")
		return
	case err != nil:
		exitErr(exitUnexpected, "record", err)
	}

	fmt.Println(msgs.T(i18n.KeyRecordingStarted))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			c.StopRecording()
		case e := <-events:
			switch ev := e.(type) {
			case event.RecordingError:
				fmt.Fprintln(os.Stderr, msgs.T(i18n.KeyRecordingFailed, ev.Msg))
				os.Exit(exitUnexpected)
			case event.RecordingFinished:
				if ev.Path == "" {
					fmt.Println("nothing captured, no file written")
				} else {
					fmt.Println(msgs.T(i18n.KeyRecordingSaved, ev.Path))
				}
				return
			}
		}
	}
}
