// Package cli implements the annotation tool's commands.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"videoannotation/internal/app"
	"videoannotation/internal/audio"
	"videoannotation/internal/config"
	"videoannotation/internal/event"
	"videoannotation/internal/i18n"
	"videoannotation/internal/settings"
	"videoannotation/internal/tools"
)

// Exit codes.
const (
	exitOK          = 0
	exitFilesystem  = 1
	exitAssertion   = 2
	exitUnexpected  = 3
	exitUnsupported = 64
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "videoannotation",
	Short: "Oral annotation toolkit for linguistic fieldwork media",
	Long:  "Pairs videos and images with spoken WAV annotations: record, play, join, review and export from the command line.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr(exitFilesystem, "load config", err)
	}
	return cfg
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
}

func newResolver(cfg *config.Config, logger zerolog.Logger) *tools.Resolver {
	r := tools.NewResolver(cfg.Tools.BundledDir, logger)
	r.Configure("ffmpeg", cfg.Tools.FFmpegPath)
	r.Configure("ffprobe", cfg.Tools.FFprobePath)
	return r
}

// newCoordinator builds the full stack. The CLI runs headless, so the
// null audio backend is injected; record and play report the platform
// as unsupported.
func newCoordinator(cfg *config.Config, logger zerolog.Logger) (*app.Coordinator, *event.Bus) {
	bus := event.NewBus()

	prefsPath, err := settings.DefaultPath()
	if err != nil {
		exitErr(exitFilesystem, "locate preferences", err)
	}
	store, err := settings.Open(prefsPath, logger)
	if err != nil {
		exitErr(exitFilesystem, "open preferences", err)
	}

	c := app.NewCoordinator(bus, audio.NullBackend{}, store, newResolver(cfg, logger), logger)
	c.SetAudioChunkFrames(cfg.Audio.ChunkFrames)
	return c, bus
}

// loadMessages builds the user-facing message catalog for the
// preferred language.
func loadMessages(lang string) *i18n.Catalog {
	cat, err := i18n.Load(lang)
	if err != nil {
		exitErr(exitUnexpected, "load messages", err)
	}
	return cat
}

// openFolderOrExit opens the working folder or exits with a localized
// message, distinguishing a missing path from an unreadable one.
func openFolderOrExit(c *app.Coordinator, msgs *i18n.Catalog, path string) {
	if c.OpenFolder(path) {
		return
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(os.Stderr, msgs.T(i18n.KeyFolderPermission, path))
	} else {
		fmt.Fprintln(os.Stderr, msgs.T(i18n.KeyFolderNotFound, path))
	}
	os.Exit(exitFilesystem)
}

func exitErr(code int, msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(code)
}
