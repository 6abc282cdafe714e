package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "cleanup <folder>",
		Short: "Remove junk files (Thumbs.db, desktop.ini) from the folder",
		Args:  cobra.ExactArgs(1),
		Run:   runCleanup,
	}

	RootCmd.AddCommand(cmd)
}

func runCleanup(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	openFolderOrExit(c, loadMessages(c.Prefs().Language), args[0])

	messages := c.Folders().CleanupHiddenFiles(c.Folders().Folder())
	if len(messages) == 0 {
		fmt.Println("nothing to clean")
		return
	}
	for _, msg := range messages {
		fmt.Println(msg)
	}
}
