package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"videoannotation/internal/folder"
)

func init() {
	cmd := &cobra.Command{
		Use:   "metadata <folder>",
		Short: "Show the folder's metadata file, creating it if absent",
		Args:  cobra.ExactArgs(1),
		Run:   runMetadata,
	}

	RootCmd.AddCommand(cmd)
}

func runMetadata(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	openFolderOrExit(c, loadMessages(c.Prefs().Language), args[0])

	text, err := c.Folders().EnsureAndReadMetadata(c.Folders().Folder(), folder.MetadataTemplate)
	if err != nil {
		exitErr(exitFilesystem, "metadata", err)
	}
	fmt.Print(text)
}
