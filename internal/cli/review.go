package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"videoannotation/internal/i18n"
	"videoannotation/internal/review"
	"videoannotation/internal/settings"
)

func init() {
	cmd := &cobra.Command{
		Use:   "review <folder>",
		Short: "Run a self-quiz over the folder's recorded items",
		Long:  "Serves each recorded item's annotation as a prompt; answer y (correct) or n (wrong). A report is written when the queue finishes.",
		Args:  cobra.ExactArgs(1),
		Run:   runReview,
	}

	cmd.Flags().String("scope", "", "Item scope: images, videos or both (default from preferences)")
	cmd.Flags().Int("play-count", 0, "Servings per item (default from preferences)")
	cmd.Flags().Int64("seed", 0, "Queue seed for a reproducible order")
	cmd.Flags().String("report-dir", "", "Report directory (default: the folder itself)")

	RootCmd.AddCommand(cmd)
}

func runReview(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := setupLogger(cfg.Logging)
	c, _ := newCoordinator(cfg, logger)
	defer c.Close()

	msgs := loadMessages(c.Prefs().Language)
	openFolderOrExit(c, msgs, args[0])

	scopeStr, _ := cmd.Flags().GetString("scope")
	playCount, _ := cmd.Flags().GetInt("play-count")
	err := c.UpdatePrefs(func(p *settings.Prefs) {
		if scopeStr != "" {
			p.Review.Scope = review.Scope(scopeStr)
		}
		if playCount > 0 {
			p.Review.PlayCountPerItem = playCount
		}
	})
	if err != nil {
		exitErr(exitFilesystem, "save preferences", err)
	}

	var seed *int64
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetInt64("seed")
		seed = &v
	}

	if err := c.StartReview(seed); err != nil {
		exitErr(exitFilesystem, "review", err)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		prompt, ok := c.CurrentPrompt()
		if !ok {
			break
		}
		served, total := c.ReviewProgress()
		fmt.Printf("[%d/%d] %s -> %s  correct? [y/n] ", served, total, prompt.ItemID, prompt.WavPath)
		line, err := reader.ReadString('\n')
		if err != nil {
			c.CancelReview()
			fmt.Println("\naborted, no report written")
			return
		}
		answer := strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
		c.ConfirmResponse(answer, review.MethodKeyboard)
	}

	_, total := c.ReviewProgress()
	outcome, _ := c.ReviewOutcome()

	reportDir, _ := cmd.Flags().GetString("report-dir")
	if reportDir == "" {
		reportDir = c.Folders().Folder()
	}
	path, err := c.FinishReview(reportDir)
	if err != nil {
		exitErr(exitFilesystem, "write report", err)
	}
	fmt.Println(msgs.T(i18n.KeyReviewFinished, total))
	fmt.Println(msgs.T(i18n.KeyReviewGrade, outcome.CompositeScore, outcome.Grade))
	fmt.Printf("report written to %s\n", path)
}
