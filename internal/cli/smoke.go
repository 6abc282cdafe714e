package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"videoannotation/internal/export"
	"videoannotation/internal/review"
)

func init() {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run built-in self-checks",
		Long:  "Verifies the queue and grouping invariants in-process. Exits 2 on any failed check.",
		Run:   runSmoke,
	}

	RootCmd.AddCommand(cmd)
}

func runSmoke(cmd *cobra.Command, args []string) {
	failures := 0
	check := func(ok bool, what string) {
		if ok {
			fmt.Printf("ok   %s\n", what)
		} else {
			fmt.Printf("FAIL %s\n", what)
			failures++
		}
	}

	// Queue conservation: every item appears exactly playCount times,
	// for small and large sets.
	for _, n := range []int{1, 3, 6, 7, 12} {
		for _, playCount := range []int{1, 2, 3} {
			items := make([]review.Prompt, n)
			for i := range items {
				items[i] = review.Prompt{ItemID: fmt.Sprintf("item-%d", i)}
			}
			seed := int64(n*100 + playCount)
			q := review.BuildQueue(items, playCount, &seed)

			counts := map[string]int{}
			for _, p := range q.Sequence() {
				counts[p.ItemID]++
			}
			ok := len(q.Sequence()) == n*playCount
			for _, c := range counts {
				if c != playCount {
					ok = false
				}
			}
			check(ok, fmt.Sprintf("queue conservation n=%d play_count=%d", n, playCount))
		}
	}

	// Grouping totals: previewed groups always cover every item exactly
	// once, in both partition modes.
	pairs := make([]export.Pair, 25)
	for i := range pairs {
		pairs[i] = export.Pair{MediaPath: fmt.Sprintf("clip%02d.mp4", i)}
	}
	for _, mode := range []export.Mode{export.ModeItemsPerFolder, export.ModeNumberOfFolders} {
		for value := 1; value <= 8; value++ {
			total := 0
			for _, g := range export.PreviewGroups(pairs, mode, value) {
				total += len(g)
			}
			check(total == len(pairs), fmt.Sprintf("grouping total mode=%s value=%d", mode, value))
		}
	}

	// Grading sanity: a perfect fast session grades A+, no correct
	// responses grade F.
	check(review.GradeFor(1.0) == "A+", "grade A+ at score 1.0")
	check(review.GradeFor(0.0) == "F", "grade F at score 0.0")

	if failures > 0 {
		fmt.Printf("%d check(s) failed\n", failures)
		os.Exit(exitAssertion)
	}
	fmt.Println("all checks passed")
	os.Exit(exitOK)
}
