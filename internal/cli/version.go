package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"videoannotation/internal/app"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("videoannotation %s (%s/%s)\n", app.Version, runtime.GOOS, runtime.GOARCH)
		},
	}

	RootCmd.AddCommand(cmd)
}
