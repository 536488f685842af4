package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded search runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Show at most N runs (0 = all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded runs")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(false)
	if err != nil {
		return failed(err)
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if historyClear {
		if err := a.ClearRuns(); err != nil {
			return failed(err)
		}
		fmt.Fprintln(out, "history cleared")
		return nil
	}

	runs, err := a.Runs(historyLimit)
	if err != nil {
		return failed(err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}
	color, _ := resolveColor("auto")
	for _, run := range runs {
		fmt.Fprintln(out, formatRun(run, color))
	}
	return nil
}
