package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hollowoak/cback/pkg/journal"
)

var (
	historyJournalPath string
	historyLimit       int
)

func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled backup runs",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().StringVar(&historyJournalPath, "journal", "", "Path to the run journal database")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	return historyCmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyJournalPath == "" {
		return fmt.Errorf("--journal is required")
	}
	j, err := journal.Open(historyJournalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Runs(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STARTED\tPLAN\tREQUESTED\tITEMS\tCOMPLETED\tFAILED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.PlanID, run.Requested, run.ItemCount, run.Completed, run.Failed)
	}
	return w.Flush()
}
