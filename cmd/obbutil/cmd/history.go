package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andeb/obbutil/pkg/journal"
	"github.com/andeb/obbutil/pkg/obbinfo"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded add and remove operations",
		Long: `List the add and remove operations recorded in the journal, newest first.
Each entry keeps the full footer so a removed footer can be restored.

Example:
  obbutil history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runHistory(a, limit, cmd.OutOrStdout())
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show (0 for all)")

	return historyCmd
}

func runHistory(a *app, limit int, out io.Writer) error {
	if !a.cfg.Journal.Enabled {
		return fmt.Errorf("journal is disabled in the configuration")
	}

	j, err := container.GetJournalFactory()(a.cfg.Journal.Dir, a.log)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(limit)
	if err != nil {
		return err
	}

	return outputEntries(out, entries)
}

// outputEntries displays journal entries in table format
func outputEntries(out io.Writer, entries []journal.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No entries found")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTIME\tOP\tPACKAGE\tVERSION\tFLAGS\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.Time.Format(time.RFC3339), e.Op, e.PackageName, e.PackageVersion, obbinfo.Flags(e.Flags), e.Path)
	}

	return w.Flush()
}
