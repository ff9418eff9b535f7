package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed publishes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.history.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No publishes recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tBRANCH\tPR\tPUBLISHED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t#%d %s\t%s\n",
					e.DatasetID, e.Branch, e.PRNumber, e.PRURL,
					e.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}
