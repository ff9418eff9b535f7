package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

func newQueueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and replay queued publish attempts",
	}

	cmd.AddCommand(
		newQueueListCmd(a),
		newQueueRetryCmd(a),
		newQueueClearCmd(a),
	)

	return cmd
}

func newQueueListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued publish attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Listing does not need the git or host clients, so read the
			// queue directly instead of going through services.
			tasks, err := a.tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				cmd.Println("Queue is empty")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tDATASET\tSTATUS\tRETRIES\tCREATED\tLAST ERROR")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					t.TaskID, t.DatasetID, t.Status, t.RetryCount,
					t.CreatedAt.Local().Format("2006-01-02 15:04"), t.LastError)
			}
			return w.Flush()
		},
	}
}

func newQueueRetryCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "retry [task-id]",
		Short: "Replay a queued publish attempt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("specify either a task id or --all")
			}

			_, _, retrier, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			if all {
				results, err := retrier.RetryAll(cmd.Context())
				for _, r := range results {
					printRetryResult(cmd, &r)
				}
				return err
			}

			result, err := retrier.Retry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRetryResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "retry every task that is not completed")
	return cmd
}

func newQueueClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed tasks from the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := a.tasks.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d completed task(s)\n", removed)
			return nil
		},
	}
}

func printRetryResult(cmd *cobra.Command, result *model.PublishResult) {
	switch {
	case result.PR != nil:
		cmd.Printf("Task completed: %s published, pull request #%d: %s\n",
			result.DatasetID, result.PR.Number, result.PR.URL)
	case result.Queued:
		cmd.Printf("Task %s failed again, kept in queue\n", result.TaskID)
	}
	if result.StashWarning != "" {
		cmd.Printf("Warning: %s\n", result.StashWarning)
	}
}
