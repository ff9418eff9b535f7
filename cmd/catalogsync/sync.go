package main

import (
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fast-forward the local catalog clone from the shared repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, syncer, _, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			result, err := syncer.Sync(cmd.Context())
			if err != nil {
				return err
			}

			if result.UpToDate {
				cmd.Println("Already up to date")
				return nil
			}

			cmd.Printf("Synced %s -> %s (%d path(s) changed)\n",
				short(result.OldCommit), short(result.NewCommit), len(result.ChangedPaths))
			if result.Reindexed {
				cmd.Println("Catalog reindex requested")
			}
			if result.StashWarning != "" {
				cmd.Printf("Warning: %s\n", result.StashWarning)
			}
			return nil
		},
	}
}

func short(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
