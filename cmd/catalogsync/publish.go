package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

// recordFile is the on-disk shape of a dataset record handed to publish.
// Everything beyond id and name is opaque payload owned by the catalog.
type recordFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <record.json>",
		Short: "Open a pull request adding a dataset record to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(args[0])
			if err != nil {
				return err
			}

			publisher, _, _, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			result, err := publisher.Publish(cmd.Context(), record)
			if err != nil {
				return err
			}

			printPublishResult(cmd, result)
			return nil
		},
	}
}

func readRecord(path string) (model.DatasetRecord, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return model.DatasetRecord{}, fmt.Errorf("read record file: %w", err)
	}

	var rf recordFile
	if err := json.Unmarshal(payload, &rf); err != nil {
		return model.DatasetRecord{}, fmt.Errorf("record file %s is not valid JSON: %w", path, err)
	}

	return model.DatasetRecord{ID: rf.ID, Name: rf.Name, Payload: payload}, nil
}

func printPublishResult(cmd *cobra.Command, result *model.PublishResult) {
	switch {
	case result.PR != nil:
		cmd.Printf("Published %s on branch %s\n", result.DatasetID, result.Branch)
		cmd.Printf("Pull request #%d: %s\n", result.PR.Number, result.PR.URL)
	case result.Queued:
		cmd.Printf("Saved locally, publish queued (task %s)\n", result.TaskID)
		cmd.Printf("Retry with: catalogsync queue retry %s\n", result.TaskID)
	}
	if result.StashWarning != "" {
		cmd.Printf("Warning: %s\n", result.StashWarning)
	}
}
