package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	gitadapter "github.com/ericfisherdev/catalogsync/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/catalogsync/internal/adapter/driven/github"
	"github.com/ericfisherdev/catalogsync/internal/application"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// app carries the always-available dependencies. The git and host clients
// depend on the stored repository configuration and credential, so the
// services are built lazily once a command actually needs them.
type app struct {
	configs driven.ConfigStore
	history driven.PublishLogStore
	tasks   driven.TaskStore
	secrets driven.SecretStore
	indexer driven.CatalogIndexer
	guard   *application.CloneGuard
}

// services builds the orchestrators from the stored configuration and
// credential. Commands that only touch configuration or the queue listing
// never call this, so they work before `config set` and `auth login`.
func (a *app) services(ctx context.Context) (*application.PublishService, *application.SyncService, *application.RetryService, error) {
	cfg, err := a.configs.Load(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load repository configuration (run 'catalogsync config set' first): %w", err)
	}

	token, err := a.secrets.Get(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load credential (run 'catalogsync auth login' first): %w", err)
	}

	git, err := gitadapter.New(cfg.CatalogLocalPath)
	if err != nil {
		return nil, nil, nil, err
	}
	host := githubadapter.NewClient(token, *cfg)

	publisher := application.NewPublishService(git, host, a.tasks, a.configs, a.history,
		application.NewValidator(), a.guard)
	syncer := application.NewSyncService(git, host, a.configs, a.indexer, a.guard)
	retrier := application.NewRetryService(publisher, a.tasks, a.configs)

	return publisher, syncer, retrier, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogsync",
		Short:         "Publish dataset records to the shared catalog and sync it back",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPublishCmd(a),
		newSyncCmd(a),
		newQueueCmd(a),
		newConfigCmd(a),
		newAuthCmd(a),
		newHistoryCmd(a),
	)

	return root
}
