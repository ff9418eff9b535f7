package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the shared catalog repository configuration",
	}

	cmd.AddCommand(newConfigSetCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	var cfg model.RepoConfig
	var reviewers, labels string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the catalog repository configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Reviewers = splitFlagList(reviewers)
			cfg.Labels = splitFlagList(labels)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := a.configs.Save(cmd.Context(), cfg); err != nil {
				return err
			}
			cmd.Printf("Configuration saved for %s\n", cfg.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", "github.com", "catalog host")
	cmd.Flags().StringVar(&cfg.Owner, "owner", "", "repository owner")
	cmd.Flags().StringVar(&cfg.Repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&cfg.DefaultBranch, "default-branch", "main", "base branch for pull requests")
	cmd.Flags().StringVar(&cfg.Username, "username", "", "host username, used to name the fork remote")
	cmd.Flags().StringVar(&cfg.CatalogLocalPath, "local-path", "", "path to the local catalog clone")
	cmd.Flags().StringVar(&reviewers, "reviewers", "", "comma-separated reviewers to request")
	cmd.Flags().StringVar(&labels, "labels", "", "comma-separated labels to apply")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.configs.Load(cmd.Context())
			if err != nil {
				if errors.Is(err, driven.ErrNoConfig) {
					cmd.Println("No configuration stored; run 'catalogsync config set'")
					return nil
				}
				return err
			}

			cmd.Printf("Repository:     %s (%s)\n", cfg.FullName(), cfg.Host)
			cmd.Printf("Default branch: %s\n", cfg.DefaultBranch)
			cmd.Printf("Username:       %s\n", cfg.Username)
			cmd.Printf("Local clone:    %s\n", cfg.CatalogLocalPath)
			if len(cfg.Reviewers) > 0 {
				cmd.Printf("Reviewers:      %s\n", strings.Join(cfg.Reviewers, ", "))
			}
			if len(cfg.Labels) > 0 {
				cmd.Printf("Labels:         %s\n", strings.Join(cfg.Labels, ", "))
			}
			return nil
		},
	}
}

func splitFlagList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
