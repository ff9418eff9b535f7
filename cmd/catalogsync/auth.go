package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/catalogsync/internal/adapter/driven/github"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the catalog host access token",
	}

	cmd.AddCommand(newAuthLoginCmd(a), newAuthLogoutCmd(a), newAuthStatusCmd(a))
	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the access token in the secret store",
		Long: "Reads the token from the CATALOGSYNC_TOKEN environment variable, " +
			"or from stdin when the variable is unset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := os.Getenv("CATALOGSYNC_TOKEN")
			if token == "" {
				cmd.Print("Token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return fmt.Errorf("no token provided")
			}

			if err := a.secrets.Set(cmd.Context(), token); err != nil {
				return err
			}
			cmd.Println("Token stored")
			return nil
		},
	}
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.secrets.Delete(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Token removed")
			return nil
		},
	}
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the host with the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.configs.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load repository configuration (run 'catalogsync config set' first): %w", err)
			}
			token, err := a.secrets.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("load credential (run 'catalogsync auth login' first): %w", err)
			}

			host := githubadapter.NewClient(token, *cfg)
			status, err := host.TestConnection(cmd.Context())
			if err != nil {
				return fmt.Errorf("probing %s: %w", cfg.FullName(), err)
			}

			if status.HasPushAccess {
				cmd.Printf("Authenticated against %s with push access\n", cfg.FullName())
			} else {
				cmd.Printf("Authenticated against %s (read-only, publishes go through a fork)\n", cfg.FullName())
			}
			return nil
		},
	}
}
