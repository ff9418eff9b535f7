package model

import (
	"fmt"
	"strings"
)

// RepoConfig identifies the shared catalog repository and the local clone.
// It never contains the access token; that lives in the secret store keyed
// by a fixed service/account pair.
type RepoConfig struct {
	Host             string
	Owner            string
	Repo             string
	DefaultBranch    string
	Username         string
	CatalogLocalPath string
	Reviewers        []string
	Labels           []string
}

// FullName returns the "owner/repo" form used by the host API.
func (c RepoConfig) FullName() string {
	return c.Owner + "/" + c.Repo
}

// Validate reports whether the configuration is complete enough to publish.
// This is a pre-VCS check; failures are never queued for retry.
func (c RepoConfig) Validate() error {
	var missing []string
	if c.Owner == "" {
		missing = append(missing, "owner")
	}
	if c.Repo == "" {
		missing = append(missing, "repo")
	}
	if c.DefaultBranch == "" {
		missing = append(missing, "default_branch")
	}
	if c.CatalogLocalPath == "" {
		missing = append(missing, "catalog_local_path")
	}
	if len(missing) > 0 {
		return ValidationError{Field: strings.Join(missing, ", "), Reason: "repository configuration incomplete"}
	}
	if strings.Contains(c.Owner, "/") || strings.Contains(c.Repo, "/") {
		return ValidationError{Field: "owner/repo", Reason: fmt.Sprintf("invalid repository name %q", c.FullName())}
	}
	return nil
}
