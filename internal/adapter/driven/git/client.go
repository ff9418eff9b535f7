// Package git implements the GitClient port by shelling out to the git binary.
//
// Every operation spawns git as a child process with the clone as its working
// directory and captures combined output for error reporting. Output is also
// used to classify failures into the port's sentinel errors (auth, network,
// fast-forward, stash conflict).
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
	"github.com/ericfisherdev/catalogsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitClient = (*Client)(nil)

// Client implements the driven.GitClient port for one local clone.
type Client struct {
	// workdir is the catalog clone root; every git invocation runs there.
	workdir string
}

// New creates a git client for the clone at workdir. It verifies the git
// binary is available and that workdir is inside a repository.
func New(workdir string) (*Client, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git binary not found in PATH: %w", err)
	}

	c := &Client{workdir: workdir}

	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workdir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w\n%s", workdir, err, strings.TrimSpace(string(out)))
	}

	return c, nil
}

// run executes a git command in the clone and returns its combined output.
// Non-zero exits come back as *model.GitError after output classification.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.workdir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		slog.Debug("git command failed", "args", args, "output", output)
		if classified := classifyOutput(output); classified != nil {
			return output, fmt.Errorf("git %s: %w", args[0], classified)
		}
		return output, &model.GitError{Args: args, Output: output, Err: err}
	}

	return output, nil
}

// classifyOutput maps well-known git failure messages onto port sentinels.
// Returns nil when the failure has no special meaning to callers.
func classifyOutput(output string) error {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "could not read username"),
		strings.Contains(lower, "could not read password"),
		strings.Contains(lower, "permission denied (publickey)"),
		strings.Contains(lower, "403"):
		return driven.ErrAuth
	case strings.Contains(lower, "could not resolve host"),
		strings.Contains(lower, "unable to access"),
		strings.Contains(lower, "connection timed out"),
		strings.Contains(lower, "connection refused"):
		return driven.ErrNetwork
	case strings.Contains(lower, "not possible to fast-forward"),
		strings.Contains(lower, "diverging branches"):
		return driven.ErrFastForward
	}
	return nil
}
