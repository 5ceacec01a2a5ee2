// Package git reads revision information from the repository holding a site.
// The pipeline never writes to the repository.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrNotInstalled is returned when no git binary is on PATH.
var ErrNotInstalled = errors.New("git is not installed")

// Client wraps git command execution in a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled reports whether a git binary is available.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if !IsInstalled() {
		return "", ErrNotInstalled
	}
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepo reports whether the working directory is inside a work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// LastRevision returns the hash of the last commit touching relPath, or an
// empty string when the file was never committed.
func (c *Client) LastRevision(ctx context.Context, relPath string) (string, error) {
	return c.Run(ctx, "log", "-1", "--format=%H", "--", relPath)
}

// Revisions returns the last commit hash of every file ever committed under
// the working directory, keyed by path relative to it. One log walk serves
// the whole corpus.
func (c *Client) Revisions(ctx context.Context) (map[string]string, error) {
	out, err := c.Run(ctx, "log", "--format=commit %H", "--name-only", "--relative", "--", ".")
	if err != nil {
		return nil, err
	}

	revs := make(map[string]string)
	var current string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "commit "):
			current = strings.TrimPrefix(line, "commit ")
		default:
			// log walks newest first; the first sighting is the last revision.
			if _, seen := revs[line]; !seen && current != "" {
				revs[line] = current
			}
		}
	}
	return revs, nil
}
