// Package git builds repository snapshots by running read-only git
// plumbing commands.
package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Johannes-Berggren/gitpeek/internal/errors"
	"github.com/Johannes-Berggren/gitpeek/internal/logger"
	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

// Request is everything a fetch needs. It is passed by value to the worker.
type Request struct {
	Path          string
	SummaryLength int
	CommitLimit   int
}

// Provider produces snapshots. Implementations must not modify the
// repository and must be safe to call repeatedly.
type Provider interface {
	Fetch(ctx context.Context, req Request) (*models.Snapshot, error)
}

// CLIProvider implements Provider on top of the git binary.
type CLIProvider struct {
	gitPath string
	now     func() time.Time
}

// NewCLIProvider returns a provider that runs the git found in PATH.
func NewCLIProvider() *CLIProvider {
	return &CLIProvider{gitPath: "git", now: time.Now}
}

// Fetch queries branches, the commit log and the working tree status of the
// repository containing req.Path.
func (p *CLIProvider) Fetch(ctx context.Context, req Request) (*models.Snapshot, error) {
	log := logger.ComponentLogger("git")
	start := p.now()

	path, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, errors.Inaccessible(req.Path, err)
	}
	if err := checkDir(path); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(p.gitPath); err != nil {
		return nil, errors.Inaccessible(path, err)
	}

	out, err := p.run(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, classify(path, err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		// Inside a .git directory or a bare repository: nothing to show.
		return nil, errors.NotARepository(path, fmt.Errorf("no work tree"))
	}

	snap := &models.Snapshot{Path: root}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		branches, err := p.queryBranches(gctx, root)
		snap.Branches = branches
		return err
	})
	g.Go(func() error {
		commits, err := p.queryCommits(gctx, root, req.CommitLimit, req.SummaryLength)
		snap.Commits = commits
		return err
	})
	g.Go(func() error {
		status, err := p.queryStatus(gctx, root)
		snap.Status = status
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classify(root, err)
	}

	snap.FetchedAt = p.now()
	log.Debug("snapshot fetched",
		"path", root,
		"branches", len(snap.Branches),
		"commits", len(snap.Commits),
		"changes", snap.Status.Len(),
		"took", snap.FetchedAt.Sub(start))
	return snap, nil
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Inaccessible(path, err)
	}
	if !info.IsDir() {
		return errors.NotARepository(path, fmt.Errorf("not a directory"))
	}
	return nil
}

// commandError carries git's stderr so failures can be classified.
type commandError struct {
	args   []string
	stderr string
	err    error
}

func (e *commandError) Error() string {
	msg := strings.TrimSpace(e.stderr)
	if msg == "" {
		msg = e.err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.args, " "), msg)
}

func (e *commandError) Unwrap() error {
	return e.err
}

func (p *CLIProvider) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.gitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_OPTIONAL_LOCKS=0",
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &commandError{args: args, stderr: stderr.String(), err: err}
	}
	return stdout.Bytes(), nil
}

// classify maps a failed git invocation onto the repository error kinds.
func classify(path string, err error) error {
	if errors.IsRepository(err) {
		return err
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return errors.Inaccessible(path, err)
	}

	var stderr string
	var ce *commandError
	if stderrors.As(err, &ce) {
		stderr = strings.ToLower(ce.stderr)
	}

	switch {
	case strings.Contains(stderr, "not a git repository"):
		return errors.NotARepository(path, err)
	case strings.Contains(stderr, "permission denied"),
		strings.Contains(stderr, "dubious ownership"),
		strings.Contains(stderr, "unsafe repository"),
		strings.Contains(stderr, "cannot change to"):
		return errors.Inaccessible(path, err)
	case strings.Contains(stderr, "bad object"),
		strings.Contains(stderr, "corrupt"),
		strings.Contains(stderr, "unable to read"),
		strings.Contains(stderr, "invalid object"),
		strings.Contains(stderr, "bad index"),
		strings.Contains(stderr, "index file"),
		strings.Contains(stderr, "broken"),
		strings.Contains(stderr, "malformed"):
		return errors.Corrupt(path, err)
	}

	var parseErr *parseError
	if stderrors.As(err, &parseErr) {
		return errors.Corrupt(path, err)
	}
	return errors.Inaccessible(path, err)
}

// parseError reports git output that could not be understood at all.
type parseError struct {
	what string
	data string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("unexpected %s output: %q", e.what, e.data)
}
