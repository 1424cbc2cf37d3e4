package git

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Johannes-Berggren/gitpeek/internal/models"
	"github.com/Johannes-Berggren/gitpeek/internal/summary"
)

// Format: hash, short hash, author, author time, subject; unit-separated.
const logFormat = "%H%x1f%h%x1f%an%x1f%at%x1f%s"

func (p *CLIProvider) queryCommits(ctx context.Context, dir string, limit, summaryLength int) ([]models.Commit, error) {
	born, err := p.hasHead(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !born {
		// Fresh repository without commits
		return nil, nil
	}

	args := []string{
		"log",
		"--format=" + logFormat,
		"--no-color",
	}
	if limit > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", limit))
	}
	args = append(args, "HEAD", "--")

	output, err := p.run(ctx, dir, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run git log: %w", err)
	}

	return parseCommits(output, summaryLength), nil
}

// hasHead reports whether HEAD resolves to a commit.
func (p *CLIProvider) hasHead(ctx context.Context, dir string) (bool, error) {
	_, err := p.run(ctx, dir, "rev-parse", "--verify", "--quiet", "HEAD^{commit}")
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	var ce *commandError
	if stderrors.As(err, &ce) && stderrors.As(ce.err, &exitErr) && exitErr.ExitCode() == 1 && strings.TrimSpace(ce.stderr) == "" {
		return false, nil
	}
	return false, err
}

// parseCommits parses log output in logFormat. Records with missing fields
// are skipped; unparsable timestamps become the zero time.
func parseCommits(output []byte, summaryLength int) []models.Commit {
	var commits []models.Commit
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, "\x1f", 5)
		if len(parts) < 5 || parts[0] == "" {
			continue
		}

		var date time.Time
		if unixTime, err := strconv.ParseInt(parts[3], 10, 64); err == nil {
			date = time.Unix(unixTime, 0)
		}

		commits = append(commits, models.Commit{
			Hash:           parts[0],
			ShortHash:      parts[1],
			Author:         parts[2],
			Date:           date,
			RawSummary:     parts[4],
			DisplaySummary: summary.Format(parts[4], summaryLength),
		})
	}

	return commits
}
