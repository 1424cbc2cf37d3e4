package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

// Fields are separated by NUL so branch names and subjects can contain
// anything else.
const branchFormat = "%(HEAD)%00%(refname)%00%(objectname)%00%(upstream:short)%00%(upstream:track)%00%(contents:subject)"

func (p *CLIProvider) queryBranches(ctx context.Context, dir string) ([]models.Branch, error) {
	output, err := p.run(ctx, dir, "for-each-ref", "--format="+branchFormat, "refs/heads", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	return parseBranches(output), nil
}

// parseBranches parses for-each-ref output in branchFormat. Local branches
// come first, then remote branches, each in ref order. A detached HEAD is
// never listed, so at most one branch is current.
func parseBranches(output []byte) []models.Branch {
	var local, remote []models.Branch
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	seenCurrent := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.SplitN(line, "\x00", 6)
		if len(parts) < 6 {
			continue
		}

		head, ref, hash, upstream, track, subject := parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]

		branch := models.Branch{
			Hash:     hash,
			Upstream: upstream,
			Summary:  subject,
		}

		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			branch.Name = strings.TrimPrefix(ref, "refs/heads/")
		case strings.HasPrefix(ref, "refs/remotes/"):
			branch.Name = strings.TrimPrefix(ref, "refs/remotes/")
			branch.IsRemote = true
			// origin/HEAD is a symbolic pointer, not a branch
			if strings.HasSuffix(branch.Name, "/HEAD") {
				continue
			}
		default:
			continue
		}

		if head == "*" && !branch.IsRemote && !seenCurrent {
			branch.IsCurrent = true
			seenCurrent = true
		}

		branch.Gone = strings.Contains(track, "gone")
		branch.Ahead, branch.Behind = parseTrack(track)

		if branch.IsRemote {
			remote = append(remote, branch)
		} else {
			local = append(local, branch)
		}
	}

	return append(local, remote...)
}

// parseTrack extracts ahead/behind counts from an upstream track string,
// e.g. "[ahead 2]", "[behind 1]" or "[ahead 2, behind 1]".
func parseTrack(track string) (ahead, behind int) {
	track = strings.Trim(strings.TrimSpace(track), "[]")
	if track == "" {
		return 0, 0
	}

	for _, part := range strings.Split(track, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "ahead") {
			fmt.Sscanf(part, "ahead %d", &ahead)
		}
		if strings.HasPrefix(part, "behind") {
			fmt.Sscanf(part, "behind %d", &behind)
		}
	}
	return ahead, behind
}
