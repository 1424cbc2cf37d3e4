package git

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

func (p *CLIProvider) queryStatus(ctx context.Context, dir string) (models.WorkingTreeStatus, error) {
	output, err := p.run(ctx, dir, "status", "--porcelain=v1", "-z", "--untracked-files=all", "--ignore-submodules=dirty")
	if err != nil {
		return models.WorkingTreeStatus{}, fmt.Errorf("failed to get status: %w", err)
	}
	return parseStatus(output)
}

// parseStatus parses git status --porcelain=v1 -z output.
// Each entry is "XY PATH\0"; renames and copies are followed by "ORIG\0".
// X = staged status, Y = working tree status.
func parseStatus(output []byte) (models.WorkingTreeStatus, error) {
	var status models.WorkingTreeStatus

	entries := bytes.Split(output, []byte{0})
	for i := 0; i < len(entries); i++ {
		entry := string(entries[i])
		if entry == "" {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return status, &parseError{what: "status", data: entry}
		}

		x, y := entry[0], entry[1]
		path := entry[3:]

		var orig string
		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			if i+1 < len(entries) {
				i++
				orig = string(entries[i])
			}
		}

		switch {
		case x == '?' && y == '?':
			status.Untracked = append(status.Untracked, path)
			continue
		case x == '!' && y == '!':
			continue
		case isUnmerged(x, y):
			status.Unstaged = append(status.Unstaged, models.FileChange{Path: path, Kind: models.ChangeUnmerged})
			continue
		}

		if kind, ok := changeKind(x); ok {
			change := models.FileChange{Path: path, Kind: kind}
			if kind == models.ChangeRenamed || kind == models.ChangeCopied {
				change.OrigPath = orig
			}
			status.Staged = append(status.Staged, change)
		}
		if kind, ok := changeKind(y); ok {
			change := models.FileChange{Path: path, Kind: kind}
			if kind == models.ChangeRenamed || kind == models.ChangeCopied {
				change.OrigPath = orig
			}
			status.Unstaged = append(status.Unstaged, change)
		}
	}

	return status, nil
}

func changeKind(c byte) (models.ChangeKind, bool) {
	switch c {
	case 'A':
		return models.ChangeAdded, true
	case 'M', 'T':
		return models.ChangeModified, true
	case 'D':
		return models.ChangeDeleted, true
	case 'R':
		return models.ChangeRenamed, true
	case 'C':
		return models.ChangeCopied, true
	}
	return "", false
}

func isUnmerged(x, y byte) bool {
	if x == 'U' || y == 'U' {
		return true
	}
	return (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}
