package models

import "time"

// Snapshot is the state of one repository at one point in time. It is never
// modified after the provider returns it; a refresh produces a new Snapshot.
type Snapshot struct {
	Path      string
	Branches  []Branch
	Commits   []Commit // most recent first
	Status    WorkingTreeStatus
	FetchedAt time.Time
}

// CurrentBranch returns the checked-out branch, or nil on a detached HEAD.
func (s *Snapshot) CurrentBranch() *Branch {
	if s == nil {
		return nil
	}
	for i := range s.Branches {
		if s.Branches[i].IsCurrent {
			return &s.Branches[i]
		}
	}
	return nil
}

func (s *Snapshot) LocalBranches() []Branch {
	return s.filterBranches(func(b Branch) bool { return !b.IsRemote })
}

func (s *Snapshot) RemoteBranches() []Branch {
	return s.filterBranches(func(b Branch) bool { return b.IsRemote })
}

func (s *Snapshot) filterBranches(keep func(Branch) bool) []Branch {
	if s == nil {
		return nil
	}
	var out []Branch
	for _, b := range s.Branches {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
