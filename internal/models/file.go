package models

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "A"
	ChangeModified ChangeKind = "M"
	ChangeDeleted  ChangeKind = "D"
	ChangeRenamed  ChangeKind = "R"
	ChangeCopied   ChangeKind = "C"
	ChangeUnmerged ChangeKind = "U"
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	case ChangeCopied:
		return "copied"
	case ChangeUnmerged:
		return "unmerged"
	default:
		return "changed"
	}
}

type FileChange struct {
	Path     string
	OrigPath string // source path of a rename or copy
	Kind     ChangeKind
}

// DisplayPath renders renames as "old -> new".
func (f FileChange) DisplayPath() string {
	if f.OrigPath != "" {
		return f.OrigPath + " -> " + f.Path
	}
	return f.Path
}

type WorkingTreeStatus struct {
	Staged    []FileChange
	Unstaged  []FileChange
	Untracked []string
}

func (s WorkingTreeStatus) Len() int {
	return len(s.Staged) + len(s.Unstaged) + len(s.Untracked)
}

func (s WorkingTreeStatus) IsClean() bool {
	return s.Len() == 0
}
