package models

type Branch struct {
	Name      string
	Hash      string
	IsCurrent bool
	IsRemote  bool
	Upstream  string // e.g. "origin/main"; empty when the branch tracks nothing
	Gone      bool   // upstream configured but no longer exists
	Ahead     int
	Behind    int
	Summary   string // first line of the tip commit message
}

// ShortHash returns the abbreviated object id shown in lists.
func (b Branch) ShortHash() string {
	if len(b.Hash) > 7 {
		return b.Hash[:7]
	}
	return b.Hash
}

// HasUpstream reports whether the branch tracks a remote branch that exists.
func (b Branch) HasUpstream() bool {
	return b.Upstream != "" && !b.Gone
}
