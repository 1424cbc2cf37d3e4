package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/Johannes-Berggren/gitpeek/internal/keys"
	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

const (
	unknownAuthor = "unknown"
	unknownDate   = "unknown date"
)

// CommitPanel lists the commit log, most recent first.
type CommitPanel struct {
	styles *Styles
	keys   keys.KeyMap
}

func NewCommitPanel(styles *Styles, km keys.KeyMap) *CommitPanel {
	return &CommitPanel{styles: styles, keys: km}
}

func (p *CommitPanel) ID() PanelID   { return PanelCommits }
func (p *CommitPanel) Title() string { return "Commits" }

func (p *CommitPanel) Len(snap *models.Snapshot) int {
	if snap == nil {
		return 0
	}
	return len(snap.Commits)
}

func (p *CommitPanel) Render(snap *models.Snapshot, area Rect, cur ListCursor, focused bool) string {
	empty := "No commits yet"
	if snap == nil {
		empty = "Loading commits..."
	}
	n := p.Len(snap)
	title := fmt.Sprintf("%s (%d)", p.Title(), n)

	return renderList(p.styles, title, area, cur, focused, n, empty, func(i int) listRow {
		return p.row(snap.Commits[i])
	})
}

func (p *CommitPanel) row(c models.Commit) listRow {
	st := p.styles
	author := authorOrPlaceholder(c.Author)
	date := relativeDate(c)

	plain := []string{c.ShortHash, c.DisplaySummary, "- " + date, "<" + author + ">"}
	styled := []string{
		st.Hash.Render(c.ShortHash),
		c.DisplaySummary,
		st.Muted.Render("- " + date),
		st.Author.Render("<" + author + ">"),
	}
	return listRow{
		styled: strings.Join(styled, " "),
		plain:  strings.Join(plain, " "),
	}
}

func authorOrPlaceholder(author string) string {
	if strings.TrimSpace(author) == "" {
		return unknownAuthor
	}
	return author
}

func relativeDate(c models.Commit) string {
	if c.Date.IsZero() {
		return unknownDate
	}
	return humanize.Time(c.Date)
}

func (p *CommitPanel) HandleKey(msg tea.KeyMsg, snap *models.Snapshot, cur *ListCursor, height int) Command {
	n := p.Len(snap)
	switch {
	case key.Matches(msg, p.keys.Up):
		cur.Move(-1, n, height)
	case key.Matches(msg, p.keys.Down):
		cur.Move(1, n, height)
	case key.Matches(msg, p.keys.PageUp):
		cur.Page(-1, n, height)
	case key.Matches(msg, p.keys.PageDown):
		cur.Page(1, n, height)
	case key.Matches(msg, p.keys.Top):
		cur.Top(n, height)
	case key.Matches(msg, p.keys.Bottom):
		cur.Bottom(n, height)

	case key.Matches(msg, p.keys.Select):
		if c := selectedCommit(snap, *cur); c != nil {
			return CmdShowCommitDetail{Hash: c.Hash}
		}
	case key.Matches(msg, p.keys.Copy):
		if c := selectedCommit(snap, *cur); c != nil {
			return CmdCopyText{Text: c.Hash}
		}
	}
	return nil
}

func selectedCommit(snap *models.Snapshot, cur ListCursor) *models.Commit {
	if snap == nil || cur.None() || cur.Selected >= len(snap.Commits) {
		return nil
	}
	return &snap.Commits[cur.Selected]
}
