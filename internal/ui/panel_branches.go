package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johannes-Berggren/gitpeek/internal/keys"
	"github.com/Johannes-Berggren/gitpeek/internal/models"
	"github.com/Johannes-Berggren/gitpeek/internal/summary"
)

// BranchScope selects which branches the branch panel lists.
type BranchScope int

const (
	ScopeLocal BranchScope = iota
	ScopeAll
	ScopeRemote
)

func (s BranchScope) String() string {
	switch s {
	case ScopeAll:
		return "local+remote"
	case ScopeRemote:
		return "remote"
	default:
		return "local"
	}
}

// BranchPanel lists branches with their upstream state.
type BranchPanel struct {
	styles        *Styles
	keys          keys.KeyMap
	summaryLength int

	scope   BranchScope
	filter  textinput.Model
	editing bool
}

func NewBranchPanel(styles *Styles, km keys.KeyMap, summaryLength int) *BranchPanel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 100
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &BranchPanel{
		styles:        styles,
		keys:          km,
		summaryLength: summaryLength,
		filter:        ti,
	}
}

func (p *BranchPanel) ID() PanelID   { return PanelBranches }
func (p *BranchPanel) Title() string { return "Branches" }

// Scope returns the current branch scope.
func (p *BranchPanel) Scope() BranchScope { return p.scope }

// Filter returns the active filter text.
func (p *BranchPanel) Filter() string { return p.filter.Value() }

// Editing reports whether the filter is being typed.
func (p *BranchPanel) Editing() bool { return p.editing }

// branches returns the branches in scope that match the filter.
func (p *BranchPanel) branches(snap *models.Snapshot) []models.Branch {
	if snap == nil {
		return nil
	}

	var src []models.Branch
	switch p.scope {
	case ScopeLocal:
		src = snap.LocalBranches()
	case ScopeRemote:
		src = snap.RemoteBranches()
	default:
		src = snap.Branches
	}

	needle := strings.ToLower(strings.TrimSpace(p.filter.Value()))
	if needle == "" {
		return src
	}
	var out []models.Branch
	for _, b := range src {
		if strings.Contains(strings.ToLower(b.Name), needle) {
			out = append(out, b)
		}
	}
	return out
}

func (p *BranchPanel) Len(snap *models.Snapshot) int {
	return len(p.branches(snap))
}

func (p *BranchPanel) Render(snap *models.Snapshot, area Rect, cur ListCursor, focused bool) string {
	list := p.branches(snap)

	title := fmt.Sprintf("%s (%d %s)", p.Title(), len(list), p.scope)
	if p.editing || p.filter.Value() != "" {
		title += "  " + p.filter.View()
	}

	empty := "No branches"
	switch {
	case snap == nil:
		empty = "Loading branches..."
	case p.filter.Value() != "":
		empty = "No branches match the filter"
	}

	return renderList(p.styles, title, area, cur, focused, len(list), empty, func(i int) listRow {
		return p.row(list[i])
	})
}

func (p *BranchPanel) row(b models.Branch) listRow {
	st := p.styles

	marker := "  "
	name := b.Name
	styledName := name
	if b.IsCurrent {
		marker = "* "
		styledName = st.Current.Render(name)
	}

	track := p.trackLabel(b)
	styledTrack := st.Muted.Render(track)
	if b.Gone {
		styledTrack = st.Error.Render(track)
	}

	subject := summary.Format(b.Summary, p.summaryLength)

	plain := []string{marker + name, b.ShortHash()}
	styled := []string{marker + styledName, st.Hash.Render(b.ShortHash())}
	if track != "" {
		plain = append(plain, track)
		styled = append(styled, styledTrack)
	}
	if subject != "" {
		plain = append(plain, subject)
		styled = append(styled, st.Muted.Render(subject))
	}

	return listRow{
		styled: strings.Join(styled, " "),
		plain:  strings.Join(plain, " "),
	}
}

func (p *BranchPanel) trackLabel(b models.Branch) string {
	if b.IsRemote {
		return ""
	}
	switch {
	case b.Gone:
		return "[gone]"
	case b.Upstream == "":
		return "[no upstream]"
	}

	label := b.Upstream
	if b.Ahead > 0 {
		label += fmt.Sprintf(" ↑%d", b.Ahead)
	}
	if b.Behind > 0 {
		label += fmt.Sprintf(" ↓%d", b.Behind)
	}
	return "[" + label + "]"
}

func (p *BranchPanel) HandleKey(msg tea.KeyMsg, snap *models.Snapshot, cur *ListCursor, height int) Command {
	if p.editing {
		return p.editFilter(msg, snap, cur, height)
	}

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

	case key.Matches(msg, p.keys.Scope):
		p.scope = (p.scope + 1) % 3
		cur.Top(p.Len(snap), height)
		return CmdStatus{Text: fmt.Sprintf("Showing %s branches", p.scope)}

	case key.Matches(msg, p.keys.Filter):
		p.editing = true
		p.filter.Focus()
		return CmdCaptureInput{}

	case key.Matches(msg, p.keys.Copy):
		list := p.branches(snap)
		if cur.None() || cur.Selected >= len(list) {
			return nil
		}
		return CmdCopyText{Text: list[cur.Selected].Name}
	}
	return nil
}

func (p *BranchPanel) editFilter(msg tea.KeyMsg, snap *models.Snapshot, cur *ListCursor, height int) Command {
	switch msg.Type {
	case tea.KeyEnter:
		p.editing = false
		p.filter.Blur()
		cur.Top(p.Len(snap), height)
		return CmdReleaseInput{}
	case tea.KeyEsc, tea.KeyCtrlC:
		p.editing = false
		p.filter.Reset()
		p.filter.Blur()
		cur.Top(p.Len(snap), height)
		return CmdReleaseInput{}
	}

	p.filter, _ = p.filter.Update(msg)
	cur.Top(p.Len(snap), height)
	return nil
}

// Dismiss clears an applied filter.
func (p *BranchPanel) Dismiss() bool {
	if p.filter.Value() == "" {
		return false
	}
	p.filter.Reset()
	return true
}
