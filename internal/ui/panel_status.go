package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/gitpeek/internal/keys"
	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

// StatusPanel shows the working tree in Staged, Unstaged and Untracked
// sections. Section headings are rows of their own.
type StatusPanel struct {
	styles *Styles
	keys   keys.KeyMap
}

func NewStatusPanel(styles *Styles, km keys.KeyMap) *StatusPanel {
	return &StatusPanel{styles: styles, keys: km}
}

func (p *StatusPanel) ID() PanelID   { return PanelStatus }
func (p *StatusPanel) Title() string { return "Status" }

func (p *StatusPanel) rows(snap *models.Snapshot) []listRow {
	if snap == nil || snap.Status.IsClean() {
		return nil
	}
	st := p.styles
	s := snap.Status

	var rows []listRow
	heading := func(name string, n int) {
		text := fmt.Sprintf("%s (%d)", name, n)
		rows = append(rows, listRow{styled: st.PanelTitle.Render(text), plain: text})
	}
	change := func(f models.FileChange) {
		marker := string(f.Kind)
		path := f.DisplayPath()
		style := p.kindStyle(f.Kind)
		rows = append(rows, listRow{
			styled: "  " + style.Render(marker) + " " + style.UnsetBold().Render(path),
			plain:  "  " + marker + " " + path,
		})
	}

	if len(s.Staged) > 0 {
		heading("Staged", len(s.Staged))
		for _, f := range s.Staged {
			change(f)
		}
	}
	if len(s.Unstaged) > 0 {
		heading("Unstaged", len(s.Unstaged))
		for _, f := range s.Unstaged {
			change(f)
		}
	}
	if len(s.Untracked) > 0 {
		heading("Untracked", len(s.Untracked))
		for _, path := range s.Untracked {
			rows = append(rows, listRow{
				styled: "  " + st.Added.Render("?") + " " + st.Muted.Render(path),
				plain:  "  ? " + path,
			})
		}
	}
	return rows
}

func (p *StatusPanel) kindStyle(k models.ChangeKind) lipgloss.Style {
	switch k {
	case models.ChangeAdded:
		return p.styles.Added
	case models.ChangeDeleted:
		return p.styles.Deleted
	case models.ChangeUnmerged:
		return p.styles.Error
	default:
		return p.styles.Modified
	}
}

func (p *StatusPanel) Len(snap *models.Snapshot) int {
	return len(p.rows(snap))
}

func (p *StatusPanel) Render(snap *models.Snapshot, area Rect, cur ListCursor, focused bool) string {
	rows := p.rows(snap)

	title := p.Title()
	empty := "Working tree clean"
	if snap == nil {
		empty = "Loading status..."
	} else if !snap.Status.IsClean() {
		title = fmt.Sprintf("%s (%d changed)", title, snap.Status.Len())
	}

	return renderList(p.styles, title, area, cur, focused, len(rows), empty, func(i int) listRow {
		return rows[i]
	})
}

func (p *StatusPanel) HandleKey(msg tea.KeyMsg, snap *models.Snapshot, cur *ListCursor, height int) Command {
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
	}
	return nil
}
