package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Johannes-Berggren/gitpeek/internal/summary"
)

func (m *Model) View() string {
	start := time.Now()
	defer func() {
		m.lastRender = time.Since(start)
		m.renders++
	}()

	if m.phase == PhaseQuitting {
		return ""
	}
	// Handle case where terminal size isn't known yet
	if m.layout.Width == 0 || m.layout.Height == 0 {
		return "Loading..."
	}

	l := m.layout
	blocks := []block{
		m.block(l.Header, m.renderHeader(l.Header.Width)),
		m.block(l.Branches, m.renderPanel(m.branches)),
		m.block(l.Commits, m.renderCommitArea()),
		m.block(l.Status, m.renderPanel(m.status)),
		m.block(l.StatusLine, m.renderStatusLine()),
		m.block(l.Footer, m.renderFooter(l.Footer.Width)),
	}
	if m.state.Debug {
		blocks = append(blocks, m.block(l.Debug, m.debug.Render(m.snap, l.Debug, ListCursor{}, false)))
	}
	return compose(l.Width, l.Height, blocks)
}

func (m *Model) block(area Rect, content string) block {
	return block{area: area, lines: fitBlock(content, area.Width, area.Height)}
}

func (m *Model) renderPanel(p Panel) string {
	id := p.ID()
	return p.Render(m.snap, m.layout.Area(id), m.state.Cursors[id], m.state.Focused == id)
}

// renderCommitArea draws the commit log, or the help or commit detail pane
// in its place.
func (m *Model) renderCommitArea() string {
	switch {
	case m.showHelp:
		return m.renderHelp()
	case m.detailCommit() != nil:
		return m.renderDetail()
	}
	return m.renderPanel(m.commits)
}

func (m *Model) renderHeader(width int) string {
	st := m.styles
	parts := []string{st.Title.Render("gitpeek")}

	if m.snap != nil {
		parts = append(parts, st.Muted.Render(m.snap.Path))
		switch cur := m.snap.CurrentBranch(); {
		case cur != nil:
			parts = append(parts, "on "+st.Current.Render(cur.Name))
		case len(m.snap.Commits) > 0:
			parts = append(parts, st.Error.Render("HEAD detached"))
		default:
			parts = append(parts, st.Muted.Render("no commits yet"))
		}
	} else {
		parts = append(parts, st.Muted.Render(m.opts.Request.Path))
	}

	return strings.Join(parts, "  ") + "\n" + m.divider(width)
}

func (m *Model) renderStatusLine() string {
	st := m.styles
	switch {
	case m.message != "" && m.messageErr:
		return " " + st.Error.Render(m.message)
	case m.message != "":
		return " " + st.Current.Render(m.message)
	case m.phase == PhaseRefreshing && m.slow:
		return m.spinner.View() + " " + st.Refreshing.Render("still refreshing…")
	case m.phase == PhaseRefreshing:
		return m.spinner.View() + " " + st.Refreshing.Render("Refreshing...")
	case m.snap != nil:
		return " " + st.Muted.Render("Updated "+humanize.Time(m.snap.FetchedAt))
	}
	return ""
}

func (m *Model) renderFooter(width int) string {
	return m.divider(width) + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderHelp() string {
	return m.styles.FocusedTitle.Render("▸ Help") + "\n" + m.help.FullHelpView(m.keys.FullHelp())
}

func (m *Model) renderDetail() string {
	st := m.styles
	c := m.detailCommit()

	date := unknownDate
	if !c.Date.IsZero() {
		date = fmt.Sprintf("%s (%s)", c.Date.Format("Mon Jan 2 15:04:05 2006 -0700"), humanize.Time(c.Date))
	}

	lines := []string{
		st.FocusedTitle.Render("▸ Commit " + c.ShortHash),
		st.Hash.Render("commit " + c.Hash),
		"Author: " + st.Author.Render(authorOrPlaceholder(c.Author)),
		"Date:   " + date,
		"",
		"    " + summary.Sanitize(c.RawSummary),
		"",
		st.Muted.Render("esc: close • y: copy hash"),
	}
	return strings.Join(lines, "\n")
}
