package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johannes-Berggren/gitpeek/internal/models"
	"github.com/Johannes-Berggren/gitpeek/internal/terminal"
)

// DebugInfo is the session state the debug panel reports.
type DebugInfo struct {
	Phase         Phase
	Focused       PanelID
	Size          terminal.Size
	SummaryLength int
	Renders       int
	Fetches       int
	Ignored       int
	LastRender    time.Duration
	LastFetch     time.Duration
	Frames        *DebugRing
}

// DebugPanel renders session facts and the most recent debug frames. It
// has no selection.
type DebugPanel struct {
	styles *Styles
	info   func() DebugInfo
}

func NewDebugPanel(styles *Styles, info func() DebugInfo) *DebugPanel {
	return &DebugPanel{styles: styles, info: info}
}

func (p *DebugPanel) ID() PanelID   { return PanelDebug }
func (p *DebugPanel) Title() string { return "Debug" }

func (p *DebugPanel) Len(*models.Snapshot) int { return 0 }

func (p *DebugPanel) Render(snap *models.Snapshot, area Rect, _ ListCursor, _ bool) string {
	if area.Empty() {
		return ""
	}
	st := p.styles
	info := p.info()

	facts := fmt.Sprintf("%s  phase=%s focus=%s size=%dx%d summary=%d renders=%d fetches=%d ignored=%d render=%s fetch=%s",
		p.Title(), info.Phase, info.Focused, info.Size.Columns, info.Size.Rows, info.SummaryLength,
		info.Renders, info.Fetches, info.Ignored,
		info.LastRender.Round(time.Microsecond), info.LastFetch.Round(time.Millisecond))
	if snap != nil {
		facts += fmt.Sprintf(" snapshot=%s", snap.FetchedAt.Format("15:04:05"))
	}

	var b strings.Builder
	b.WriteString(p.styles.Divider.Render(strings.Repeat("─", area.Width)))
	b.WriteString("\n" + st.Refreshing.Render(facts))

	if info.Frames == nil {
		return b.String()
	}
	for _, f := range info.Frames.Recent(max(area.Height-2, 0)) {
		b.WriteString("\n" + st.Muted.Render(fmt.Sprintf("%s %-24s render=%s fetch=%s",
			f.At.Format("15:04:05.000"), f.Event,
			f.RenderDuration.Round(time.Microsecond), f.FetchDuration.Round(time.Millisecond))))
	}
	return b.String()
}

func (p *DebugPanel) HandleKey(tea.KeyMsg, *models.Snapshot, *ListCursor, int) Command {
	return nil
}
