package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

// PanelID names a dashboard region with its own cursor.
type PanelID int

const (
	PanelBranches PanelID = iota
	PanelCommits
	PanelStatus
	PanelDebug

	panelCount
)

func (id PanelID) String() string {
	switch id {
	case PanelBranches:
		return "branches"
	case PanelCommits:
		return "commits"
	case PanelStatus:
		return "status"
	case PanelDebug:
		return "debug"
	}
	return "unknown"
}

// Panel is one region of the dashboard. Render must not do I/O and must
// accept a nil snapshot (nothing fetched yet). HandleKey may move the
// cursor it is given; anything beyond that is requested through the
// returned Command, which is nil when there is nothing to do.
type Panel interface {
	ID() PanelID
	Title() string
	Len(snap *models.Snapshot) int
	Render(snap *models.Snapshot, area Rect, cur ListCursor, focused bool) string
	HandleKey(msg tea.KeyMsg, snap *models.Snapshot, cur *ListCursor, height int) Command
}

// dismisser is implemented by panels holding transient state (a filter)
// that esc should clear before it quits the program.
type dismisser interface {
	Dismiss() bool
}

// Command is a request from a panel to the event loop.
type Command interface {
	command()
}

// CmdShowCommitDetail opens the detail pane for a commit.
type CmdShowCommitDetail struct {
	Hash string
}

// CmdCopyText puts Text on the system clipboard.
type CmdCopyText struct {
	Text string
}

// CmdCaptureInput routes every key to the focused panel, global bindings
// included, until CmdReleaseInput.
type CmdCaptureInput struct{}

// CmdReleaseInput ends CmdCaptureInput.
type CmdReleaseInput struct{}

// CmdStatus shows a transient message on the status line.
type CmdStatus struct {
	Text string
}

func (CmdShowCommitDetail) command() {}
func (CmdCopyText) command()         {}
func (CmdCaptureInput) command()     {}
func (CmdReleaseInput) command()     {}
func (CmdStatus) command()           {}
