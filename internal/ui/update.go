package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johannes-Berggren/gitpeek/internal/logger"
	"github.com/Johannes-Berggren/gitpeek/internal/terminal"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	if m.state.Debug {
		if event := describe(msg); event != "" {
			m.frames.Add(DebugFrame{
				At:             time.Now(),
				Event:          event,
				RenderDuration: m.lastRender,
				FetchDuration:  m.lastFetch,
			})
		}
	}
	return m, cmd
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(terminal.Size{Rows: msg.Height, Columns: msg.Width})
		return nil

	case sizePolledMsg:
		if m.phase == PhaseQuitting {
			return nil
		}
		if msg.err != nil {
			logger.Debug("terminal size poll failed: %v", msg.err)
		} else if msg.size != m.state.Size && msg.size.Columns > 0 && msg.size.Rows > 0 {
			m.resize(msg.size)
		}
		return m.pollSize()

	case fetchResultMsg:
		return m.handleFetchResult(msg)

	case slowFetchMsg:
		if m.phase == PhaseRefreshing && msg.seq == m.seq {
			logger.Warn("fetch %d still running after %s", msg.seq, m.opts.SlowFetchThreshold)
			m.slow = true
		}
		return nil

	case refreshTickMsg:
		if m.phase == PhaseQuitting {
			return nil
		}
		return tea.Batch(m.requestRefresh(), m.scheduleRefreshTick())

	case spinner.TickMsg:
		if m.phase != PhaseRefreshing {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case clearMessageMsg:
		if msg.id == m.messageID {
			m.message, m.messageErr = "", false
		}
		return nil

	case copiedMsg:
		if msg.err != nil {
			logger.Warn("clipboard write failed: %v", msg.err)
			return m.setMessage("Copy failed: "+msg.err.Error(), true)
		}
		return m.setMessage("Copied "+msg.text, false)
	}

	// Unrecognised terminal input and anything else bubbletea delivers.
	m.ignored++
	logger.Debug("ignored message %T", msg)
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.phase == PhaseQuitting {
		return nil
	}
	if m.capture {
		return m.dispatch(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Back):
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.detailHash != "":
			m.detailHash = ""
		case m.dismissFocused():
			m.clampCursors()
		default:
			return m.quit()
		}
		return nil

	case key.Matches(msg, m.keys.Refresh):
		return m.requestRefresh()

	case key.Matches(msg, m.keys.Debug):
		m.state.Debug = !m.state.Debug
		m.relayout()
		return nil

	case key.Matches(msg, m.keys.NextPanel):
		m.cycleFocus(1)
		return nil

	case key.Matches(msg, m.keys.PrevPanel):
		m.cycleFocus(-1)
		return nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil
	}

	return m.dispatch(msg)
}

func (m *Model) dismissFocused() bool {
	if d, ok := m.focusedPanel().(dismisser); ok {
		return d.Dismiss()
	}
	return false
}

// dispatch forwards msg to the focused panel and carries out the command
// it returns.
func (m *Model) dispatch(msg tea.KeyMsg) tea.Cmd {
	p := m.focusedPanel()
	cur := &m.state.Cursors[p.ID()]
	height := listRows(m.layout.Area(p.ID()))

	command := p.HandleKey(msg, m.snap, cur, height)
	cur.Clamp(p.Len(m.snap), height)

	// The detail pane follows the commit selection.
	if m.detailHash != "" && p.ID() == PanelCommits {
		if c := selectedCommit(m.snap, *cur); c != nil {
			m.detailHash = c.Hash
		}
	}

	return m.execute(command)
}

func (m *Model) execute(command Command) tea.Cmd {
	switch c := command.(type) {
	case nil:
		return nil
	case CmdShowCommitDetail:
		m.detailHash = c.Hash
		m.showHelp = false
	case CmdCopyText:
		return copyText(m.opts.Clipboard, c.Text)
	case CmdCaptureInput:
		m.capture = true
	case CmdReleaseInput:
		m.capture = false
	case CmdStatus:
		return m.setMessage(c.Text, false)
	default:
		logger.Warn("unhandled panel command %T", command)
	}
	return nil
}

// describe names msg for the debug panel. Spinner frames are left out.
func describe(msg tea.Msg) string {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return "key " + msg.String()
	case tea.WindowSizeMsg:
		return fmt.Sprintf("resize %dx%d", msg.Width, msg.Height)
	case fetchResultMsg:
		if msg.err != nil {
			return fmt.Sprintf("fetch %d failed", msg.seq)
		}
		return fmt.Sprintf("fetch %d done", msg.seq)
	case slowFetchMsg:
		return fmt.Sprintf("fetch %d slow", msg.seq)
	case refreshTickMsg:
		return "refresh tick"
	case copiedMsg:
		return "clipboard"
	case spinner.TickMsg, sizePolledMsg, clearMessageMsg:
		return ""
	}
	return fmt.Sprintf("%T", msg)
}
