// Package ui is gitpeek's dashboard: panels laid out over the terminal and
// the bubbletea model that owns the session state and the current
// repository snapshot.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johannes-Berggren/gitpeek/internal/config"
	"github.com/Johannes-Berggren/gitpeek/internal/git"
	"github.com/Johannes-Berggren/gitpeek/internal/keys"
	"github.com/Johannes-Berggren/gitpeek/internal/logger"
	"github.com/Johannes-Berggren/gitpeek/internal/models"
	"github.com/Johannes-Berggren/gitpeek/internal/terminal"
)

const (
	sizePollInterval = time.Second
	messageTTL       = 4 * time.Second
)

// Phase is the event loop's state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseRefreshing
	PhaseQuitting
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseQuitting:
		return "quitting"
	}
	return "unknown"
}

// SessionState is the per-run UI state. Only Update mutates it.
type SessionState struct {
	Focused PanelID
	Cursors [panelCount]ListCursor
	Debug   bool
	Size    terminal.Size
}

// Options configures a Model.
type Options struct {
	// Context bounds every fetch. Defaults to context.Background.
	Context  context.Context
	Provider git.Provider
	Request  git.Request

	Debug              bool
	RefreshInterval    time.Duration // 0 disables periodic refresh
	SlowFetchThreshold time.Duration // 0 disables the "still refreshing" hint
	Theme              config.Theme

	// Size polls the terminal dimensions; nil disables polling.
	Size func() (terminal.Size, error)
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

type fetchResultMsg struct {
	seq     uint64
	snap    *models.Snapshot
	err     error
	elapsed time.Duration
}

type slowFetchMsg struct {
	seq uint64
}

type refreshTickMsg struct{}

type sizePolledMsg struct {
	size terminal.Size
	err  error
}

type clearMessageMsg struct {
	id int
}

type copiedMsg struct {
	text string
	err  error
}

// Model is the dashboard's bubbletea model.
type Model struct {
	opts   Options
	ctx    context.Context
	keys   keys.KeyMap
	styles *Styles

	branches *BranchPanel
	commits  *CommitPanel
	status   *StatusPanel
	debug    *DebugPanel
	panels   []Panel // focus order

	state  SessionState
	layout Layout
	phase  Phase
	snap   *models.Snapshot

	// Outstanding fetch. Results carrying another seq are stale.
	seq           uint64
	cancel        context.CancelFunc
	refreshQueued bool
	slow          bool
	fetches       int

	capture    bool
	showHelp   bool
	detailHash string
	message    string
	messageErr bool
	messageID  int
	fatalErr   error
	spinner    spinner.Model
	help       help.Model
	frames     *DebugRing
	renders    int
	ignored    int
	lastRender time.Duration
	lastFetch  time.Duration
}

// New returns a Model that has not fetched anything yet; Init issues the
// first fetch.
func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	km := keys.Default()
	styles := NewStyles(opts.Theme)

	m := &Model{
		opts:    opts,
		ctx:     opts.Context,
		keys:    km,
		styles:  styles,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.Refreshing)),
		help:    help.New(),
		frames:  NewDebugRing(DebugRingSize),
	}

	m.branches = NewBranchPanel(styles, km, opts.Request.SummaryLength)
	m.commits = NewCommitPanel(styles, km)
	m.status = NewStatusPanel(styles, km)
	m.debug = NewDebugPanel(styles, m.debugInfo)
	m.panels = []Panel{m.branches, m.commits, m.status}

	m.state = SessionState{Focused: PanelBranches, Debug: opts.Debug}
	for i := range m.state.Cursors {
		m.state.Cursors[i] = ListCursor{Selected: -1}
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	logger.Info("dashboard starting for %s", m.opts.Request.Path)
	return tea.Batch(
		m.requestRefresh(),
		m.scheduleRefreshTick(),
		m.pollSize(),
	)
}

// FatalErr returns the error that ended the session, if any.
func (m *Model) FatalErr() error { return m.fatalErr }

// Phase returns the event loop's state.
func (m *Model) Phase() Phase { return m.phase }

// Snapshot returns the snapshot being displayed, nil before the first
// successful fetch.
func (m *Model) Snapshot() *models.Snapshot { return m.snap }

// State returns a copy of the session state.
func (m *Model) State() SessionState { return m.state }

// requestRefresh starts a fetch, or queues one if a fetch is outstanding.
func (m *Model) requestRefresh() tea.Cmd {
	switch m.phase {
	case PhaseQuitting:
		return nil
	case PhaseRefreshing:
		if !m.refreshQueued {
			logger.Debug("refresh requested during fetch %d, queued", m.seq)
		}
		m.refreshQueued = true
		return nil
	}
	return m.startFetch()
}

func (m *Model) startFetch() tea.Cmd {
	m.seq++
	seq := m.seq
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.phase = PhaseRefreshing
	m.slow = false
	m.fetches++

	provider, req := m.opts.Provider, m.opts.Request
	logger.Debug("fetch %d started for %s", seq, req.Path)

	// Commands run on their own goroutines, out of reach of the session
	// guard, so a provider panic is reported as a failed fetch.
	fetch := func() (msg tea.Msg) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("fetch %d panicked: %v", seq, r)
				msg = fetchResultMsg{seq: seq, err: fmt.Errorf("fetch panicked: %v", r), elapsed: time.Since(start)}
			}
		}()
		snap, err := provider.Fetch(ctx, req)
		return fetchResultMsg{seq: seq, snap: snap, err: err, elapsed: time.Since(start)}
	}

	cmds := []tea.Cmd{fetch, m.spinner.Tick}
	if d := m.opts.SlowFetchThreshold; d > 0 {
		cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg { return slowFetchMsg{seq: seq} }))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleFetchResult(msg fetchResultMsg) tea.Cmd {
	if m.phase == PhaseQuitting || msg.seq != m.seq {
		logger.Debug("discarding result of fetch %d (current %d, phase %s)", msg.seq, m.seq, m.phase)
		return nil
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.phase = PhaseRunning
	m.slow = false
	m.lastFetch = msg.elapsed

	var cmd tea.Cmd
	if msg.err != nil {
		if m.snap == nil {
			logger.Error("initial fetch failed: %v", msg.err)
			m.fatalErr = msg.err
			return m.quit()
		}
		logger.Warn("refresh failed: %v", msg.err)
		cmd = m.setMessage("Refresh failed: "+msg.err.Error(), true)
	} else {
		m.swap(msg.snap)
		logger.Debug("fetch %d done in %s: %d branches, %d commits", msg.seq, msg.elapsed, len(msg.snap.Branches), len(msg.snap.Commits))
	}

	if m.refreshQueued {
		m.refreshQueued = false
		return tea.Batch(cmd, m.startFetch())
	}
	return cmd
}

// swap replaces the displayed snapshot and brings every cursor back in
// range of the new lists.
func (m *Model) swap(snap *models.Snapshot) {
	m.snap = snap
	m.clampCursors()

	if m.detailHash != "" && m.detailCommit() == nil {
		m.detailHash = ""
	}
}

func (m *Model) clampCursors() {
	for _, p := range m.panels {
		m.state.Cursors[p.ID()].Clamp(p.Len(m.snap), listRows(m.layout.Area(p.ID())))
	}
}

func (m *Model) quit() tea.Cmd {
	m.phase = PhaseQuitting
	m.refreshQueued = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return tea.Quit
}

func (m *Model) scheduleRefreshTick() tea.Cmd {
	if m.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.RefreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m *Model) pollSize() tea.Cmd {
	if m.opts.Size == nil {
		return nil
	}
	size := m.opts.Size
	return tea.Tick(sizePollInterval, func(time.Time) tea.Msg {
		s, err := size()
		return sizePolledMsg{size: s, err: err}
	})
}

func (m *Model) resize(size terminal.Size) {
	m.state.Size = size
	m.relayout()
}

func (m *Model) relayout() {
	m.layout = ComputeLayout(m.state.Size.Columns, m.state.Size.Rows, m.state.Debug)
	m.help.Width = m.layout.Width
	m.clampCursors()
}

func (m *Model) setMessage(text string, isErr bool) tea.Cmd {
	m.messageID++
	id := m.messageID
	m.message, m.messageErr = text, isErr
	return tea.Tick(messageTTL, func(time.Time) tea.Msg { return clearMessageMsg{id: id} })
}

func (m *Model) focusedPanel() Panel {
	for _, p := range m.panels {
		if p.ID() == m.state.Focused {
			return p
		}
	}
	return m.panels[0]
}

func (m *Model) cycleFocus(delta int) {
	idx := 0
	for i, p := range m.panels {
		if p.ID() == m.state.Focused {
			idx = i
		}
	}
	n := len(m.panels)
	m.state.Focused = m.panels[((idx+delta)%n+n)%n].ID()
}

func (m *Model) detailCommit() *models.Commit {
	if m.snap == nil || m.detailHash == "" {
		return nil
	}
	for i := range m.snap.Commits {
		if m.snap.Commits[i].Hash == m.detailHash {
			return &m.snap.Commits[i]
		}
	}
	return nil
}

func (m *Model) debugInfo() DebugInfo {
	return DebugInfo{
		Phase:         m.phase,
		Focused:       m.state.Focused,
		Size:          m.state.Size,
		SummaryLength: m.opts.Request.SummaryLength,
		Renders:       m.renders,
		Fetches:       m.fetches,
		Ignored:       m.ignored,
		LastRender:    m.lastRender,
		LastFetch:     m.lastFetch,
		Frames:        m.frames,
	}
}

func copyText(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{text: text, err: write(text)}
	}
}
