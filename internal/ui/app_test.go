package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Johannes-Berggren/gitpeek/internal/config"
	"github.com/Johannes-Berggren/gitpeek/internal/git"
	"github.com/Johannes-Berggren/gitpeek/internal/models"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// fakeProvider counts fetches and can hold them until release is closed.
type fakeProvider struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	snap        *models.Snapshot
	err         error
	release     chan struct{}
	cancelled   chan struct{}
}

func (f *fakeProvider) Fetch(ctx context.Context, req git.Request) (*models.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	release, snap, err := f.release, f.snap, f.err
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			if f.cancelled != nil {
				close(f.cancelled)
			}
			return nil, ctx.Err()
		}
	}
	return snap, err
}

func (f *fakeProvider) stats() (calls, maxInFlight int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.maxInFlight
}

func testSnapshot(commits int) *models.Snapshot {
	s := &models.Snapshot{
		Path:      "/repo",
		Branches:  []models.Branch{{Name: "main", Hash: "abcdef1234", IsCurrent: true}},
		FetchedAt: time.Now(),
	}
	for i := 0; i < commits; i++ {
		s.Commits = append(s.Commits, models.Commit{
			Hash:           fmt.Sprintf("%040d", i),
			ShortHash:      fmt.Sprintf("%07d", i),
			Author:         "Ada",
			Date:           time.Now(),
			RawSummary:     fmt.Sprintf("commit %d", i),
			DisplaySummary: fmt.Sprintf("commit %d", i),
		})
	}
	return s
}

func newTestModel(p git.Provider) *Model {
	m := New(Options{
		Provider: p,
		Request:  git.Request{Path: "/repo", SummaryLength: 72, CommitLimit: 100},
		Theme:    config.ThemeFor(config.ThemeDefault),
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// start runs Init and swaps in snap as the result of the first fetch.
func start(t *testing.T, m *Model, snap *models.Snapshot) {
	t.Helper()
	m.Init()
	m.Update(fetchResultMsg{seq: m.seq, snap: snap})
	if m.Phase() != PhaseRunning || m.Snapshot() != snap {
		t.Fatalf("initial fetch not applied: phase %s", m.Phase())
	}
}

// run executes cmd and every command it batches, each in its own goroutine
// like the bubbletea runtime does, and streams their messages.
func run(cmd tea.Cmd) <-chan tea.Msg {
	out := make(chan tea.Msg, 64)
	var exec func(tea.Cmd)
	exec = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					exec(bc)
				}
				return
			}
			out <- msg
		}()
	}
	exec(cmd)
	return out
}

func waitFetch(t *testing.T, msgs <-chan tea.Msg) fetchResultMsg {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-msgs:
			if r, ok := msg.(fetchResultMsg); ok {
				return r
			}
		case <-timeout:
			t.Fatal("timed out waiting for fetch result")
			return fetchResultMsg{}
		}
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_InitialFetch(t *testing.T) {
	snap := testSnapshot(3)
	p := &fakeProvider{snap: snap}
	m := newTestModel(p)

	msgs := run(m.Init())
	if m.Phase() != PhaseRefreshing {
		t.Fatalf("phase after Init = %s, want refreshing", m.Phase())
	}

	m.Update(waitFetch(t, msgs))

	if m.Snapshot() != snap {
		t.Error("snapshot not swapped in")
	}
	if m.Phase() != PhaseRunning {
		t.Errorf("phase = %s, want running", m.Phase())
	}
	if got := m.State().Cursors[PanelCommits].Selected; got != 0 {
		t.Errorf("commit selection = %d, want 0", got)
	}
	if !strings.Contains(m.View(), "commit 0") {
		t.Error("view should list the fetched commits")
	}
}

func TestModel_RefreshCoalesced(t *testing.T) {
	p := &fakeProvider{snap: testSnapshot(1), release: make(chan struct{})}
	m := newTestModel(p)

	msgs := run(m.Init())
	eventually(t, func() bool { calls, _ := p.stats(); return calls == 1 })

	for i := 0; i < 3; i++ {
		_, cmd := m.Update(runes("r"))
		if cmd != nil {
			t.Fatalf("refresh %d during a fetch returned a command", i)
		}
	}
	if m.fetches != 1 || !m.refreshQueued {
		t.Fatalf("fetches = %d queued = %v; want 1 fetch and a queued refresh", m.fetches, m.refreshQueued)
	}

	close(p.release)
	_, cmd := m.Update(waitFetch(t, msgs))
	if cmd == nil || m.fetches != 2 || m.refreshQueued {
		t.Fatalf("queued refresh not started: fetches = %d queued = %v", m.fetches, m.refreshQueued)
	}
	if m.Phase() != PhaseRefreshing {
		t.Errorf("phase = %s, want refreshing", m.Phase())
	}

	m.Update(waitFetch(t, run(cmd)))
	if m.Phase() != PhaseRunning {
		t.Errorf("phase = %s, want running", m.Phase())
	}

	calls, maxInFlight := p.stats()
	if calls != 2 || maxInFlight != 1 {
		t.Errorf("provider saw %d calls with %d in flight, want 2 calls one at a time", calls, maxInFlight)
	}
}

func TestModel_QuitWhileRefreshing(t *testing.T) {
	p := &fakeProvider{snap: testSnapshot(2), release: make(chan struct{}), cancelled: make(chan struct{})}
	m := newTestModel(p)

	msgs := run(m.Init())
	eventually(t, func() bool { calls, _ := p.stats(); return calls == 1 })

	_, cmd := m.Update(runes("q"))
	if !isQuit(cmd) {
		t.Fatal("q should quit immediately while refreshing")
	}
	if m.Phase() != PhaseQuitting {
		t.Errorf("phase = %s, want quitting", m.Phase())
	}

	select {
	case <-p.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("outstanding fetch was not cancelled")
	}

	late := waitFetch(t, msgs)
	if _, cmd := m.Update(late); cmd != nil {
		t.Error("late result should be discarded without a command")
	}
	if m.Snapshot() != nil {
		t.Error("late result must not be swapped in after quit")
	}
	if m.FatalErr() != nil {
		t.Errorf("quitting is not an error, got %v", m.FatalErr())
	}
}

func TestModel_FirstFetchFailureIsFatal(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	m.Init()

	boom := errors.New("not a git repository")
	_, cmd := m.Update(fetchResultMsg{seq: m.seq, err: boom})

	if !isQuit(cmd) {
		t.Error("first fetch failure should quit")
	}
	if !errors.Is(m.FatalErr(), boom) {
		t.Errorf("FatalErr = %v, want %v", m.FatalErr(), boom)
	}
}

type panickingProvider struct{}

func (panickingProvider) Fetch(context.Context, git.Request) (*models.Snapshot, error) {
	panic("nil map in parser")
}

func TestModel_FetchPanicBecomesError(t *testing.T) {
	m := newTestModel(panickingProvider{})

	res := waitFetch(t, run(m.Init()))
	if res.err == nil || !strings.Contains(res.err.Error(), "nil map in parser") {
		t.Fatalf("fetch result err = %v, want the recovered panic", res.err)
	}
	if res.seq != m.seq {
		t.Errorf("seq = %d, want %d", res.seq, m.seq)
	}

	_, cmd := m.Update(res)
	if !isQuit(cmd) || m.FatalErr() == nil {
		t.Error("a panicking first fetch should end the session with an error")
	}
}

func TestModel_LaterFailureIsTransient(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	snap := testSnapshot(2)
	start(t, m, snap)

	m.Update(runes("r"))
	m.Update(fetchResultMsg{seq: m.seq, err: errors.New("index locked")})

	if m.Phase() != PhaseRunning {
		t.Fatalf("phase = %s; a refresh failure with a snapshot must not quit", m.Phase())
	}
	if m.Snapshot() != snap || m.FatalErr() != nil {
		t.Error("previous snapshot should stay displayed")
	}
	if !m.messageErr || !strings.Contains(m.View(), "index locked") {
		t.Error("failure should be shown on the status line")
	}

	m.Update(clearMessageMsg{id: m.messageID})
	if m.message != "" {
		t.Error("message should clear after its timeout")
	}
}

func TestModel_StaleResultDiscarded(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	first := testSnapshot(1)
	start(t, m, first)

	m.Update(runes("r"))
	m.Update(fetchResultMsg{seq: m.seq - 1, snap: testSnapshot(5)})
	if m.Snapshot() != first || m.Phase() != PhaseRefreshing {
		t.Error("result of an older fetch should be ignored")
	}
}

func TestModel_CursorsClampedAfterSwap(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	start(t, m, testSnapshot(50))

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.State().Focused != PanelCommits {
		t.Fatalf("focus = %s, want commits", m.State().Focused)
	}
	m.Update(runes("G"))
	if got := m.State().Cursors[PanelCommits].Selected; got != 49 {
		t.Fatalf("selection after G = %d, want 49", got)
	}

	m.Update(runes("r"))
	m.Update(fetchResultMsg{seq: m.seq, snap: testSnapshot(3)})
	cur := m.State().Cursors[PanelCommits]
	if cur.Selected != 2 || cur.Offset != 0 {
		t.Errorf("cursor after shrink = %+v, want selection 2 offset 0", cur)
	}

	m.Update(runes("r"))
	m.Update(fetchResultMsg{seq: m.seq, snap: testSnapshot(0)})
	if cur := m.State().Cursors[PanelCommits]; !cur.None() {
		t.Errorf("cursor after emptying = %+v, want none", cur)
	}
	if cur := m.State().Cursors[PanelBranches]; cur.Selected != 0 {
		t.Errorf("branch cursor = %+v, want the only branch selected", cur)
	}
}

func TestModel_EmptyCommitLog(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	start(t, m, &models.Snapshot{
		Path:     "/repo",
		Branches: []models.Branch{{Name: "main", IsCurrent: true}},
	})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, msg := range []tea.KeyMsg{runes("j"), {Type: tea.KeyEnter}, runes("y"), runes("G")} {
		if _, cmd := m.Update(msg); cmd != nil {
			t.Errorf("key %q on an empty log returned a command", msg.String())
		}
	}

	view := m.View()
	if !strings.Contains(view, "No commits yet") {
		t.Errorf("view should show the empty-log placeholder:\n%s", view)
	}
	if !m.State().Cursors[PanelCommits].None() {
		t.Error("empty log should have no selection")
	}
}

func TestModel_GlobalKeys(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	start(t, m, testSnapshot(5))

	order := []PanelID{PanelCommits, PanelStatus, PanelBranches}
	for _, want := range order {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.State().Focused != want {
			t.Errorf("focus = %s, want %s", m.State().Focused, want)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State().Focused != PanelStatus {
		t.Errorf("shift+tab focus = %s, want status", m.State().Focused)
	}

	before := m.layout.Commits.Height
	m.Update(runes("D"))
	if !m.State().Debug || m.layout.Debug.Empty() || m.layout.Commits.Height >= before {
		t.Error("D should enable debug and give it rows from the panels")
	}
	if !strings.Contains(m.View(), "phase=running") {
		t.Error("debug panel should be drawn")
	}
	m.Update(runes("D"))
	if m.State().Debug || m.layout.Commits.Height != before {
		t.Error("second D should restore the layout")
	}

	m.Update(runes("?"))
	if !strings.Contains(m.View(), "Help") {
		t.Error("? should show full help")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp || m.Phase() == PhaseQuitting {
		t.Error("esc should close help before quitting")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("esc with nothing open should quit")
	}
}

func TestModel_DebugFrames(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	start(t, m, testSnapshot(1))

	if m.frames.Len() != 0 {
		t.Fatal("frames recorded with debug off")
	}
	m.Update(runes("D"))
	m.Update(runes("j"))
	if m.frames.Len() != 2 {
		t.Errorf("frames = %d, want 2", m.frames.Len())
	}
	if got := m.frames.Recent(1)[0].Event; got != "key j" {
		t.Errorf("last frame = %q", got)
	}
}

func TestModel_CommitDetail(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	snap := testSnapshot(3)
	start(t, m, snap)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.detailHash != snap.Commits[1].Hash {
		t.Fatalf("detail = %q, want second commit", m.detailHash)
	}
	if !strings.Contains(m.View(), "commit "+snap.Commits[1].Hash) {
		t.Error("detail pane should show the full hash")
	}

	m.Update(runes("j"))
	if m.detailHash != snap.Commits[2].Hash {
		t.Error("detail should follow the selection")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.detailHash != "" || m.Phase() == PhaseQuitting {
		t.Error("esc should close the detail pane")
	}
}

func TestModel_CopyHash(t *testing.T) {
	var copied string
	m := New(Options{
		Provider:  &fakeProvider{},
		Request:   git.Request{Path: "/repo", SummaryLength: 72},
		Theme:     config.ThemeFor(config.ThemeDefault),
		Clipboard: func(s string) error { copied = s; return nil },
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	snap := testSnapshot(2)
	start(t, m, snap)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(runes("y"))
	if cmd == nil {
		t.Fatal("y should return a copy command")
	}
	m.Update(cmd())

	if copied != snap.Commits[0].Hash {
		t.Errorf("copied %q, want %q", copied, snap.Commits[0].Hash)
	}
	if !strings.Contains(m.message, "Copied") {
		t.Errorf("message = %q", m.message)
	}
}

func TestModel_FilterCapturesGlobalKeys(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	start(t, m, branchSnapshot())

	m.Update(runes("/"))
	if !m.capture {
		t.Fatal("/ should capture input")
	}
	for _, k := range []string{"q", "r", "D"} {
		if _, cmd := m.Update(runes(k)); isQuit(cmd) {
			t.Fatalf("%q quit while typing a filter", k)
		}
	}
	if m.branches.Filter() != "qrD" || m.State().Debug || m.fetches != 1 {
		t.Errorf("filter = %q debug = %v fetches = %d; keys should go to the filter", m.branches.Filter(), m.State().Debug, m.fetches)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.capture || m.branches.Filter() != "" || m.Phase() == PhaseQuitting {
		t.Error("esc should cancel the filter and release input")
	}
}

func TestModel_SlowFetchHint(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	m.Init()

	m.Update(slowFetchMsg{seq: m.seq})
	if !strings.Contains(m.View(), "still refreshing") {
		t.Error("slow fetch should switch the status line to the still-refreshing hint")
	}

	m.Update(fetchResultMsg{seq: m.seq, snap: testSnapshot(1)})
	m.Update(slowFetchMsg{seq: m.seq})
	if m.slow {
		t.Error("slow hint for a finished fetch should be ignored")
	}
}

func TestModel_Resize(t *testing.T) {
	m := newTestModel(&fakeProvider{})
	start(t, m, testSnapshot(1))

	m.Update(sizePolledMsg{size: m.State().Size})
	m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})

	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 20 {
		t.Errorf("view has %d lines, want 20", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 50 {
			t.Errorf("line %d is %d cells wide, want 50", i, w)
		}
	}
}
