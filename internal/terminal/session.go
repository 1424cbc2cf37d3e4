// Package terminal owns the full-screen terminal session: raw input mode,
// the alternate screen and cursor visibility. Whatever happens while the
// session is active, the terminal is handed back in the state it was found.
package terminal

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/Johannes-Berggren/gitpeek/internal/errors"
	"github.com/Johannes-Berggren/gitpeek/internal/logger"
)

// Console is the terminal the session runs on. Fd must refer to the input
// side, which is the one switched into raw mode.
type Console interface {
	io.Reader
	io.Writer
	Fd() uintptr
}

// Size is the drawable area of the terminal.
type Size struct {
	Rows    int
	Columns int
}

// modeSwitcher is the low-level terminal mode control, separated so tests
// can observe every restoration step.
type modeSwitcher interface {
	isTerminal() bool
	makeRaw() (restore func() error, err error)
	size() (columns, rows int, err error)
}

type ttyModes struct {
	fd uintptr
}

func (m ttyModes) isTerminal() bool {
	return term.IsTerminal(m.fd)
}

func (m ttyModes) makeRaw() (func() error, error) {
	state, err := term.MakeRaw(m.fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(m.fd, state) }, nil
}

func (m ttyModes) size() (int, int, error) {
	return term.GetSize(m.fd)
}

// Session is an active full-screen terminal session.
type Session struct {
	in    io.Reader
	out   io.Writer
	modes modeSwitcher

	restoreMode  func() error
	raw          bool
	altScreen    bool
	cursorHidden bool

	leaveOnce sync.Once
	leaveErr  error
}

// Enter switches c to the alternate screen, raw input mode and a hidden
// cursor. The pre-session mode is recorded for Leave. On failure every step
// already taken is undone before the KindTerminalInit error is returned.
func Enter(c Console) (*Session, error) {
	var in io.Reader = c
	var out io.Writer = c
	if std, ok := c.(stdio); ok {
		in, out = std.in, std.out
	}
	return enter(in, out, ttyModes{fd: c.Fd()})
}

func enter(in io.Reader, out io.Writer, modes modeSwitcher) (*Session, error) {
	op := errors.Op("terminal.Enter")
	s := &Session{in: in, out: out, modes: modes}

	if !modes.isTerminal() {
		return nil, errors.E(op, errors.KindTerminalInit, "input is not a terminal")
	}

	restore, err := modes.makeRaw()
	if err != nil {
		return nil, errors.E(op, errors.KindTerminalInit, "enabling raw mode", err)
	}
	s.restoreMode = restore
	s.raw = true

	if _, err := io.WriteString(out, ansi.SetAltScreenSaveCursorMode); err != nil {
		return nil, s.abort(op, "entering alternate screen", err)
	}
	s.altScreen = true

	if _, err := io.WriteString(out, ansi.HideCursor); err != nil {
		return nil, s.abort(op, "hiding cursor", err)
	}
	s.cursorHidden = true

	logger.Debug("terminal session entered")
	return s, nil
}

func (s *Session) abort(op errors.Op, step string, cause error) error {
	err := errors.E(op, errors.KindTerminalInit, step, cause)
	if lerr := s.Leave(); lerr != nil {
		return stderrors.Join(err, lerr)
	}
	return err
}

// Leave shows the cursor, leaves the alternate screen and restores the
// recorded input mode. Every step is attempted even when an earlier one
// fails. Only the first call does anything; later calls return its result.
func (s *Session) Leave() error {
	s.leaveOnce.Do(func() {
		var errs []error

		if s.cursorHidden {
			if _, err := io.WriteString(s.out, ansi.ShowCursor); err != nil {
				errs = append(errs, fmt.Errorf("showing cursor: %w", err))
			} else {
				s.cursorHidden = false
			}
		}
		if s.altScreen {
			if _, err := io.WriteString(s.out, ansi.ResetAltScreenSaveCursorMode); err != nil {
				errs = append(errs, fmt.Errorf("leaving alternate screen: %w", err))
			} else {
				s.altScreen = false
			}
		}
		if s.raw {
			if err := s.restoreMode(); err != nil {
				errs = append(errs, fmt.Errorf("restoring input mode: %w", err))
			} else {
				s.raw = false
			}
		}

		if len(errs) > 0 {
			s.leaveErr = errors.E(errors.Op("terminal.Leave"), errors.KindTerminalRestore, stderrors.Join(errs...))
			logger.Error("terminal restore failed: %v", s.leaveErr)
			return
		}
		logger.Debug("terminal session restored")
	})
	return s.leaveErr
}

// Size polls the current terminal dimensions.
func (s *Session) Size() (Size, error) {
	cols, rows, err := s.modes.size()
	if err != nil {
		return Size{}, fmt.Errorf("querying terminal size: %w", err)
	}
	return Size{Rows: rows, Columns: cols}, nil
}

// Input returns the reader key events arrive on. For Stdio this is os.Stdin
// itself so blocking reads can be cancelled on shutdown.
func (s *Session) Input() io.Reader { return s.in }

// Output returns the writer frames are drawn to.
func (s *Session) Output() io.Writer { return s.out }

// Run enters a session on c, calls fn and leaves the session however fn
// ends: by returning, by panicking, or because SIGINT, SIGTERM or SIGHUP
// cancelled the context handed to fn. A panic is re-raised only after the
// terminal has been restored.
func Run(ctx context.Context, c Console, fn func(ctx context.Context, s *Session) error) error {
	s, err := Enter(c)
	if err != nil {
		return err
	}
	return s.guard(ctx, fn)
}

func (s *Session) guard(parent context.Context, fn func(context.Context, *Session) error) (err error) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	defer func() {
		r := recover()
		if lerr := s.Leave(); lerr != nil {
			err = stderrors.Join(err, lerr)
		}
		if r != nil {
			panic(r)
		}
	}()

	return fn(ctx, s)
}

// Stdio returns a Console reading from stdin and drawing to stdout.
func Stdio() Console {
	return stdio{in: os.Stdin, out: os.Stdout}
}

type stdio struct {
	in  *os.File
	out *os.File
}

func (c stdio) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c stdio) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c stdio) Fd() uintptr                 { return c.in.Fd() }
