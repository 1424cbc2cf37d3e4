package cmd

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/Johannes-Berggren/gitpeek/internal/errors"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("gitpeek", pflag.ContinueOnError)
	addFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return f
}

func TestFlagShorthands(t *testing.T) {
	want := map[string]string{
		"directory":      "d",
		"summary-length": "s",
		"debug":          "D",
		"commit-limit":   "n",
	}
	for name, short := range want {
		flag := rootCmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("--%s flag not found", name)
		}
		if flag.Shorthand != short {
			t.Errorf("--%s shorthand = %q, want %q", name, flag.Shorthand, short)
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig(newFlags(t))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Directory != "." || cfg.SummaryLength != 72 || cfg.CommitLimit != 500 || cfg.Debug {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "directory: /from/file\nsummary_length: 40\ncommit_limit: 100\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(newFlags(t, "--config", path, "-s", "20", "-D", "--refresh-interval", "5s"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Directory != "/from/file" || cfg.CommitLimit != 100 {
		t.Errorf("unset flags should keep file values: %+v", cfg)
	}
	if cfg.SummaryLength != 20 || !cfg.Debug || cfg.RefreshInterval != 5*time.Second {
		t.Errorf("set flags should win over the file: %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name string
		args []string
	}{
		{"explicit config missing", []string{"--config", missing}},
		{"negative summary length", []string{"--config", "", "-s", "-1"}},
		{"negative commit limit", []string{"--config", "", "-n", "-5"}},
		{"empty directory", []string{"--config", "", "-d", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(newFlags(t, tt.args...))
			if !errors.Is(err, errors.KindConfig) {
				t.Errorf("loadConfig(%v) = %v, want a config error", tt.args, err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	err := describe(errors.NotARepository("/tmp/x", nil))
	if !errors.IsRepository(err) {
		t.Errorf("describe should keep the error kind: %v", err)
	}
	if got := err.Error(); !strings.HasPrefix(got, "not a git repository") {
		t.Errorf("describe = %q", got)
	}
}

// idleModel never quits on its own.
type idleModel struct{}

func (idleModel) Init() tea.Cmd                         { return nil }
func (m idleModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }
func (idleModel) View() string                          { return "" }

// brokenView panics on the first render.
type brokenView struct{ idleModel }

func (brokenView) View() string { panic("view bug") }

func TestRunProgram_PanicReachesCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		if r := recover(); r != "view bug" {
			t.Errorf("recovered %v, want the render panic to unwind to the caller", r)
		}
	}()

	err := runProgram(ctx, newProgram(ctx, brokenView{}, strings.NewReader(""), io.Discard))
	t.Fatalf("runProgram returned %v instead of panicking", err)
}

func TestRunProgram_InterruptIsAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runProgram(ctx, newProgram(ctx, idleModel{}, strings.NewReader(""), io.Discard))
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("runProgram = %v, want an error wrapping context.Canceled", err)
	}
}
