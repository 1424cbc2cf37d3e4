package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Johannes-Berggren/gitpeek/internal/config"
	"github.com/Johannes-Berggren/gitpeek/internal/errors"
	"github.com/Johannes-Berggren/gitpeek/internal/git"
	"github.com/Johannes-Berggren/gitpeek/internal/logger"
	"github.com/Johannes-Berggren/gitpeek/internal/terminal"
	"github.com/Johannes-Berggren/gitpeek/internal/ui"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gitpeek",
	Short: "A read-only terminal dashboard for a git repository",
	Long: `gitpeek shows the branches, recent commits and working tree status of a
git repository in a single full-screen view and keeps it up to date.
It never modifies the repository.`,
	Args:          cobra.NoArgs,
	RunE:          runDashboard,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addFlags(rootCmd.Flags())
}

func addFlags(f *pflag.FlagSet) {
	f.StringP("directory", "d", ".", "Repository to show (any path inside the work tree)")
	f.IntP("summary-length", "s", 72, "Maximum display width of commit summaries (0 hides them)")
	f.BoolP("debug", "D", false, "Start with the debug overlay and debug logging enabled")
	f.IntP("commit-limit", "n", 500, "Maximum number of commits to load")
	f.Duration("refresh-interval", 0, "Refresh periodically (e.g. 5s); 0 refreshes only on demand")
	f.String("config", "", "Config file (default is the user config directory)")
	f.String("log-file", "", "Log file (default is in the temp directory)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	logger.SetDebug(cfg.Debug)
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = logger.DefaultLogPath()
	}
	if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	logger.Info("starting gitpeek %s in %s", version, cfg.Directory)

	var fatal error
	err = terminal.Run(cmd.Context(), terminal.Stdio(), func(ctx context.Context, s *terminal.Session) error {
		m := ui.New(ui.Options{
			Context:  ctx,
			Provider: git.NewCLIProvider(),
			Request: git.Request{
				Path:          cfg.Directory,
				SummaryLength: cfg.SummaryLength,
				CommitLimit:   cfg.CommitLimit,
			},
			Debug:              cfg.Debug,
			RefreshInterval:    cfg.RefreshInterval,
			SlowFetchThreshold: cfg.SlowFetchThreshold,
			Theme:              cfg.ResolvedTheme(),
			Size:               s.Size,
		})

		if err := runProgram(ctx, newProgram(ctx, m, s.Input(), s.Output())); err != nil {
			return err
		}
		fatal = m.FatalErr()
		return nil
	})
	if err != nil {
		logger.Error("session ended with error: %v", err)
		return err
	}
	if fatal != nil {
		logger.Error("dashboard stopped: %v", fatal)
		return describe(fatal)
	}
	return nil
}

// newProgram runs m on the session's streams. Signals and panics are left
// to the session guard, which restores the terminal before anything is
// printed.
func newProgram(ctx context.Context, m tea.Model, in io.Reader, out io.Writer) *tea.Program {
	return tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
		tea.WithoutCatchPanics(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
}

// runProgram runs p until it quits. A session cancelled by a signal is an
// error so the process exits non-zero.
func runProgram(ctx context.Context, p *tea.Program) error {
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil && stderrors.Is(err, tea.ErrProgramKilled) {
			logger.Info("interrupted, shutting down")
			return fmt.Errorf("interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

// loadConfig reads the config file and lays explicitly set flags over it.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path, _ := flags.GetString("config")
	required := flags.Changed("config")
	if !required {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "directory":
			cfg.Directory, err = flags.GetString(f.Name)
		case "summary-length":
			cfg.SummaryLength, err = flags.GetInt(f.Name)
		case "debug":
			cfg.Debug, err = flags.GetBool(f.Name)
		case "commit-limit":
			cfg.CommitLimit, err = flags.GetInt(f.Name)
		case "refresh-interval":
			var d time.Duration
			d, err = flags.GetDuration(f.Name)
			cfg.RefreshInterval = d
		case "log-file":
			cfg.LogFile, err = flags.GetString(f.Name)
		}
	})
	return err
}

// describe turns a fatal dashboard error into the one-line message shown
// after the terminal is restored.
func describe(err error) error {
	switch errors.GetKind(err) {
	case errors.KindNotARepository:
		return fmt.Errorf("not a git repository: %w", err)
	case errors.KindInaccessible:
		return fmt.Errorf("cannot read repository: %w", err)
	case errors.KindCorrupt:
		return fmt.Errorf("repository could not be parsed: %w", err)
	}
	return err
}
