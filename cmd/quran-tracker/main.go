// Package main provides the CLI entrypoint for quran-tracker.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/clock"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/config"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/logger"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/pace"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/store"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/tui"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/watch"
)

const (
	defaultRefresh  = time.Second
	defaultTarget   = 1
	maxTarget       = 5
	defaultLast     = 10
	defaultLogLevel = "warn"
	dateLayout      = "2006-01-02"
)

var (
	dashboardRefresh time.Duration

	setupStart  string
	setupTarget int

	statusJSON bool
	statusAt   string

	watchEvery time.Duration

	historyLast int

	resetYes bool
)

// runtimeEnv is the state shared by every command after startup.
type runtimeEnv struct {
	file   config.FileConfig
	prefs  model.Preferences
	log    zerolog.Logger
	dbPath string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quran-tracker",
		Short:         "Ramadhan Quran reading tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.Flags().DurationVar(&dashboardRefresh, "refresh", defaultRefresh, "dashboard refresh interval (min 1s)")

	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newPositionCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadRuntime loads .env files, the TOML config, the logger, and the
// location used for calendar math.
func loadRuntime() (runtimeEnv, error) {
	config.LoadEnv(config.DefaultEnvPath(), ".env")
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("failed to load config: %w", err)
	}
	pretty := false
	if fileCfg.Log.Pretty != nil {
		pretty = *fileCfg.Log.Pretty
	}
	log := logger.New(logger.Config{
		Level:  config.ResolveLogLevel(fileCfg, defaultLogLevel),
		Pretty: pretty,
	})
	logger.SetGlobalLogger(log)

	loc, err := config.ResolveLocation(fileCfg)
	if err != nil {
		return runtimeEnv{}, err
	}
	prefs := model.Preferences{
		Location:    loc,
		Refresh:     defaultRefresh,
		TargetCount: defaultTarget,
	}
	if fileCfg.Tracker.StartDate != nil {
		prefs.StartDate = strings.TrimSpace(*fileCfg.Tracker.StartDate)
	}
	if fileCfg.Tracker.Target != nil {
		prefs.TargetCount = *fileCfg.Tracker.Target
	}
	if fileCfg.Display.Refresh != nil {
		refresh, err := parseRefresh(*fileCfg.Display.Refresh)
		if err != nil {
			return runtimeEnv{}, fmt.Errorf("invalid display.refresh: %w", err)
		}
		prefs.Refresh = refresh
	}
	return runtimeEnv{
		file:   fileCfg,
		prefs:  prefs,
		log:    log,
		dbPath: config.DefaultDBPath(),
	}, nil
}

func (rt runtimeEnv) openStore() (*store.Store, func(), error) {
	st, err := store.Open(rt.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			rt.log.Warn().Err(cerr).Msg("failed to close db")
		}
	}
	return st, closeFn, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	applyDurationConfig(cmd, "refresh", &dashboardRefresh, rt.prefs.Refresh)
	if dashboardRefresh < time.Second {
		return fmt.Errorf("--refresh must be at least 1s")
	}
	rt.prefs.Refresh = dashboardRefresh

	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if _, ok, err := st.Config().Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load tracker config: %w", err)
	} else if !ok {
		return errNoConfig
	}

	var events <-chan watch.Event
	watcher, err := watch.New(rt.dbPath, rt.log)
	if err != nil {
		rt.log.Warn().Err(err).Msg("file watching unavailable; live reload disabled")
	} else {
		defer func() {
			if cerr := watcher.Close(); cerr != nil {
				rt.log.Warn().Err(cerr).Msg("failed to close watcher")
			}
		}()
		events = watcher.Events()
	}

	cell := clock.NewCell(time.Now())
	sched, err := clock.NewScheduler(cell, rt.prefs.Refresh, rt.log)
	if err != nil {
		return err
	}

	m := tui.NewModel(st, rt.prefs, cell, events, rt.log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	sched.OnTick(func(now time.Time) {
		program.Send(tui.TickMsg(now))
	})
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config file from the template unless it exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntConfig(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value time.Duration) {
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func parseRefresh(value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if d < time.Second {
		return 0, fmt.Errorf("must be at least 1s, got %s", d)
	}
	return d, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quran-tracker configuration
# Uncomment a value to enable it. CLI flags override config values.

[tracker]
# start-date = "2026-02-19"   # Default for setup --start (YYYY-MM-DD)
# target = %d                  # Default for setup --target (1-%d)
# timezone = "Asia/Jakarta"    # Zone for calendar math (default: system)

[display]
# refresh = %q                # Dashboard and watch refresh interval

[log]
# level = %q                 # debug, info, warn, error
# pretty = false               # Human-readable log output
`,
		defaultTarget,
		maxTarget,
		defaultRefresh.String(),
		defaultLogLevel,
	)
}

var errNoConfig = errors.New("no target configured yet; run: quran-tracker setup --start YYYY-MM-DD --target N")

func validateTarget(target int) error {
	if target < 1 || target > maxTarget {
		return fmt.Errorf("--target must be between 1 and %d", maxTarget)
	}
	return nil
}

func parseStartDate(value string, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start value %q (want YYYY-MM-DD): %w", value, err)
	}
	return start, nil
}

func parsePositionArgs(args []string) (model.Position, error) {
	page, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return model.Position{}, fmt.Errorf("invalid page %q", args[0])
	}
	line, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return model.Position{}, fmt.Errorf("invalid line %q", args[1])
	}
	if !pace.ValidPosition(page, line) {
		return model.Position{}, fmt.Errorf("position out of range: page must be 1-%d, line must be 1-%d", pace.TotalPages, pace.LinesPerPage)
	}
	return model.Position{Page: page, Line: line}, nil
}

func today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}
