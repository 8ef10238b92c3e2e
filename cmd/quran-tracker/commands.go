package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/clock"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/pace"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/stats"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/store"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set the start date and hatam target",
		Args:  cobra.NoArgs,
		RunE:  runSetupCmd,
	}
	cmd.Flags().StringVar(&setupStart, "start", "", "first day of Ramadhan (YYYY-MM-DD, default: today)")
	cmd.Flags().IntVar(&setupTarget, "target", defaultTarget, fmt.Sprintf("number of hatam (1-%d)", maxTarget))
	return cmd
}

func runSetupCmd(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "start", &setupStart, rt.prefs.StartDate)
	applyIntConfig(cmd, "target", &setupTarget, rt.prefs.TargetCount)
	if err := validateTarget(setupTarget); err != nil {
		return err
	}
	start := today(rt.prefs.Location)
	if setupStart != "" {
		start, err = parseStartDate(setupStart, rt.prefs.Location)
		if err != nil {
			return err
		}
	}

	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	cfg := model.TrackerConfig{StartDate: start, TargetCount: setupTarget}
	if err := st.Config().Save(context.Background(), cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	rt.log.Info().Time("start", start).Int("target", setupTarget).Msg("tracker configured")
	return printSetup(cmd.OutOrStdout(), cfg)
}

func printSetup(w io.Writer, cfg model.TrackerConfig) error {
	total := pace.TotalTargetPages(cfg.TargetCount)
	perDay := float64(total) / pace.RamadhanDays
	lines := []string{
		"Target disimpan.",
		fmt.Sprintf("  Target   %d kali hatam (%d halaman)", cfg.TargetCount, total),
		fmt.Sprintf("  Mulai    %s", stats.FormatDate(cfg.StartDate)),
		fmt.Sprintf("  Selesai  %s (%d hari)", stats.FormatDate(pace.EndDate(cfg.StartDate)), pace.RamadhanDays),
		fmt.Sprintf("  Pace     %.1f halaman/hari", perDay),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newPositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Manage the actual reading position",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set PAGE LINE",
		Short: "Save the actual reading position",
		Args:  cobra.ExactArgs(2),
		RunE:  runPositionSetCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the actual reading position",
		Args:  cobra.NoArgs,
		RunE:  runPositionClearCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the actual reading position",
		Args:  cobra.NoArgs,
		RunE:  runPositionShowCmd,
	})
	return cmd
}

func runPositionSetCmd(cmd *cobra.Command, args []string) error {
	pos, err := parsePositionArgs(args)
	if err != nil {
		return err
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	now := time.Now().In(rt.prefs.Location)
	actual := model.ActualPosition{Page: pos.Page, Line: pos.Line, UpdatedAt: now}
	if err := st.SaveActualPosition(context.Background(), actual); err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	rt.log.Info().Int("page", pos.Page).Int("line", pos.Line).Msg("position saved")

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Posisi disimpan: %s\n", pace.FormatPageLine(pos)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	state, err := stats.LoadState(context.Background(), st, rt.prefs.Location)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if !state.HasConfig {
		return nil
	}
	snap := stats.BuildSnapshot(state.Config, &actual, now)
	if _, err := fmt.Fprintf(out, "Target saat ini: %s (%s)\n", pace.FormatPageLine(snap.Stats.TargetPosition), snap.Comparison.Message); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runPositionClearCmd(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Position().Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear position: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Posisi aktual dihapus."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runPositionShowCmd(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	actual, ok, err := st.Position().Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load position: %w", err)
	}
	msg := "Posisi aktual belum diisi."
	if ok {
		updated := actual.UpdatedAt.In(rt.prefs.Location)
		msg = fmt.Sprintf("%s (diperbarui %s, %s)",
			pace.FormatPageLine(actual.Position()),
			stats.FormatDateTime(updated),
			stats.FormatRelative(updated, time.Now()),
		)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the target and comparison for now",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
	cmd.Flags().BoolVar(&statusJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&statusAt, "at", "", "evaluate at this time (RFC3339) instead of now")
	return cmd
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	if statusAt != "" {
		parsed, err := time.Parse(time.RFC3339, statusAt)
		if err != nil {
			return fmt.Errorf("invalid --at value: %w", err)
		}
		now = parsed
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	state, err := stats.LoadState(context.Background(), st, rt.prefs.Location)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if !state.HasConfig {
		return errNoConfig
	}
	snap := stats.BuildSnapshot(state.Config, state.Actual, now.In(rt.prefs.Location))
	if statusJSON {
		return stats.RenderStatusJSON(cmd.OutOrStdout(), snap)
	}
	return stats.RenderStatus(cmd.OutOrStdout(), snap)
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a status line on every tick until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runWatchCmd,
	}
	cmd.Flags().DurationVar(&watchEvery, "every", defaultRefresh, "tick interval (min 1s)")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	applyDurationConfig(cmd, "every", &watchEvery, rt.prefs.Refresh)
	if watchEvery < time.Second {
		return fmt.Errorf("--every must be at least 1s")
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cell := clock.NewCell(time.Now())
	sched, err := clock.NewScheduler(cell, watchEvery, rt.log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	sched.OnTick(func(now time.Time) {
		line, err := watchLine(ctx, st, rt.prefs.Location, now)
		if err != nil {
			rt.log.Error().Err(err).Msg("failed to compute status")
			return
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			rt.log.Warn().Err(err).Msg("failed to write status line")
		}
	})
	sched.Tick()
	if err := sched.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	sched.Stop()
	return nil
}

// watchLine reloads persisted state so that positions saved elsewhere show up.
func watchLine(ctx context.Context, st *store.Store, loc *time.Location, now time.Time) (string, error) {
	state, err := stats.LoadState(ctx, st, loc)
	if err != nil {
		return "", err
	}
	if !state.HasConfig {
		return stats.FormatDateTime(now.In(loc)) + "  belum ada target", nil
	}
	return stats.StatusLine(stats.BuildSnapshot(state.Config, state.Actual, now.In(loc))), nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved positions against the target at each time",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultLast, "limit to last N entries (0 = all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	state, err := stats.LoadState(ctx, st, rt.prefs.Location)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if !state.HasConfig {
		return errNoConfig
	}
	rows, err := stats.BuildHistory(ctx, st, state.Config, historyLast)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return stats.RenderHistory(cmd.OutOrStdout(), rows)
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all tracker data",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Hapus semua data tracker? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Dibatalkan.")
			return err
		}
	}
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	st, closeStore, err := rt.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.ClearAll(context.Background()); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	rt.log.Info().Msg("tracker data reset")
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Semua data dihapus."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write output: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "ya":
		return true, nil
	default:
		return false, nil
	}
}
