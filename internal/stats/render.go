package stats

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/pace"
)

const (
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

// StatusColor returns the ANSI color for a comparison status.
func StatusColor(status model.Status) string {
	switch status {
	case model.StatusAhead:
		return colorGreen
	case model.StatusBehind:
		return colorRed
	default:
		return colorYellow
	}
}

// RenderStatus prints a snapshot as aligned label/value lines.
func RenderStatus(w io.Writer, snap Snapshot) error {
	s := snap.Stats
	barWidth := BarWidthFor(TerminalWidth(w))
	rows := [][]string{
		{"Target", fmt.Sprintf("%d kali hatam (%d halaman)", snap.TargetCount, s.TotalTargetPages)},
		{"Periode", fmt.Sprintf("%s - %s (%d hari)", FormatDate(snap.StartDate), FormatDate(snap.EndDate), pace.RamadhanDays)},
		{"Posisi target", fmt.Sprintf("%s (hatam ke-%d)", pace.FormatPageLine(s.TargetPosition), s.CurrentHatam)},
		{"Progres total", fmt.Sprintf("%s %.1f%%", ProgressBar(s.TotalProgressPercent, barWidth), s.TotalProgressPercent)},
		{"Hatam ini", fmt.Sprintf("%s %.1f%%", ProgressBar(s.CurrentHatamPercent, barWidth), s.CurrentHatamPercent)},
		{"Pace", fmt.Sprintf("%.2f halaman/jam (%.1f halaman/hari)", s.PacePerHour, s.PacePerHour*24)},
		{"Waktu berjalan", FormatHours(s.HoursElapsed)},
		{"Sisa waktu", fmt.Sprintf("%s (%d hari)", FormatHours(s.HoursRemaining), s.DaysRemaining)},
	}
	if snap.Actual != nil && snap.Comparison != nil {
		message := snap.Comparison.Message
		if shouldUseColor(w, false) {
			message = StatusColor(snap.Comparison.Status) + message + colorReset
		}
		rows = append(rows,
			[]string{"Posisi aktual", fmt.Sprintf("%s (diperbarui %s)", pace.FormatPageLine(snap.Actual.Position()), FormatRelative(snap.Actual.UpdatedAt, snap.Now))},
			[]string{"Status", message},
		)
	} else {
		rows = append(rows, []string{"Posisi aktual", "belum diisi"})
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderStatusJSON prints a snapshot as indented JSON.
func RenderStatusJSON(w io.Writer, snap Snapshot) error {
	data, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// StatusLine renders a one-line summary of a snapshot.
func StatusLine(snap Snapshot) string {
	s := snap.Stats
	line := fmt.Sprintf("%s  target %s  %.2f%%  hatam %d/%d  sisa %d hari",
		FormatDateTime(snap.Now),
		pace.FormatPageLine(s.TargetPosition),
		s.TotalProgressPercent,
		s.CurrentHatam,
		snap.TargetCount,
		s.DaysRemaining,
	)
	if snap.Comparison != nil {
		line += "  " + snap.Comparison.Message
	}
	return line
}

// RenderHistory prints the position log with the target at each entry.
func RenderHistory(w io.Writer, rows []HistoryRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "Belum ada riwayat posisi.")
		return err
	}
	headers := []string{"Waktu", "Posisi", "Target", "Selisih", "Status"}
	tableRows := make([][]string, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			FormatShortDateTime(r.Entry.RecordedAt),
			fmt.Sprintf("Hal. %d Baris %d", r.Entry.Page, r.Entry.Line),
			fmt.Sprintf("Hal. %d Baris %d", r.Target.Page, r.Target.Line),
			fmt.Sprintf("%+.1f", r.Comparison.TotalDifferenceDecimal),
			string(r.Comparison.Status),
		})
		values = append(values, r.Decimal)
	}
	for _, line := range formatTable(headers, tableRows, map[int]bool{3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nPosisi: %s\n", Sparkline(values)); err != nil {
		return err
	}
	return nil
}
