package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthShort = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "baru saja", DivBy: time.Second},
	{D: time.Hour, Format: "%d menit %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%d jam %s", DivBy: time.Hour},
	{D: math.MaxInt64, Format: "%d hari %s", DivBy: humanize.Day},
}

// FormatDate renders a date like "20 Maret 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatDateTime renders a timestamp like "19 Feb 2026 12.00".
func FormatDateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d.%02d", t.Day(), monthShort[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatShortDateTime renders a timestamp like "19 Feb 12.00".
func FormatShortDateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %02d.%02d", t.Day(), monthShort[t.Month()-1], t.Hour(), t.Minute())
}

// FormatRelative renders how long before now t happened.
func FormatRelative(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "yang lalu", "lagi", relMagnitudes)
}

// FormatHours renders a number of hours with one decimal.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1f jam", hours)
}
