package pace

import (
	"math"
	"time"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
)

// RamadhanDays is the length of the reading period.
const RamadhanDays = 29

// EndDate returns the start date plus RamadhanDays calendar days in the
// start date's location.
func EndDate(start time.Time) time.Time {
	return start.AddDate(0, 0, RamadhanDays)
}

// HoursElapsed returns hours between start and now, never negative.
func HoursElapsed(start, now time.Time) float64 {
	if now.Before(start) {
		return 0
	}
	return now.Sub(start).Hours()
}

// TotalTargetPages returns the number of pages to read across all hatam.
func TotalTargetPages(targetCount int) int {
	return TotalPages * targetCount
}

// TargetDecimalPage returns where the reader should be at now, clamped to
// [1, TotalTargetPages].
func TargetDecimalPage(start time.Time, targetCount int, now time.Time) float64 {
	total := float64(TotalTargetPages(targetCount))
	return clampTarget(HoursElapsed(start, now)*pacePerHour(start, targetCount), total)
}

// CalculateTargetStats derives the full stats bundle for a config at now.
func CalculateTargetStats(start time.Time, targetCount int, now time.Time) model.TargetStats {
	totalHours := EndDate(start).Sub(start).Hours()
	totalTarget := TotalTargetPages(targetCount)
	pace := float64(totalTarget) / totalHours
	elapsed := HoursElapsed(start, now)

	target := clampTarget(elapsed*pace, float64(totalTarget))
	inHatam := wrapHatam(target)
	remaining := math.Max(0, totalHours-elapsed)

	return model.TargetStats{
		TargetDecimalPage:      target,
		TargetPosition:         DecimalToPageLine(inHatam),
		CurrentHatam:           int(math.Ceil(target / TotalPages)),
		ProgressInCurrentHatam: inHatam,
		TotalProgressPercent:   target / float64(totalTarget) * 100,
		CurrentHatamPercent:    inHatam / TotalPages * 100,
		PacePerHour:            pace,
		HoursElapsed:           elapsed,
		TotalHours:             totalHours,
		HoursRemaining:         remaining,
		DaysRemaining:          int(math.Ceil(remaining / 24)),
		TotalTargetPages:       totalTarget,
	}
}

func pacePerHour(start time.Time, targetCount int) float64 {
	return float64(TotalTargetPages(targetCount)) / EndDate(start).Sub(start).Hours()
}

func clampTarget(target, total float64) float64 {
	if target > total {
		target = total
	}
	if target < 1 {
		target = 1
	}
	return target
}

// wrapHatam maps a decimal page to its offset inside the current hatam.
// An exact multiple of TotalPages is the end of a hatam, not the start of
// the next one.
func wrapHatam(decimal float64) float64 {
	r := math.Mod(decimal, TotalPages)
	if r == 0 {
		return TotalPages
	}
	return r
}
