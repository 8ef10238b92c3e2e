package pace

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
)

var ramadhanStart = time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)

func TestEndDate(t *testing.T) {
	end := EndDate(ramadhanStart)
	assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), end)
}

func TestEndDateKeepsLocalCalendarAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	end := EndDate(start)
	assert.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, loc), end)
	assert.Equal(t, 0, end.Hour())
	assert.InDelta(t, 695.0, end.Sub(start).Hours(), 1e-9)
}

func TestHoursElapsed(t *testing.T) {
	assert.InDelta(t, 12.0, HoursElapsed(ramadhanStart, ramadhanStart.Add(12*time.Hour)), 1e-9)
	assert.Equal(t, 0.0, HoursElapsed(ramadhanStart, ramadhanStart.Add(-time.Hour)))
	assert.Equal(t, 0.0, HoursElapsed(ramadhanStart, ramadhanStart))
}

func TestTotalTargetPages(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		assert.Equal(t, 604*n, TotalTargetPages(n))
	}
}

func TestTargetDecimalPage(t *testing.T) {
	before := ramadhanStart.Add(-24 * time.Hour)
	assert.Equal(t, 1.0, TargetDecimalPage(ramadhanStart, 1, before))

	after := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 604.0, TargetDecimalPage(ramadhanStart, 1, after))

	halfway := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	target := TargetDecimalPage(ramadhanStart, 1, halfway)
	assert.GreaterOrEqual(t, target, 280.0)
	assert.LessOrEqual(t, target, 310.0)
}

func TestCalculateTargetStatsTwelveHoursIn(t *testing.T) {
	stats := CalculateTargetStats(ramadhanStart, 1, ramadhanStart.Add(12*time.Hour))

	assert.InDelta(t, 604.0/(29*24), stats.PacePerHour, 1e-12)
	assert.InDelta(t, 12.0, stats.HoursElapsed, 1e-9)
	assert.InDelta(t, 696.0, stats.TotalHours, 1e-9)
	assert.InDelta(t, 684.0, stats.HoursRemaining, 1e-9)
	assert.Equal(t, 29, stats.DaysRemaining)
	assert.Equal(t, 604, stats.TotalTargetPages)
	assert.Equal(t, 1, stats.CurrentHatam)
	assert.InDelta(t, 10.4138, stats.TargetDecimalPage, 1e-4)
	assert.Equal(t, model.Position{Page: 10, Line: 7}, stats.TargetPosition)
	assert.InDelta(t, stats.TargetDecimalPage, stats.ProgressInCurrentHatam, 1e-12)
	assert.InDelta(t, 1.7241, stats.TotalProgressPercent, 1e-4)
	assert.InDelta(t, stats.TotalProgressPercent, stats.CurrentHatamPercent, 1e-12)
}

func TestCalculateTargetStatsBeforeStart(t *testing.T) {
	stats := CalculateTargetStats(ramadhanStart, 1, ramadhanStart.Add(-48*time.Hour))

	assert.Equal(t, 0.0, stats.HoursElapsed)
	assert.Equal(t, 1.0, stats.TargetDecimalPage)
	assert.Equal(t, model.Position{Page: 1, Line: 1}, stats.TargetPosition)
	assert.Equal(t, 1, stats.CurrentHatam)
	assert.InDelta(t, stats.TotalHours, stats.HoursRemaining, 1e-9)
	assert.Equal(t, 29, stats.DaysRemaining)
}

func TestCalculateTargetStatsAfterEnd(t *testing.T) {
	stats := CalculateTargetStats(ramadhanStart, 2, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 1208, stats.TotalTargetPages)
	assert.Equal(t, 1208.0, stats.TargetDecimalPage)
	assert.Equal(t, 2, stats.CurrentHatam)
	assert.Equal(t, 604.0, stats.ProgressInCurrentHatam)
	assert.Equal(t, model.Position{Page: 604, Line: 1}, stats.TargetPosition)
	assert.Equal(t, 100.0, stats.TotalProgressPercent)
	assert.Equal(t, 100.0, stats.CurrentHatamPercent)
	assert.Equal(t, 0.0, stats.HoursRemaining)
	assert.Equal(t, 0, stats.DaysRemaining)
}

func TestCalculateTargetStatsAdvancesHatam(t *testing.T) {
	early := CalculateTargetStats(ramadhanStart, 2, ramadhanStart.Add(100*time.Hour))
	assert.Equal(t, 1, early.CurrentHatam)

	late := CalculateTargetStats(ramadhanStart, 2, ramadhanStart.Add(360*time.Hour))
	assert.Equal(t, 2, late.CurrentHatam)
	assert.InDelta(t, 624.8276, late.TargetDecimalPage, 1e-4)
	assert.InDelta(t, 20.8276, late.ProgressInCurrentHatam, 1e-4)
	assert.Equal(t, model.Position{Page: 20, Line: 13}, late.TargetPosition)
}

func TestCalculateTargetStatsIdempotent(t *testing.T) {
	now := ramadhanStart.Add(123*time.Hour + 45*time.Minute + 6*time.Second)
	first := CalculateTargetStats(ramadhanStart, 3, now)
	second := CalculateTargetStats(ramadhanStart, 3, now)
	assert.Equal(t, first, second)
}

func TestWrapHatam(t *testing.T) {
	assert.Equal(t, 604.0, wrapHatam(604))
	assert.Equal(t, 604.0, wrapHatam(1208))
	assert.InDelta(t, 1.5, wrapHatam(605.5), 1e-9)
	assert.Equal(t, 300.0, wrapHatam(300))
}
