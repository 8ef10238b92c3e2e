package stats

import (
	"context"
	"time"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/pace"
	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/store"
)

// Snapshot bundles everything shown for a config at one instant.
type Snapshot struct {
	Now         time.Time               `json:"now"`
	StartDate   time.Time               `json:"startDate"`
	EndDate     time.Time               `json:"endDate"`
	TargetCount int                     `json:"targetCount"`
	Stats       model.TargetStats       `json:"stats"`
	Actual      *model.ActualPosition   `json:"actualPosition,omitempty"`
	Comparison  *model.ComparisonResult `json:"comparison,omitempty"`
}

// BuildSnapshot computes target stats and, when an actual position is
// known, its comparison against the target position.
func BuildSnapshot(cfg model.TrackerConfig, actual *model.ActualPosition, now time.Time) Snapshot {
	targetCount := cfg.TargetCount
	if targetCount < 1 {
		targetCount = 1
	}
	snap := Snapshot{
		Now:         now,
		StartDate:   cfg.StartDate,
		EndDate:     pace.EndDate(cfg.StartDate),
		TargetCount: targetCount,
		Stats:       pace.CalculateTargetStats(cfg.StartDate, targetCount, now),
	}
	if actual != nil {
		a := *actual
		cmp := pace.CompareActualVsTarget(a.Position(), snap.Stats.TargetPosition)
		snap.Actual = &a
		snap.Comparison = &cmp
	}
	return snap
}

// State is the persisted tracker data.
type State struct {
	Config    model.TrackerConfig
	HasConfig bool
	Actual    *model.ActualPosition
}

// LoadState reads config and actual position. Times are moved into loc so
// calendar math follows the configured zone.
func LoadState(ctx context.Context, st *store.Store, loc *time.Location) (State, error) {
	cfg, ok, err := st.Config().Load(ctx)
	if err != nil {
		return State{}, err
	}
	state := State{HasConfig: ok}
	if ok {
		cfg.StartDate = cfg.StartDate.In(loc)
		state.Config = cfg
	}
	actual, ok, err := st.Position().Load(ctx)
	if err != nil {
		return State{}, err
	}
	if ok {
		actual.UpdatedAt = actual.UpdatedAt.In(loc)
		state.Actual = &actual
	}
	return state, nil
}

// HistoryRow is one position log entry compared with the target at its time.
type HistoryRow struct {
	Entry      model.PositionLogEntry
	Decimal    float64
	Target     model.Position
	Comparison model.ComparisonResult
}

// BuildHistory loads the last entries of the position log and compares each
// one with the target at the moment it was recorded.
func BuildHistory(ctx context.Context, st *store.Store, cfg model.TrackerConfig, last int) ([]HistoryRow, error) {
	entries, err := st.ListPositionLog(ctx, last)
	if err != nil {
		return nil, err
	}
	rows := make([]HistoryRow, 0, len(entries))
	for _, entry := range entries {
		entry.RecordedAt = entry.RecordedAt.In(cfg.StartDate.Location())
		stats := pace.CalculateTargetStats(cfg.StartDate, cfg.TargetCount, entry.RecordedAt)
		actual := model.Position{Page: entry.Page, Line: entry.Line}
		rows = append(rows, HistoryRow{
			Entry:      entry,
			Decimal:    pace.PageLineToDecimal(entry.Page, entry.Line),
			Target:     stats.TargetPosition,
			Comparison: pace.CompareActualVsTarget(actual, stats.TargetPosition),
		})
	}
	return rows, nil
}
