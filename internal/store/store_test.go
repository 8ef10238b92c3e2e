package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rizkywahyuprasetiyo/quran-tracker/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestConfigSlotRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Config().Load(ctx); err != nil || ok {
		t.Fatalf("expected absent config, got ok=%v err=%v", ok, err)
	}

	start := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	if err := st.Config().Save(ctx, model.TrackerConfig{StartDate: start, TargetCount: 2}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	cfg, ok, err := st.Config().Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load config: ok=%v err=%v", ok, err)
	}
	if !cfg.StartDate.Equal(start) || cfg.TargetCount != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if err := st.Config().Save(ctx, model.TrackerConfig{StartDate: start, TargetCount: 3}); err != nil {
		t.Fatalf("replace config: %v", err)
	}
	cfg, _, _ = st.Config().Load(ctx)
	if cfg.TargetCount != 3 {
		t.Fatalf("expected replaced target count, got %d", cfg.TargetCount)
	}

	if err := st.Config().Clear(ctx); err != nil {
		t.Fatalf("clear config: %v", err)
	}
	if _, ok, _ := st.Config().Load(ctx); ok {
		t.Fatalf("expected config cleared")
	}
}

func TestLoadMalformedValueIsAbsent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		ConfigKey, "{not json", time.Now().Format(time.RFC3339Nano)); err != nil {
		t.Fatalf("seed kv: %v", err)
	}
	if _, ok, err := st.Config().Load(ctx); err != nil || ok {
		t.Fatalf("expected malformed config to be absent, got ok=%v err=%v", ok, err)
	}
}

func TestLoadOutOfRangeValueIsAbsent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Position().Save(ctx, model.ActualPosition{Page: 700, Line: 1, UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("save position: %v", err)
	}
	if _, ok, err := st.Position().Load(ctx); err != nil || ok {
		t.Fatalf("expected out-of-range position to be absent, got ok=%v err=%v", ok, err)
	}

	if err := st.Config().Save(ctx, model.TrackerConfig{StartDate: time.Now(), TargetCount: 0}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if _, ok, _ := st.Config().Load(ctx); ok {
		t.Fatalf("expected zero target count to be absent")
	}
}

func TestSaveActualPositionAppendsLog(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 20, 21, 0, 0, 0, time.UTC)
	for i, p := range []model.Position{{Page: 10, Line: 3}, {Page: 22, Line: 15}, {Page: 41, Line: 7}} {
		pos := model.ActualPosition{Page: p.Page, Line: p.Line, UpdatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := st.SaveActualPosition(ctx, pos); err != nil {
			t.Fatalf("save position: %v", err)
		}
	}

	current, ok, err := st.Position().Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load position: ok=%v err=%v", ok, err)
	}
	if current.Page != 41 || current.Line != 7 {
		t.Fatalf("unexpected current position: %+v", current)
	}
	if !current.UpdatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected updated at: %v", current.UpdatedAt)
	}

	entries, err := st.ListPositionLog(ctx, 2)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Page != 22 || entries[1].Page != 41 {
		t.Fatalf("unexpected entries order: %+v", entries)
	}

	all, err := st.ListPositionLog(ctx, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
}

func TestClearAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.Config().Save(ctx, model.TrackerConfig{StartDate: time.Now(), TargetCount: 1}); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if err := st.SaveActualPosition(ctx, model.ActualPosition{Page: 5, Line: 5, UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("save position: %v", err)
	}
	if err := st.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if _, ok, _ := st.Config().Load(ctx); ok {
		t.Fatalf("expected config cleared")
	}
	if _, ok, _ := st.Position().Load(ctx); ok {
		t.Fatalf("expected position cleared")
	}
	entries, err := st.ListPositionLog(ctx, 0)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty log, got %d", len(entries))
	}
}
