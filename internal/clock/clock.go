// Package clock owns the mutable "current time" and the ticker that refreshes it.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Cell holds the current time seen by tick handlers.
type Cell struct {
	mu  sync.RWMutex
	now time.Time
}

// NewCell returns a cell initialised to now.
func NewCell(now time.Time) *Cell {
	return &Cell{now: now}
}

// Now returns the stored time.
func (c *Cell) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set replaces the stored time.
func (c *Cell) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// TickFunc receives the time snapshot of each tick.
type TickFunc func(now time.Time)

// Scheduler refreshes a Cell on a fixed interval and notifies handlers.
type Scheduler struct {
	cron     *cron.Cron
	cell     *Cell
	every    time.Duration
	source   func() time.Time
	log      zerolog.Logger
	mu       sync.Mutex
	handlers []TickFunc
}

// NewScheduler creates a scheduler that ticks every interval.
func NewScheduler(cell *Cell, every time.Duration, log zerolog.Logger) (*Scheduler, error) {
	if every < time.Second {
		return nil, fmt.Errorf("refresh interval must be at least 1s, got %s", every)
	}
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		cell:   cell,
		every:  every,
		source: time.Now,
		log:    log.With().Str("component", "scheduler").Logger(),
	}, nil
}

// OnTick registers a handler called after the cell is refreshed.
func (s *Scheduler) OnTick(fn TickFunc) {
	s.mu.Lock()
	s.handlers = append(s.handlers, fn)
	s.mu.Unlock()
}

// Start registers the refresh job and starts the cron runner.
func (s *Scheduler) Start() error {
	schedule := "@every " + s.every.String()
	if _, err := s.cron.AddFunc(schedule, s.Tick); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	s.cron.Start()
	s.log.Debug().Str("schedule", schedule).Msg("scheduler started")
	return nil
}

// Stop stops the cron runner and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Debug().Msg("scheduler stopped")
}

// Tick refreshes the cell and runs the handlers with the new snapshot.
func (s *Scheduler) Tick() {
	now := s.source()
	s.cell.Set(now)
	s.mu.Lock()
	handlers := append([]TickFunc(nil), s.handlers...)
	s.mu.Unlock()
	for _, fn := range handlers {
		fn(now)
	}
}
