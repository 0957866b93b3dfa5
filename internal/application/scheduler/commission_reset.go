// Package scheduler zeroes the employee commission accumulators at local
// midnight (daily) and at local midnight on the 1st (monthly).
//
// Every fired reset is recorded per (kind, period start). A repeated fire for
// a period that is already recorded does nothing, and on Start any period whose
// reset was missed while the process was down is applied once.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
)

const (
	DailySpec   = "0 0 * * *"
	MonthlySpec = "0 0 1 * *"

	runTimeout = 2 * time.Minute
)

// Resetter applies a reset for one period. CommissionService implements it.
type Resetter interface {
	Reset(ctx context.Context, kind enum.ResetKind, periodStart time.Time) (*entity.CommissionReset, bool, error)
	LatestReset(ctx context.Context, kind enum.ResetKind) (*entity.CommissionReset, error)
	PeriodStart(kind enum.ResetKind, at time.Time) time.Time
}

// CommissionResetScheduler runs the daily and monthly resets
type CommissionResetScheduler struct {
	resetter Resetter
	clock    *bizclock.Clock
	catchUp  bool
	log      zerolog.Logger

	cron    *cron.Cron
	entries map[enum.ResetKind]cron.EntryID

	mu      sync.Mutex
	started bool
}

// NewCommissionResetScheduler creates a scheduler firing in the clock's
// location.
func NewCommissionResetScheduler(resetter Resetter, clock *bizclock.Clock, catchUp bool, log zerolog.Logger) (*CommissionResetScheduler, error) {
	log = log.With().Str("component", "commission_reset_scheduler").Logger()
	s := &CommissionResetScheduler{
		resetter: resetter,
		clock:    clock,
		catchUp:  catchUp,
		log:      log,
		entries:  make(map[enum.ResetKind]cron.EntryID, 2),
	}

	cl := cronLogger{log: log}
	s.cron = cron.New(
		cron.WithLocation(clock.Location()),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	for kind, spec := range map[enum.ResetKind]string{
		enum.ResetKindDaily:   DailySpec,
		enum.ResetKindMonthly: MonthlySpec,
	} {
		id, err := s.cron.AddFunc(spec, func() { s.fire(kind) })
		if err != nil {
			return nil, fmt.Errorf("schedule %s reset: %w", kind, err)
		}
		s.entries[kind] = id
	}
	return s, nil
}

// Start applies missed resets (when catch-up is enabled) and starts the
// schedule. Calling Start twice is a no-op.
func (s *CommissionResetScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}

	if s.catchUp {
		s.catchUpMissed(ctx)
	}
	s.cron.Start()
	s.started = true

	next := s.NextRuns()
	s.log.Info().
		Time("next_daily", next[enum.ResetKindDaily]).
		Time("next_monthly", next[enum.ResetKindMonthly]).
		Msg("scheduler started")
}

// Stop stops the schedule and waits for a running reset to finish or for ctx
// to expire.
func (s *CommissionResetScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow applies the reset for the current period of kind. It is guarded the
// same way as a scheduled fire: a period already reset is left alone.
func (s *CommissionResetScheduler) RunNow(ctx context.Context, kind enum.ResetKind) (*entity.CommissionReset, bool, error) {
	return s.resetter.Reset(ctx, kind, s.resetter.PeriodStart(kind, s.clock.Now()))
}

// NextRuns returns the next scheduled instant per kind. Zero before Start.
func (s *CommissionResetScheduler) NextRuns() map[enum.ResetKind]time.Time {
	out := make(map[enum.ResetKind]time.Time, len(s.entries))
	for kind, id := range s.entries {
		out[kind] = s.cron.Entry(id).Next
	}
	return out
}

func (s *CommissionResetScheduler) fire(kind enum.ResetKind) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, _, err := s.RunNow(ctx, kind); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("scheduled reset failed")
	}
}

// catchUpMissed resets any kind whose current period has no recorded reset
func (s *CommissionResetScheduler) catchUpMissed(ctx context.Context) {
	now := s.clock.Now()
	for _, kind := range []enum.ResetKind{enum.ResetKindDaily, enum.ResetKindMonthly} {
		period := s.resetter.PeriodStart(kind, now)

		latest, err := s.resetter.LatestReset(ctx, kind)
		if err != nil {
			s.log.Error().Err(err).Str("kind", string(kind)).Msg("catch-up lookup failed")
			continue
		}
		if latest != nil && !latest.PeriodStart.Before(period) {
			continue
		}

		s.log.Warn().Str("kind", string(kind)).Time("period_start", period).Msg("applying missed reset")
		if _, _, err := s.resetter.Reset(ctx, kind, period); err != nil {
			s.log.Error().Err(err).Str("kind", string(kind)).Msg("catch-up reset failed")
		}
	}
}

// cronLogger routes cron's own logging into zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
