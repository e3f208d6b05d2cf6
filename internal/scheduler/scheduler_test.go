package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/getmenuly/menuly/internal/clock"
	subscriptiondomain "github.com/getmenuly/menuly/internal/subscription/domain"
)

type stubSweeper struct {
	calls  int
	result subscriptiondomain.SweepResult
	err    error
}

func (s *stubSweeper) Sweep(ctx context.Context) (subscriptiondomain.SweepResult, error) {
	s.calls++
	if err := ctx.Err(); err != nil {
		return subscriptiondomain.SweepResult{}, err
	}
	return s.result, s.err
}

func newScheduler(t *testing.T, sweeper *stubSweeper) *Scheduler {
	t.Helper()
	sched, err := New(Params{
		Log:             zap.NewNop(),
		Clock:           clock.NewFakeClock(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
		SubscriptionSvc: sweeper,
	})
	require.NoError(t, err)
	return sched
}

func TestRunOnceInvokesSweep(t *testing.T) {
	sweeper := &stubSweeper{result: subscriptiondomain.SweepResult{RemindersSent: 2, Expired: 1}}
	sched := newScheduler(t, sweeper)

	require.NoError(t, sched.RunOnce(context.Background()))
	require.Equal(t, 1, sweeper.calls)
}

func TestRunOncePropagatesSweepError(t *testing.T) {
	boom := errors.New("db unreachable")
	sweeper := &stubSweeper{err: boom}
	sched := newScheduler(t, sweeper)

	err := sched.RunOnce(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "subscription_sweep")
}

func TestRunOnceSwallowsTimeout(t *testing.T) {
	sweeper := &stubSweeper{err: context.DeadlineExceeded}
	sched := newScheduler(t, sweeper)

	require.NoError(t, sched.RunOnce(context.Background()))
	require.Equal(t, 1, sweeper.calls)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, time.Hour, cfg.RunInterval)
	require.Equal(t, 2*time.Minute, cfg.JobTimeout)
	require.Equal(t, 5*time.Minute, cfg.LockTTL)

	custom := Config{RunInterval: 10 * time.Minute}.withDefaults()
	require.Equal(t, 10*time.Minute, custom.RunInterval)
	require.Equal(t, 2*time.Minute, custom.JobTimeout)
}
