package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/getmenuly/menuly/internal/clock"
	"github.com/getmenuly/menuly/internal/observability/metrics"
	subscriptiondomain "github.com/getmenuly/menuly/internal/subscription/domain"
)

const sweepLockKey = "menuly:sweep"

const sweepJobName = "subscription_sweep"

var ErrInvalidConfig = errors.New("scheduler misconfigured")

type Params struct {
	fx.In

	Log             *zap.Logger
	Clock           clock.Clock
	SubscriptionSvc subscriptiondomain.Service
	Locker          *Locker               `optional:"true"`
	Metrics         *metrics.SweepMetrics `optional:"true"`
	Config          Config                `optional:"true"`
}

type Scheduler struct {
	log             *zap.Logger
	cfg             Config
	clock           clock.Clock
	subscriptionSvc subscriptiondomain.Service
	locker          *Locker
	metrics         *metrics.SweepMetrics
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.SubscriptionSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:             p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:             p.Config.withDefaults(),
		clock:           p.Clock,
		subscriptionSvc: p.SubscriptionSvc,
		locker:          p.Locker,
		metrics:         p.Metrics,
	}, nil
}

// RunOnce performs a single sweep pass. When a Locker is configured the
// pass is skipped if another instance holds the sweep lock.
func (s *Scheduler) RunOnce(parent context.Context) error {
	if s.locker != nil {
		token, ok, err := s.locker.TryLock(parent, sweepLockKey, s.cfg.LockTTL)
		if err != nil {
			return fmt.Errorf("%s: acquire lock: %w", sweepJobName, err)
		}
		if !ok {
			s.metrics.IncLockSkipped()
			s.log.Debug("sweep lock held elsewhere, skipping pass")
			return nil
		}
		defer func() {
			if err := s.locker.Release(parent, sweepLockKey, token); err != nil {
				s.log.Warn("sweep lock release failed", zap.Error(err))
			}
		}()
	}

	return s.runJob(parent, sweepJobName, s.cfg.JobTimeout, func(ctx context.Context) error {
		result, err := s.subscriptionSvc.Sweep(ctx)
		s.metrics.AddRemindersSent(result.RemindersSent)
		s.metrics.AddExpired(result.Expired)
		return err
	})
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	s.metrics.IncJobRun(name)
	err := fn(ctx)
	s.metrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	// A pass cut short by its deadline resumes on the next tick, so it
	// is logged rather than propagated.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.metrics.IncJobTimeout(name)
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	s.metrics.IncJobError(name)
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
