package domain

import "context"

type Service interface {
	// Sweep walks every restaurant with an expiry timestamp, expiring the
	// overdue ones and creating due reminders. Per-tenant failures are
	// collected; the sweep keeps going.
	Sweep(ctx context.Context) (SweepResult, error)
}

type SweepResult struct {
	RemindersSent int
	Expired       int
	Failed        int
}
