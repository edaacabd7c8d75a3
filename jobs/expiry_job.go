package jobs

import (
	"context"
	"time"

	"github.com/talesoul/talesoul-api/loggers"
)

type pendingExpirer interface {
	ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error)
}

// ExpirePendingBookings cancels pending bookings whose start time passed more than grace ago.
func ExpirePendingBookings(ctx context.Context, bookings pendingExpirer, now time.Time, grace time.Duration) {
	loggers.Log.Debug("Running job: ExpirePendingBookings")

	expired, err := bookings.ExpireStalePending(ctx, now.Add(-grace))
	if err != nil {
		loggers.Log.WithError(err).Error("🔥 Error checking for stale pending bookings")
		return
	}
	if expired == 0 {
		loggers.Log.Debug("No stale pending bookings found.")
		return
	}
	loggers.Log.WithField("count", expired).Info("Cancelled stale pending bookings")
}
