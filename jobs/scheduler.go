package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/talesoul/talesoul-api/loggers"
)

// BookingJobs is the booking work the scheduler drives.
type BookingJobs interface {
	reminderSender
	pendingExpirer
}

const jobTimeout = 2 * time.Minute

// Schedule registers the periodic booking jobs. The caller starts and stops the returned scheduler.
func Schedule(bookings BookingJobs, pendingGrace time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if _, err := c.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		SendSessionReminders(ctx, bookings, time.Now())
	}); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		ExpirePendingBookings(ctx, bookings, time.Now(), pendingGrace)
	}); err != nil {
		return nil, err
	}

	loggers.Log.Info("✅ Cron jobs for reminders and pending expiry scheduled successfully.")
	return c, nil
}
