package jobs

import (
	"context"
	"time"

	"github.com/talesoul/talesoul-api/loggers"
)

const (
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
)

type reminderSender interface {
	SendReminders(ctx context.Context, from, to time.Time) (int, error)
}

// SendSessionReminders emails both parties of confirmed sessions starting 60 to 65 minutes from now.
// now is truncated to the minute and the window is half-open, so consecutive five minute runs
// cover every start time once.
func SendSessionReminders(ctx context.Context, bookings reminderSender, now time.Time) {
	loggers.Log.Debug("Running job: SendSessionReminders")

	from := now.Truncate(time.Minute).Add(reminderLead)
	to := from.Add(reminderWindow)
	sent, err := bookings.SendReminders(ctx, from, to)
	if err != nil {
		loggers.Log.WithError(err).Error("🔥 Error checking for upcoming sessions")
		return
	}
	if sent > 0 {
		loggers.Log.WithField("count", sent).Info("✅ Sent session reminders")
	}
}
