package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/talesoul/talesoul-api/loggers"
)

// Dispatcher sends email in the background. Failures are logged and never reach the caller.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{mailer: mailer, timeout: 15 * time.Second}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.mailer == nil {
		loggers.Log.WithField("subject", msg.Subject).Debug("Email client not initialized, skipping email send.")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				loggers.Log.WithField("panic", r).Error("🔥 Email dispatch panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		fields := logrus.Fields{"subject": msg.Subject, "recipients": len(msg.To)}
		if err := d.mailer.Send(ctx, msg); err != nil {
			loggers.Log.WithFields(fields).WithError(err).Error("🔥 Failed to send email")
			return
		}
		loggers.Log.WithFields(fields).Info("✅ Email sent successfully")
	}()
}

// Wait blocks until every dispatched email has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
