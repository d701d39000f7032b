package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// Dispatcher sends audit alerts asynchronously. Each dispatch runs in its own
// goroutine with a bounded deadline, detached from the request context, so a
// slow or failing channel can never stall the action that raised the alert.
// Alerts beyond the configured rate are dropped with a log entry.
type Dispatcher struct {
	sender     Sender
	recipients []string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// Notify dispatches an alert for the given audit event and returns
// immediately.
func (d *Dispatcher) Notify(ctx context.Context, event *auditDomain.Event) {
	if !d.limiter.Allow() {
		d.logger.Warn("alert dropped by rate limit",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.EventType)),
		)
		return
	}

	subject := fmt.Sprintf("[%s] %s", event.RiskLevel, event.EventType)
	body := fmt.Sprintf(
		"event %s: type=%s risk=%s actor=%s ip=%s resource=%s/%s at %s",
		event.ID,
		event.EventType,
		event.RiskLevel,
		event.Request.ActorID,
		event.Request.IPAddress,
		event.ResourceType,
		event.ResourceID,
		event.CreatedAt.Format(time.RFC3339),
	)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, subject, body, d.recipients); err != nil {
			d.logger.Error("failed to send alert",
				slog.String("event_id", event.ID.String()),
				slog.Any("error", err),
			)
		}
	}()
}

// Wait blocks until all in-flight dispatches complete. Used during shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// NewDispatcher creates a new alert dispatcher.
func NewDispatcher(
	sender Sender,
	recipients []string,
	timeout time.Duration,
	ratePerSec float64,
	burst int,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		recipients: recipients,
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
		logger:     logger,
	}
}
