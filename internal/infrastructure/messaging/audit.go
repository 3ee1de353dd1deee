package messaging

import (
	"context"

	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// AuditHandler returns a handler that writes one info line per domain event.
func AuditHandler(log *logger.Logger) shared.EventHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("audit"))

	return func(_ context.Context, event shared.Event) error {
		fields := []logger.Field{
			logger.String("event_type", string(event.EventType())),
			logger.String("aggregate_id", event.AggregateID()),
			logger.Time("occurred_at", event.OccurredAt()),
		}
		for k, v := range event.Payload() {
			if k == "email" {
				continue
			}
			fields = append(fields, logger.Any(k, v))
		}
		log.Info("domain event", fields...)
		return nil
	}
}
