// Package command contains write operations (CQRS - Commands).
// Each handler enforces the business rules of one use case before it
// touches a repository.
package command

import (
	"context"
	"strings"

	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// publish hands event to the bus. The mutation has already been persisted,
// so a failing subscriber is only logged.
func publish(ctx context.Context, pub shared.EventPublisher, log *logger.Logger, event shared.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("event publish failed",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
	}
}

// logRejected records a rule violation. Storage failures are already
// logged by the repository.
func logRejected(log *logger.Logger, op string, err error) {
	if shared.IsStorage(err) {
		return
	}
	log.Debug("command rejected", logger.Operation(op), logger.Err(err))
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Nop()
	}
	return log
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
