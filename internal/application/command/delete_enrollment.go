package command

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// DeleteEnrollmentHandler removes enrollment records.
type DeleteEnrollmentHandler struct {
	enrollments enrollment.Repository
	publisher   shared.EventPublisher
	log         *logger.Logger
}

// NewDeleteEnrollmentHandler creates a new DeleteEnrollmentHandler.
func NewDeleteEnrollmentHandler(
	enrollments enrollment.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *DeleteEnrollmentHandler {
	return &DeleteEnrollmentHandler{
		enrollments: enrollments,
		publisher:   publisher,
		log:         orNop(log).With(logger.Component("delete_enrollment")),
	}
}

// Handle deletes the enrollment with id. It reports false when no such
// enrollment existed.
func (h *DeleteEnrollmentHandler) Handle(ctx context.Context, id string) (bool, error) {
	if err := validate.NotBlank("id", id); err != nil {
		logRejected(h.log, "delete_enrollment", err)
		return false, err
	}

	removed, err := h.enrollments.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		h.log.Info("enrollment deleted", logger.EnrollmentID(id))
		publish(ctx, h.publisher, h.log, shared.NewEnrollmentEvent(shared.EventEnrollmentDeleted, id, "", "", ""))
	}
	return removed, nil
}
