package command

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CANCEL ENROLLMENT COMMAND
// Any status -> CANCELLED, including COMPLETED. Cancelling twice is a no-op.
// ══════════════════════════════════════════════════════════════════════════════

// CancelEnrollmentHandler cancels enrollments.
type CancelEnrollmentHandler struct {
	enrollments enrollment.Repository
	publisher   shared.EventPublisher
	log         *logger.Logger
}

// NewCancelEnrollmentHandler creates a new CancelEnrollmentHandler.
func NewCancelEnrollmentHandler(
	enrollments enrollment.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CancelEnrollmentHandler {
	return &CancelEnrollmentHandler{
		enrollments: enrollments,
		publisher:   publisher,
		log:         orNop(log).With(logger.Component("cancel_enrollment")),
	}
}

// Handle cancels the enrollment with id and returns its new state.
func (h *CancelEnrollmentHandler) Handle(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	var (
		e       *enrollment.Enrollment
		changed bool
	)
	err := h.enrollments.Atomically(ctx, func(ctx context.Context) error {
		var err error
		e, changed, err = h.handle(ctx, id)
		return err
	})
	if err != nil {
		logRejected(h.log, "cancel_enrollment", err)
		return nil, err
	}

	if changed {
		h.log.Info("enrollment cancelled", logger.EnrollmentID(e.ID))
		publish(ctx, h.publisher, h.log, shared.NewEnrollmentEvent(
			shared.EventEnrollmentCancelled, e.ID, e.StudentID, e.CourseID, e.Status.String()))
	}
	return e, nil
}

func (h *CancelEnrollmentHandler) handle(ctx context.Context, id string) (*enrollment.Enrollment, bool, error) {
	if err := validate.NotBlank("id", id); err != nil {
		return nil, false, err
	}

	e, err := h.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if e.Status == enrollment.StatusCancelled {
		return e, false, nil
	}
	e.Cancel()

	updated, err := h.enrollments.Update(ctx, e)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}
