package command

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// A student referenced by any enrollment cannot be deleted.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentHandler deletes students.
type DeleteStudentHandler struct {
	students    student.Repository
	enrollments enrollment.Repository
	publisher   shared.EventPublisher
	log         *logger.Logger
}

// NewDeleteStudentHandler creates a new DeleteStudentHandler.
func NewDeleteStudentHandler(
	students student.Repository,
	enrollments enrollment.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *DeleteStudentHandler {
	return &DeleteStudentHandler{
		students:    students,
		enrollments: enrollments,
		publisher:   publisher,
		log:         orNop(log).With(logger.Component("delete_student")),
	}
}

// Handle deletes the student with id. It reports false when no such
// student existed.
func (h *DeleteStudentHandler) Handle(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := h.enrollments.Atomically(ctx, func(ctx context.Context) error {
		var err error
		removed, err = h.handle(ctx, id)
		return err
	})
	if err != nil {
		logRejected(h.log, "delete_student", err)
		return false, err
	}
	if removed {
		h.log.Info("student deleted", logger.StudentID(id))
		publish(ctx, h.publisher, h.log, shared.NewStudentEvent(shared.EventStudentDeleted, id, ""))
	}
	return removed, nil
}

func (h *DeleteStudentHandler) handle(ctx context.Context, id string) (bool, error) {
	if err := validate.NotBlank("id", id); err != nil {
		return false, err
	}

	refs, err := h.enrollments.FindByStudentID(ctx, id)
	if err != nil {
		return false, err
	}
	if len(refs) > 0 {
		return false, student.ErrStudentEnrolled
	}

	return h.students.Delete(ctx, id)
}
