package command

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// DeleteCourseHandler deletes courses that no enrollment refers to.
type DeleteCourseHandler struct {
	courses     course.Repository
	enrollments enrollment.Repository
	publisher   shared.EventPublisher
	log         *logger.Logger
}

// NewDeleteCourseHandler creates a new DeleteCourseHandler.
func NewDeleteCourseHandler(
	courses course.Repository,
	enrollments enrollment.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *DeleteCourseHandler {
	return &DeleteCourseHandler{
		courses:     courses,
		enrollments: enrollments,
		publisher:   publisher,
		log:         orNop(log).With(logger.Component("delete_course")),
	}
}

// Handle deletes the course with id. It reports false when no such course
// existed.
func (h *DeleteCourseHandler) Handle(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := h.enrollments.Atomically(ctx, func(ctx context.Context) error {
		var err error
		removed, err = h.handle(ctx, id)
		return err
	})
	if err != nil {
		logRejected(h.log, "delete_course", err)
		return false, err
	}
	if removed {
		h.log.Info("course deleted", logger.CourseID(id))
		publish(ctx, h.publisher, h.log, shared.NewCourseEvent(shared.EventCourseDeleted, id, ""))
	}
	return removed, nil
}

func (h *DeleteCourseHandler) handle(ctx context.Context, id string) (bool, error) {
	if err := validate.NotBlank("id", id); err != nil {
		return false, err
	}

	refs, err := h.enrollments.FindByCourseID(ctx, id)
	if err != nil {
		return false, err
	}
	if len(refs) > 0 {
		return false, course.ErrCourseHasEnrollments
	}

	return h.courses.Delete(ctx, id)
}
