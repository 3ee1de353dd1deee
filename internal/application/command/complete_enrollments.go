package command

import (
	"context"

	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE FINISHED ENROLLMENTS COMMAND
// Marks every ACTIVE enrollment whose course ended before today as COMPLETED.
// Runs only when invoked, under the enrollments write lock.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteEnrollmentsResult lists the enrollments that changed.
type CompleteEnrollmentsResult struct {
	Completed []*enrollment.Enrollment
}

// CompleteEnrollmentsHandler completes enrollments of finished courses.
type CompleteEnrollmentsHandler struct {
	courses     course.Repository
	enrollments enrollment.Repository
	clock       timeutil.Clock
	publisher   shared.EventPublisher
	log         *logger.Logger
}

// NewCompleteEnrollmentsHandler creates a new CompleteEnrollmentsHandler.
func NewCompleteEnrollmentsHandler(
	courses course.Repository,
	enrollments enrollment.Repository,
	clock timeutil.Clock,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CompleteEnrollmentsHandler {
	return &CompleteEnrollmentsHandler{
		courses:     courses,
		enrollments: enrollments,
		clock:       clock,
		publisher:   publisher,
		log:         orNop(log).With(logger.Component("complete_enrollments")),
	}
}

// Handle completes what it can. On a storage error it stops and returns the
// enrollments completed so far together with the error.
func (h *CompleteEnrollmentsHandler) Handle(ctx context.Context) (*CompleteEnrollmentsResult, error) {
	result := &CompleteEnrollmentsResult{}
	err := h.enrollments.Atomically(ctx, func(ctx context.Context) error {
		return h.handle(ctx, result)
	})

	for _, e := range result.Completed {
		publish(ctx, h.publisher, h.log, shared.NewEnrollmentEvent(
			shared.EventEnrollmentCompleted, e.ID, e.StudentID, e.CourseID, e.Status.String()))
	}
	if err != nil {
		return result, err
	}

	h.log.Info("finished enrollments completed", logger.Records(len(result.Completed)))
	return result, nil
}

func (h *CompleteEnrollmentsHandler) handle(ctx context.Context, result *CompleteEnrollmentsResult) error {
	today := timeutil.Today(h.clock)

	all, err := h.enrollments.FindAll(ctx)
	if err != nil {
		return err
	}

	ended := make(map[string]bool)
	for _, e := range all {
		if !e.IsActive() {
			continue
		}

		done, seen := ended[e.CourseID]
		if !seen {
			c, err := h.courses.FindByID(ctx, e.CourseID)
			switch {
			case err == nil:
				done = c.EndedBefore(today)
			case shared.IsNotFound(err):
				done = false
			default:
				return err
			}
			ended[e.CourseID] = done
		}
		if !done {
			continue
		}

		if err := e.Complete(); err != nil {
			return err
		}
		updated, err := h.enrollments.Update(ctx, e)
		if err != nil {
			return err
		}
		result.Completed = append(result.Completed, updated)
	}
	return nil
}
