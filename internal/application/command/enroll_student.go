package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/logger"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Enrolls an existing student in an existing course. The enrollment date must
// fall inside the course dates (inclusive) and a student may hold only one
// active enrollment per course.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand contains the raw input for a new enrollment.
type EnrollStudentCommand struct {
	StudentID string
	CourseID  string

	// Date is yyyy-MM-dd; blank means today.
	Date string
}

// EnrollStudentHandler handles the EnrollStudentCommand.
type EnrollStudentHandler struct {
	students    student.Repository
	courses     course.Repository
	enrollments enrollment.Repository
	clock       timeutil.Clock
	publisher   shared.EventPublisher
	log         *logger.Logger
}

// NewEnrollStudentHandler creates a new EnrollStudentHandler.
func NewEnrollStudentHandler(
	students student.Repository,
	courses course.Repository,
	enrollments enrollment.Repository,
	clock timeutil.Clock,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *EnrollStudentHandler {
	return &EnrollStudentHandler{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		clock:       clock,
		publisher:   publisher,
		log:         orNop(log).With(logger.Component("enroll_student")),
	}
}

// Handle validates the input and stores an ACTIVE enrollment.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*enrollment.Enrollment, error) {
	var e *enrollment.Enrollment
	err := h.enrollments.Atomically(ctx, func(ctx context.Context) error {
		var err error
		e, err = h.handle(ctx, cmd)
		return err
	})
	if err != nil {
		logRejected(h.log, "enroll_student", err)
		return nil, err
	}

	h.log.Info("student enrolled",
		logger.EnrollmentID(e.ID),
		logger.StudentID(e.StudentID),
		logger.CourseID(e.CourseID),
	)
	publish(ctx, h.publisher, h.log, shared.NewEnrollmentEvent(
		shared.EventEnrollmentCreated, e.ID, e.StudentID, e.CourseID, e.Status.String()))
	return e, nil
}

func (h *EnrollStudentHandler) handle(ctx context.Context, cmd EnrollStudentCommand) (*enrollment.Enrollment, error) {
	if err := validate.NotBlank("student id", cmd.StudentID); err != nil {
		return nil, err
	}
	if err := validate.NotBlank("course id", cmd.CourseID); err != nil {
		return nil, err
	}

	s, err := h.students.FindByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}
	c, err := h.courses.FindByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	date := timeutil.Today(h.clock)
	if !isBlank(cmd.Date) {
		if date, err = validate.Date("enrollment date", cmd.Date); err != nil {
			return nil, err
		}
	}

	if !c.Accepts(date) {
		return nil, shared.NewDomainError("enrollment", "Enroll", enrollment.ErrOutsideCourseWindow,
			fmt.Sprintf("enrollment date %s is outside the course dates %s", timeutil.FormatDate(date), courseWindow(c)))
	}

	existing, err := h.enrollments.FindByStudentID(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.CourseID == c.ID && e.IsActive() {
			return nil, enrollment.ErrAlreadyEnrolled
		}
	}

	return h.enrollments.Save(ctx, enrollment.NewEnrollment(uuid.NewString(), s.ID, c.ID, date))
}

func courseWindow(c *course.Course) string {
	start, end := "open", "open"
	if c.HasStart() {
		start = timeutil.FormatDate(c.StartDate)
	}
	if c.HasEnd() {
		end = timeutil.FormatDate(c.EndDate)
	}
	return fmt.Sprintf("[%s, %s]", start, end)
}
