package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE COURSE COMMAND
// Both dates are required; the end date may equal the start date.
// ══════════════════════════════════════════════════════════════════════════════

// CreateCourseCommand contains the raw input for a new course.
type CreateCourseCommand struct {
	Name      string
	Type      string // ONLINE or IN_PERSON, case-insensitive
	StartDate string // yyyy-MM-dd
	EndDate   string // yyyy-MM-dd
	Price     float64
}

// CreateCourseHandler handles the CreateCourseCommand.
type CreateCourseHandler struct {
	courses   course.Repository
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewCreateCourseHandler creates a new CreateCourseHandler.
func NewCreateCourseHandler(
	courses course.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CreateCourseHandler {
	return &CreateCourseHandler{
		courses:   courses,
		publisher: publisher,
		log:       orNop(log).With(logger.Component("create_course")),
	}
}

// Handle validates the input and stores the course.
func (h *CreateCourseHandler) Handle(ctx context.Context, cmd CreateCourseCommand) (*course.Course, error) {
	c, err := h.handle(ctx, cmd)
	if err != nil {
		logRejected(h.log, "create_course", err)
		return nil, err
	}

	h.log.Info("course created", logger.CourseID(c.ID), logger.String("name", c.Name))
	publish(ctx, h.publisher, h.log, shared.NewCourseEvent(shared.EventCourseCreated, c.ID, c.Name))
	return c, nil
}

func (h *CreateCourseHandler) handle(ctx context.Context, cmd CreateCourseCommand) (*course.Course, error) {
	if err := validate.NotBlank("name", cmd.Name); err != nil {
		return nil, err
	}
	if err := validate.NonNegative("price", cmd.Price); err != nil {
		return nil, err
	}

	courseType, err := course.ParseType(cmd.Type)
	if err != nil {
		return nil, shared.WrapError("input", "ParseType", shared.ErrInputValidation,
			fmt.Sprintf("invalid course type %q, use %s or %s", cmd.Type, course.TypeOnline, course.TypeInPerson), err)
	}

	start, err := validate.Date("start date", cmd.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := validate.Date("end date", cmd.EndDate)
	if err != nil {
		return nil, err
	}

	c := &course.Course{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(cmd.Name),
		Type:      courseType,
		StartDate: start,
		EndDate:   end,
		Price:     cmd.Price,
	}
	if !c.ValidWindow() {
		return nil, shared.NewDomainError("course", "Create", course.ErrInvalidWindow,
			fmt.Sprintf("end date %s is before start date %s", timeutil.FormatDate(end), timeutil.FormatDate(start)))
	}

	return h.courses.Save(ctx, c)
}
