package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE STUDENT COMMAND
// Registers a student. Email is unique regardless of case.
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentCommand contains the raw input for a new student.
type CreateStudentCommand struct {
	Name  string
	Email string

	// BirthDate is optional, yyyy-MM-dd.
	BirthDate string
}

// CreateStudentHandler handles the CreateStudentCommand.
type CreateStudentHandler struct {
	students  student.Repository
	publisher shared.EventPublisher
	log       *logger.Logger
}

// NewCreateStudentHandler creates a new CreateStudentHandler.
func NewCreateStudentHandler(
	students student.Repository,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *CreateStudentHandler {
	return &CreateStudentHandler{
		students:  students,
		publisher: publisher,
		log:       orNop(log).With(logger.Component("create_student")),
	}
}

// Handle validates the input and stores the student.
func (h *CreateStudentHandler) Handle(ctx context.Context, cmd CreateStudentCommand) (*student.Student, error) {
	s, err := h.handle(ctx, cmd)
	if err != nil {
		logRejected(h.log, "create_student", err)
		return nil, err
	}

	h.log.Info("student created", logger.StudentID(s.ID), logger.Email(s.Email))
	publish(ctx, h.publisher, h.log, shared.NewStudentEvent(shared.EventStudentRegistered, s.ID, s.Email))
	return s, nil
}

func (h *CreateStudentHandler) handle(ctx context.Context, cmd CreateStudentCommand) (*student.Student, error) {
	if err := validate.NotBlank("name", cmd.Name); err != nil {
		return nil, err
	}
	if err := validate.Email(cmd.Email); err != nil {
		return nil, err
	}

	_, err := h.students.FindByEmail(ctx, cmd.Email)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("student", "Create", student.ErrEmailTaken,
			fmt.Sprintf("email %s is already registered", student.NormalizeEmail(cmd.Email)))
	case !shared.IsNotFound(err):
		return nil, err
	}

	birthDate, err := validate.OptionalDate("birth date", cmd.BirthDate)
	if err != nil {
		return nil, err
	}

	return h.students.Save(ctx, student.NewStudent(uuid.NewString(), cmd.Name, cmd.Email, birthDate))
}
