// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT QUERIES
// Чтение студентов. Порядок совпадает с порядком регистрации.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsHandler возвращает всех студентов.
type ListStudentsHandler struct {
	students student.Repository
}

// NewListStudentsHandler создаёт ListStudentsHandler.
func NewListStudentsHandler(students student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle возвращает копии всех студентов.
func (h *ListStudentsHandler) Handle(ctx context.Context) ([]*student.Student, error) {
	return h.students.FindAll(ctx)
}

// GetStudentHandler возвращает одного студента.
type GetStudentHandler struct {
	students student.Repository
}

// NewGetStudentHandler создаёт GetStudentHandler.
func NewGetStudentHandler(students student.Repository) *GetStudentHandler {
	return &GetStudentHandler{students: students}
}

// Handle ищет студента по ID.
func (h *GetStudentHandler) Handle(ctx context.Context, id string) (*student.Student, error) {
	if err := validate.NotBlank("id", id); err != nil {
		return nil, err
	}
	return h.students.FindByID(ctx, id)
}
