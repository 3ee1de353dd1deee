package query

import (
	"context"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesHandler возвращает все курсы.
type ListCoursesHandler struct {
	courses course.Repository
}

// NewListCoursesHandler создаёт ListCoursesHandler.
func NewListCoursesHandler(courses course.Repository) *ListCoursesHandler {
	return &ListCoursesHandler{courses: courses}
}

// Handle возвращает копии всех курсов в порядке создания.
func (h *ListCoursesHandler) Handle(ctx context.Context) ([]*course.Course, error) {
	return h.courses.FindAll(ctx)
}

// GetCourseHandler возвращает один курс.
type GetCourseHandler struct {
	courses course.Repository
}

// NewGetCourseHandler создаёт GetCourseHandler.
func NewGetCourseHandler(courses course.Repository) *GetCourseHandler {
	return &GetCourseHandler{courses: courses}
}

// Handle ищет курс по ID.
func (h *GetCourseHandler) Handle(ctx context.Context, id string) (*course.Course, error) {
	if err := validate.NotBlank("id", id); err != nil {
		return nil, err
	}
	return h.courses.FindByID(ctx, id)
}
