package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/course-registry/internal/application/validate"
	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT QUERIES
// Записи на курсы с именами студента и курса. Ссылки на удалённые записи
// не считаются ошибкой: имя просто остаётся пустым.
// ══════════════════════════════════════════════════════════════════════════════

// ListEnrollmentsQuery содержит фильтры. Пустое поле не фильтрует.
type ListEnrollmentsQuery struct {
	StudentID string
	CourseID  string

	// Status принимает те же написания, что и файл данных.
	Status string
}

// EnrollmentView - запись на курс для отображения.
type EnrollmentView struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name,omitempty"`
	CourseID    string            `json:"course_id"`
	CourseName  string            `json:"course_name,omitempty"`
	EnrollDate  time.Time         `json:"enroll_date"`
	Status      enrollment.Status `json:"status"`
}

// ListEnrollmentsHandler выполняет ListEnrollmentsQuery.
type ListEnrollmentsHandler struct {
	students    student.Repository
	courses     course.Repository
	enrollments enrollment.Repository
}

// NewListEnrollmentsHandler создаёт ListEnrollmentsHandler.
func NewListEnrollmentsHandler(
	students student.Repository,
	courses course.Repository,
	enrollments enrollment.Repository,
) *ListEnrollmentsHandler {
	return &ListEnrollmentsHandler{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
	}
}

// Handle возвращает записи, прошедшие все фильтры, в порядке хранения.
func (h *ListEnrollmentsHandler) Handle(ctx context.Context, q ListEnrollmentsQuery) ([]EnrollmentView, error) {
	var status enrollment.Status
	if q.Status != "" {
		st, err := enrollment.ParseStatus(q.Status)
		if err != nil {
			return nil, shared.WrapError("input", "ParseStatus", shared.ErrInputValidation,
				fmt.Sprintf("invalid status %q", q.Status), err)
		}
		status = st
	}

	var (
		list []*enrollment.Enrollment
		err  error
	)
	switch {
	case q.StudentID != "":
		list, err = h.enrollments.FindByStudentID(ctx, q.StudentID)
	case q.CourseID != "":
		list, err = h.enrollments.FindByCourseID(ctx, q.CourseID)
	default:
		list, err = h.enrollments.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	names := newNameResolver(h.students, h.courses)
	views := make([]EnrollmentView, 0, len(list))
	for _, e := range list {
		if q.CourseID != "" && e.CourseID != q.CourseID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		v, err := names.view(ctx, e)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// GetEnrollmentHandler возвращает одну запись.
type GetEnrollmentHandler struct {
	students    student.Repository
	courses     course.Repository
	enrollments enrollment.Repository
}

// NewGetEnrollmentHandler создаёт GetEnrollmentHandler.
func NewGetEnrollmentHandler(
	students student.Repository,
	courses course.Repository,
	enrollments enrollment.Repository,
) *GetEnrollmentHandler {
	return &GetEnrollmentHandler{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
	}
}

// Handle ищет запись по ID.
func (h *GetEnrollmentHandler) Handle(ctx context.Context, id string) (*EnrollmentView, error) {
	if err := validate.NotBlank("id", id); err != nil {
		return nil, err
	}
	e, err := h.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := newNameResolver(h.students, h.courses).view(ctx, e)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// nameResolver кэширует имена в пределах одного запроса.
type nameResolver struct {
	students student.Repository
	courses  course.Repository

	studentNames map[string]string
	courseNames  map[string]string
}

func newNameResolver(students student.Repository, courses course.Repository) *nameResolver {
	return &nameResolver{
		students:     students,
		courses:      courses,
		studentNames: make(map[string]string),
		courseNames:  make(map[string]string),
	}
}

func (r *nameResolver) view(ctx context.Context, e *enrollment.Enrollment) (EnrollmentView, error) {
	studentName, err := r.studentName(ctx, e.StudentID)
	if err != nil {
		return EnrollmentView{}, err
	}
	courseName, err := r.courseName(ctx, e.CourseID)
	if err != nil {
		return EnrollmentView{}, err
	}
	return EnrollmentView{
		ID:          e.ID,
		StudentID:   e.StudentID,
		StudentName: studentName,
		CourseID:    e.CourseID,
		CourseName:  courseName,
		EnrollDate:  e.EnrollDate,
		Status:      e.Status,
	}, nil
}

func (r *nameResolver) studentName(ctx context.Context, id string) (string, error) {
	if name, ok := r.studentNames[id]; ok {
		return name, nil
	}
	s, err := r.students.FindByID(ctx, id)
	switch {
	case err == nil:
		r.studentNames[id] = s.Name
	case shared.IsNotFound(err):
		r.studentNames[id] = ""
	default:
		return "", err
	}
	return r.studentNames[id], nil
}

func (r *nameResolver) courseName(ctx context.Context, id string) (string, error) {
	if name, ok := r.courseNames[id]; ok {
		return name, nil
	}
	c, err := r.courses.FindByID(ctx, id)
	switch {
	case err == nil:
		r.courseNames[id] = c.Name
	case shared.IsNotFound(err):
		r.courseNames[id] = ""
	default:
		return "", err
	}
	return r.courseNames[id], nil
}
