package flatfile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// EnrollmentColumns is the header of the enrollments resource.
var EnrollmentColumns = []string{"id", "alumnoId", "cursoId", "fechaMatricula", "estado"}

// EnrollmentSchema maps an enrollment to id;alumnoId;cursoId;fechaMatricula;estado.
// An empty status reads as ACTIVE.
var EnrollmentSchema = Schema[*enrollment.Enrollment]{
	Columns: EnrollmentColumns,
	Key:     func(e *enrollment.Enrollment) string { return e.ID },
	Encode: func(e *enrollment.Enrollment) []string {
		return []string{e.ID, e.StudentID, e.CourseID, timeutil.FormatDate(e.EnrollDate), e.Status.String()}
	},
	Decode: func(f []string) (*enrollment.Enrollment, error) {
		date, err := parseOptionalDate("fechaMatricula", f[3])
		if err != nil {
			return nil, err
		}

		status := enrollment.StatusActive
		if strings.TrimSpace(f[4]) != "" {
			if status, err = enrollment.ParseStatus(f[4]); err != nil {
				return nil, fmt.Errorf("field estado: %w", err)
			}
		}

		return &enrollment.Enrollment{
			ID:         f[0],
			StudentID:  f[1],
			CourseID:   f[2],
			EnrollDate: date,
			Status:     status,
		}, nil
	},
	Clone: (*enrollment.Enrollment).Clone,
}

// EnrollmentRepository implements enrollment.Repository.
type EnrollmentRepository struct {
	table *Table[*enrollment.Enrollment]
	write sync.Mutex
}

var _ enrollment.Repository = (*EnrollmentRepository)(nil)

// NewEnrollmentRepository loads the enrollments resource.
func NewEnrollmentRepository(ctx context.Context, store LineStore, resource string, opts ...Option) (*EnrollmentRepository, error) {
	table, err := OpenTable(ctx, store, resource, EnrollmentSchema, opts...)
	if err != nil {
		return nil, err
	}
	return &EnrollmentRepository{table: table}, nil
}

// FindAll returns every enrollment in insertion order.
func (r *EnrollmentRepository) FindAll(_ context.Context) ([]*enrollment.Enrollment, error) {
	return r.table.All(), nil
}

// FindByID returns the enrollment with id.
func (r *EnrollmentRepository) FindByID(_ context.Context, id string) (*enrollment.Enrollment, error) {
	e, ok := r.table.Get(id)
	if !ok {
		return nil, enrollment.ErrEnrollmentNotFound
	}
	return e, nil
}

// FindByStudentID returns the enrollments of a student.
func (r *EnrollmentRepository) FindByStudentID(_ context.Context, studentID string) ([]*enrollment.Enrollment, error) {
	return r.table.Filter(func(e *enrollment.Enrollment) bool { return e.StudentID == studentID }), nil
}

// FindByCourseID returns the enrollments for a course.
func (r *EnrollmentRepository) FindByCourseID(_ context.Context, courseID string) ([]*enrollment.Enrollment, error) {
	return r.table.Filter(func(e *enrollment.Enrollment) bool { return e.CourseID == courseID }), nil
}

// Save inserts or replaces e.
func (r *EnrollmentRepository) Save(ctx context.Context, e *enrollment.Enrollment) (*enrollment.Enrollment, error) {
	return r.table.Put(ctx, e)
}

// Update is identical to Save.
func (r *EnrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) (*enrollment.Enrollment, error) {
	return r.table.Put(ctx, e)
}

// Delete removes the enrollment with id.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.table.Remove(ctx, id)
}

// Atomically runs fn while holding the repository write lock. Plain reads
// stay unblocked; only other Atomically calls wait.
func (r *EnrollmentRepository) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	r.write.Lock()
	defer r.write.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
