package flatfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// CourseColumns is the header of the courses resource.
var CourseColumns = []string{"id", "nombre", "tipo", "fechaInicio", "fechaFin", "precio"}

// CourseSchema maps a course to id;nombre;tipo;fechaInicio;fechaFin;precio.
// An empty type stays unset and an empty price reads as zero.
var CourseSchema = Schema[*course.Course]{
	Columns: CourseColumns,
	Key:     func(c *course.Course) string { return c.ID },
	Encode: func(c *course.Course) []string {
		return []string{
			c.ID,
			c.Name,
			c.Type.String(),
			timeutil.FormatDate(c.StartDate),
			timeutil.FormatDate(c.EndDate),
			formatNumber(c.Price),
		}
	},
	Decode: decodeCourse,
	Clone:  (*course.Course).Clone,
}

func decodeCourse(f []string) (*course.Course, error) {
	c := &course.Course{ID: f[0], Name: f[1]}

	if strings.TrimSpace(f[2]) != "" {
		t, err := course.ParseType(f[2])
		if err != nil {
			return nil, fmt.Errorf("field tipo: %w", err)
		}
		c.Type = t
	}

	var err error
	if c.StartDate, err = parseOptionalDate("fechaInicio", f[3]); err != nil {
		return nil, err
	}
	if c.EndDate, err = parseOptionalDate("fechaFin", f[4]); err != nil {
		return nil, err
	}
	if c.Price, err = parseOptionalNumber("precio", f[5]); err != nil {
		return nil, err
	}
	return c, nil
}

// CourseRepository implements course.Repository.
type CourseRepository struct {
	table *Table[*course.Course]
}

var _ course.Repository = (*CourseRepository)(nil)

// NewCourseRepository loads the courses resource.
func NewCourseRepository(ctx context.Context, store LineStore, resource string, opts ...Option) (*CourseRepository, error) {
	table, err := OpenTable(ctx, store, resource, CourseSchema, opts...)
	if err != nil {
		return nil, err
	}
	return &CourseRepository{table: table}, nil
}

// FindAll returns every course in insertion order.
func (r *CourseRepository) FindAll(_ context.Context) ([]*course.Course, error) {
	return r.table.All(), nil
}

// FindByID returns the course with id.
func (r *CourseRepository) FindByID(_ context.Context, id string) (*course.Course, error) {
	c, ok := r.table.Get(id)
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return c, nil
}

// Save inserts or replaces c.
func (r *CourseRepository) Save(ctx context.Context, c *course.Course) (*course.Course, error) {
	return r.table.Put(ctx, c)
}

// Update is identical to Save.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) (*course.Course, error) {
	return r.table.Put(ctx, c)
}

// Delete removes the course with id.
func (r *CourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.table.Remove(ctx, id)
}
