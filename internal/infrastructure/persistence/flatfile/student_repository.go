package flatfile

import (
	"context"

	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// StudentColumns is the header of the students resource.
var StudentColumns = []string{"id", "nombre", "email", "fechaNacimiento"}

// StudentSchema maps a student to id;nombre;email;fechaNacimiento.
var StudentSchema = Schema[*student.Student]{
	Columns: StudentColumns,
	Key:     func(s *student.Student) string { return s.ID },
	Encode: func(s *student.Student) []string {
		return []string{s.ID, s.Name, s.Email, timeutil.FormatDate(s.BirthDate)}
	},
	Decode: func(f []string) (*student.Student, error) {
		birth, err := parseOptionalDate("fechaNacimiento", f[3])
		if err != nil {
			return nil, err
		}
		return &student.Student{ID: f[0], Name: f[1], Email: f[2], BirthDate: birth}, nil
	},
	Clone: (*student.Student).Clone,
}

// StudentRepository implements student.Repository.
type StudentRepository struct {
	table *Table[*student.Student]
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository loads the students resource.
func NewStudentRepository(ctx context.Context, store LineStore, resource string, opts ...Option) (*StudentRepository, error) {
	table, err := OpenTable(ctx, store, resource, StudentSchema, opts...)
	if err != nil {
		return nil, err
	}
	return &StudentRepository{table: table}, nil
}

// FindAll returns every student in insertion order.
func (r *StudentRepository) FindAll(_ context.Context) ([]*student.Student, error) {
	return r.table.All(), nil
}

// FindByID returns the student with id.
func (r *StudentRepository) FindByID(_ context.Context, id string) (*student.Student, error) {
	s, ok := r.table.Get(id)
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return s, nil
}

// FindByEmail returns the student whose email matches, ignoring case.
func (r *StudentRepository) FindByEmail(_ context.Context, email string) (*student.Student, error) {
	found := r.table.Filter(func(s *student.Student) bool { return s.HasEmail(email) })
	if len(found) == 0 {
		return nil, student.ErrStudentNotFound
	}
	return found[0], nil
}

// Save inserts or replaces s.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) (*student.Student, error) {
	return r.table.Put(ctx, s)
}

// Update is identical to Save.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) (*student.Student, error) {
	return r.table.Put(ctx, s)
}

// Delete removes the student with id.
func (r *StudentRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.table.Remove(ctx, id)
}
