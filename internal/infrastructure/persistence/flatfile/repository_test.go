package flatfile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

func TestStudentRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	repo, err := NewStudentRepository(ctx, store, "alumnos.csv")
	require.NoError(t, err)

	ana := student.NewStudent("s1", "Ana", "ana@example.com", timeutil.Date(2000, time.May, 1))
	bob := student.NewStudent("s2", "Bob", "bob@example.com", time.Time{})
	_, err = repo.Save(ctx, ana)
	require.NoError(t, err)
	_, err = repo.Save(ctx, bob)
	require.NoError(t, err)

	lines, err := store.ReadLines(ctx, "alumnos.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id;nombre;email;fechaNacimiento",
		"s1;Ana;ana@example.com;2000-05-01",
		"s2;Bob;bob@example.com;",
	}, lines)

	reloaded, err := NewStudentRepository(ctx, store, "alumnos.csv")
	require.NoError(t, err)
	all, err := reloaded.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*student.Student{ana, bob}, all)
}

func TestStudentRepository_FindByEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo, err := NewStudentRepository(ctx, newMemStore(), "alumnos.csv")
	require.NoError(t, err)

	_, err = repo.Save(ctx, student.NewStudent("s1", "Ana", "ana@example.com", time.Time{}))
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "ANA@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "s1", found.ID)

	_, err = repo.FindByEmail(ctx, "other@example.com")
	assert.True(t, shared.IsNotFound(err))
}

func TestStudentRepository_SaveReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	repo, err := NewStudentRepository(ctx, newMemStore(), "alumnos.csv")
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.Save(ctx, student.NewStudent(id, id, id+"@x.com", time.Time{}))
		require.NoError(t, err)
	}

	_, err = repo.Update(ctx, student.NewStudent("b", "Beatriz", "b@x.com", time.Time{}))
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "Beatriz", all[1].Name)
}

func TestStudentRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo, err := NewStudentRepository(ctx, newMemStore(), "alumnos.csv")
	require.NoError(t, err)

	s := student.NewStudent("s1", "Ana", "ana@x.com", time.Time{})
	_, err = repo.Save(ctx, s)
	require.NoError(t, err)

	s.Name = "changed after save"
	found, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.Name)

	found.Name = "changed after find"
	again, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo, err := NewCourseRepository(ctx, store, "cursos.csv")
	require.NoError(t, err)

	_, err = repo.Save(ctx, &course.Course{ID: "c1", Name: "Go"})
	require.NoError(t, err)
	writes := store.writes

	removed, err := repo.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, writes+1, store.writes)

	removed, err = repo.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, writes+1, store.writes, "no rewrite when nothing was removed")

	_, err = repo.FindByID(ctx, "c1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCourseRepository_RoundTripAndDefaults(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.data["cursos.csv"] = []string{
		"id;nombre;tipo;fechaInicio;fechaFin;precio",
		"c1;Go;ONLINE;2024-01-01;2024-06-30;99.5",
		"",
		"c2;Java;;;;",
		"c3;SQL;PRESENCIAL;2024-02-01;2024-02-01;100.0",
	}

	repo, err := NewCourseRepository(ctx, store, "cursos.csv")
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, &course.Course{
		ID:        "c1",
		Name:      "Go",
		Type:      course.TypeOnline,
		StartDate: timeutil.Date(2024, time.January, 1),
		EndDate:   timeutil.Date(2024, time.June, 30),
		Price:     99.5,
	}, all[0])
	assert.Equal(t, &course.Course{ID: "c2", Name: "Java"}, all[1])
	assert.Equal(t, course.TypeInPerson, all[2].Type)
	assert.Equal(t, 100.0, all[2].Price)

	// persisting writes canonical values
	_, err = repo.Update(ctx, all[2])
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id;nombre;tipo;fechaInicio;fechaFin;precio",
		"c1;Go;ONLINE;2024-01-01;2024-06-30;99.5",
		"c2;Java;;;;0",
		"c3;SQL;IN_PERSON;2024-02-01;2024-02-01;100",
	}, store.data["cursos.csv"])
}

func TestEnrollmentRepository_LoadDefaultsAndFilters(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.data["matriculas.csv"] = []string{
		"e1;s1;c1;2024-03-15;",
		"e2;s2;c1;2024-03-16;ANULADA",
		"e3;s1;c2;;COMPLETED",
	}

	repo, err := NewEnrollmentRepository(ctx, store, "matriculas.csv")
	require.NoError(t, err)

	e1, err := repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, e1.Status)
	assert.Equal(t, timeutil.Date(2024, time.March, 15), e1.EnrollDate)

	byStudent, err := repo.FindByStudentID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, byStudent, 2)
	assert.Equal(t, "e1", byStudent[0].ID)
	assert.Equal(t, "e3", byStudent[1].ID)
	assert.True(t, byStudent[1].EnrollDate.IsZero())

	byCourse, err := repo.FindByCourseID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCourse, 2)
	assert.Equal(t, enrollment.StatusCancelled, byCourse[1].Status)
}

func TestRepository_EmptyStoreBootstrap(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	students, err := NewStudentRepository(ctx, store, "alumnos.csv")
	require.NoError(t, err)
	courses, err := NewCourseRepository(ctx, store, "cursos.csv")
	require.NoError(t, err)
	enrollments, err := NewEnrollmentRepository(ctx, store, "matriculas.csv")
	require.NoError(t, err)

	s, _ := students.FindAll(ctx)
	c, _ := courses.FindAll(ctx)
	e, _ := enrollments.FindAll(ctx)
	assert.Empty(t, s)
	assert.Empty(t, c)
	assert.Empty(t, e)

	_, err = students.Save(ctx, student.NewStudent("s1", "Ana", "ana@x.com", time.Time{}))
	require.NoError(t, err)

	lines, err := store.ReadLines(ctx, "alumnos.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id;nombre;email;fechaNacimiento", "s1;Ana;ana@x.com;"}, lines)
}

func TestRepository_CorruptRecordFailsLoad(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		lines    []string
		open     func(ctx context.Context, store LineStore, resource string) error
		contains string
	}{
		{
			name:     "bad student date",
			resource: "alumnos.csv",
			lines:    []string{"id;nombre;email;fechaNacimiento", "s1;Ana;a@x.com;01/05/2000"},
			open:     openStudents,
			contains: "line 2",
		},
		{
			name:     "wrong arity",
			resource: "alumnos.csv",
			lines:    []string{"s1;Ana;a@x.com"},
			open:     openStudents,
			contains: "expected 4 fields, got 3",
		},
		{
			name:     "unknown course type",
			resource: "cursos.csv",
			lines:    []string{"c1;Go;HYBRID;;;"},
			open:     openCourses,
			contains: "tipo",
		},
		{
			name:     "bad price",
			resource: "cursos.csv",
			lines:    []string{"c1;Go;ONLINE;;;cheap"},
			open:     openCourses,
			contains: "precio",
		},
		{
			name:     "unknown status",
			resource: "matriculas.csv",
			lines:    []string{"e1;s1;c1;2024-01-01;PAUSED"},
			open:     openEnrollments,
			contains: "estado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.data[tt.resource] = tt.lines

			err := tt.open(context.Background(), store, tt.resource)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrCorruptRecord)
			assert.True(t, shared.IsStorage(err))
			assert.Contains(t, err.Error(), tt.resource)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestRepository_HeaderOnlySkippedOnFirstLine(t *testing.T) {
	store := newMemStore()
	store.data["alumnos.csv"] = []string{"s1;Ana;a@x.com;", "id;nombre;email;"}

	repo, err := NewStudentRepository(context.Background(), store, "alumnos.csv")
	require.NoError(t, err)

	all, _ := repo.FindAll(context.Background())
	require.Len(t, all, 2, "a header-like line after the first is data")
	assert.Equal(t, "id", all[1].ID)
}

func TestRepository_FailedPersistLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	obs := &recordingObserver{}

	repo, err := NewEnrollmentRepository(ctx, store, "matriculas.csv", WithObserver(obs))
	require.NoError(t, err)

	_, err = repo.Save(ctx, enrollment.NewEnrollment("e1", "s1", "c1", time.Time{}))
	require.NoError(t, err)

	store.failNext = errDiskFull
	cancelled := enrollment.NewEnrollment("e1", "s1", "c1", time.Time{})
	cancelled.Status = enrollment.StatusCancelled
	_, err = repo.Update(ctx, cancelled)
	require.Error(t, err)
	assert.True(t, shared.IsStorage(err))
	assert.ErrorIs(t, err, errDiskFull)

	found, err := repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, found.Status)

	store.failNext = errDiskFull
	removed, err := repo.Delete(ctx, "e1")
	require.Error(t, err)
	assert.False(t, removed)
	all, _ := repo.FindAll(ctx)
	assert.Len(t, all, 1)

	require.Len(t, obs.calls, 3)
	assert.NoError(t, obs.calls[0])
	assert.Error(t, obs.calls[1])
}

func openStudents(ctx context.Context, store LineStore, resource string) error {
	_, err := NewStudentRepository(ctx, store, resource)
	return err
}

func openCourses(ctx context.Context, store LineStore, resource string) error {
	_, err := NewCourseRepository(ctx, store, resource)
	return err
}

func openEnrollments(ctx context.Context, store LineStore, resource string) error {
	_, err := NewEnrollmentRepository(ctx, store, resource)
	return err
}

func TestEnrollmentRepository_Atomically(t *testing.T) {
	ctx := context.Background()
	repo, err := NewEnrollmentRepository(ctx, newMemStore(), "matriculas.csv")
	require.NoError(t, err)

	boom := errors.New("boom")
	assert.ErrorIs(t, repo.Atomically(ctx, func(context.Context) error { return boom }), boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	called := false
	err = repo.Atomically(cancelled, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)

	// a read-modify-write under the lock never loses an increment
	_, err = repo.Save(ctx, enrollment.NewEnrollment("e1", "s1", "c1", time.Time{}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Atomically(ctx, func(ctx context.Context) error {
				e, err := repo.FindByID(ctx, "e1")
				if err != nil {
					return err
				}
				e.StudentID += "+"
				_, err = repo.Update(ctx, e)
				return err
			}))
		}()
	}
	wg.Wait()

	e, err := repo.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "s1++++++++++", e.StudentID)
}
