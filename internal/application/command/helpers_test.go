package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/internal/infrastructure/persistence/flatfile"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// testEnv wires every handler over file-backed repositories in a temp dir.
type testEnv struct {
	store       *flatfile.FileStore
	students    *flatfile.StudentRepository
	courses     *flatfile.CourseRepository
	enrollments *flatfile.EnrollmentRepository
	events      *recordingPublisher

	createStudent *CreateStudentHandler
	deleteStudent *DeleteStudentHandler
	createCourse  *CreateCourseHandler
	deleteCourse  *DeleteCourseHandler
	enroll        *EnrollStudentHandler
	cancel        *CancelEnrollmentHandler
	deleteEnroll  *DeleteEnrollmentHandler
	complete      *CompleteEnrollmentsHandler
}

var testToday = timeutil.Date(2024, time.March, 15)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := flatfile.NewFileStore(t.TempDir())

	students, err := flatfile.NewStudentRepository(ctx, store, "alumnos.csv")
	require.NoError(t, err)
	courses, err := flatfile.NewCourseRepository(ctx, store, "cursos.csv")
	require.NoError(t, err)
	enrollments, err := flatfile.NewEnrollmentRepository(ctx, store, "matriculas.csv")
	require.NoError(t, err)

	clock := timeutil.FixedClock(testToday.Add(10 * time.Hour))
	events := &recordingPublisher{}

	return &testEnv{
		store:         store,
		students:      students,
		courses:       courses,
		enrollments:   enrollments,
		events:        events,
		createStudent: NewCreateStudentHandler(students, events, nil),
		deleteStudent: NewDeleteStudentHandler(students, enrollments, events, nil),
		createCourse:  NewCreateCourseHandler(courses, events, nil),
		deleteCourse:  NewDeleteCourseHandler(courses, enrollments, events, nil),
		enroll:        NewEnrollStudentHandler(students, courses, enrollments, clock, events, nil),
		cancel:        NewCancelEnrollmentHandler(enrollments, events, nil),
		deleteEnroll:  NewDeleteEnrollmentHandler(enrollments, events, nil),
		complete:      NewCompleteEnrollmentsHandler(courses, enrollments, clock, events, nil),
	}
}

// reopenEnrollments loads the enrollments resource again from the store.
func (e *testEnv) reopenEnrollments(t *testing.T) *flatfile.EnrollmentRepository {
	t.Helper()
	repo, err := flatfile.NewEnrollmentRepository(context.Background(), e.store, "matriculas.csv")
	require.NoError(t, err)
	return repo
}

func (e *testEnv) mustStudent(t *testing.T, name, email string) *student.Student {
	t.Helper()
	s, err := e.createStudent.Handle(context.Background(), CreateStudentCommand{Name: name, Email: email})
	require.NoError(t, err)
	return s
}

func (e *testEnv) mustCourse(t *testing.T, name, start, end string) *course.Course {
	t.Helper()
	c, err := e.createCourse.Handle(context.Background(), CreateCourseCommand{
		Name:      name,
		Type:      "ONLINE",
		StartDate: start,
		EndDate:   end,
		Price:     100,
	})
	require.NoError(t, err)
	return c
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event shared.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
