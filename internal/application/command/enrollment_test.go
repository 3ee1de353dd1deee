package command

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
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

func TestEnrollStudent_CourseWindow(t *testing.T) {
	tests := []struct {
		name string
		date string
		ok   bool
	}{
		{name: "inside", date: "2024-03-15", ok: true},
		{name: "first day", date: "2024-01-01", ok: true},
		{name: "last day", date: "2024-06-30", ok: true},
		{name: "day before start", date: "2023-12-31"},
		{name: "day after end", date: "2024-07-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			s := env.mustStudent(t, "Ana", "ana@example.com")
			c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

			e, err := env.enroll.Handle(context.Background(), EnrollStudentCommand{
				StudentID: s.ID, CourseID: c.ID, Date: tt.date,
			})

			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrOutOfWindow)
				assert.ErrorIs(t, err, enrollment.ErrOutsideCourseWindow)
				assert.True(t, shared.IsDomainValidation(err))
				all, _ := env.enrollments.FindAll(context.Background())
				assert.Empty(t, all)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, enrollment.StatusActive, e.Status)
			assert.Equal(t, tt.date, timeutil.FormatDate(e.EnrollDate))
		})
	}
}

func TestEnrollStudent_UnboundedCourseAcceptsAnyDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")

	open, err := env.courses.Save(ctx, &course.Course{ID: "c-open", Name: "Open"})
	require.NoError(t, err)

	for _, date := range []string{"1999-01-01", "2099-12-31"} {
		e, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: open.ID, Date: date})
		require.NoError(t, err)
		_, err = env.cancel.Handle(ctx, e.ID)
		require.NoError(t, err)
	}
}

func TestEnrollStudent_DefaultsToToday(t *testing.T) {
	env := newTestEnv(t)
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	e, err := env.enroll.Handle(context.Background(), EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, testToday, e.EnrollDate)
}

func TestEnrollStudent_References(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	_, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: "missing", CourseID: c.ID})
	assert.True(t, shared.IsNotFound(err))

	_, err = env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: "missing"})
	assert.True(t, shared.IsNotFound(err))

	_, err = env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: "", CourseID: c.ID})
	assert.True(t, shared.IsInputValidation(err))

	_, err = env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID, Date: "15/03/2024"})
	assert.True(t, shared.IsInputValidation(err))
}

func TestEnrollStudent_OneActivePerCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")
	cmd := EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID}

	first, err := env.enroll.Handle(ctx, cmd)
	require.NoError(t, err)

	_, err = env.enroll.Handle(ctx, cmd)
	assert.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)

	_, err = env.cancel.Handle(ctx, first.ID)
	require.NoError(t, err)

	again, err := env.enroll.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestCancelEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	e, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)

	cancelled, err := env.cancel.Handle(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCancelled, cancelled.Status)

	stored, err := env.enrollments.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCancelled, stored.Status)
	assert.Equal(t, e.EnrollDate, stored.EnrollDate)

	// the cancelled status reached the file
	reopened := env.reopenEnrollments(t)
	persisted, err := reopened.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCancelled, persisted.Status)
	assert.Equal(t, e.EnrollDate, persisted.EnrollDate)

	// repeated cancel is a no-op and emits nothing new
	_, err = env.cancel.Handle(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []shared.EventType{
		shared.EventStudentRegistered,
		shared.EventCourseCreated,
		shared.EventEnrollmentCreated,
		shared.EventEnrollmentCancelled,
	}, env.events.types())

	_, err = env.cancel.Handle(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, shared.IsDomainValidation(err))
	assert.True(t, shared.IsNotFound(err))
}

func TestCancelEnrollment_Completed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.enrollments.Save(ctx, &enrollment.Enrollment{
		ID: "e1", StudentID: "s1", CourseID: "c1",
		EnrollDate: timeutil.Date(2023, time.May, 1),
		Status:     enrollment.StatusCompleted,
	})
	require.NoError(t, err)

	cancelled, err := env.cancel.Handle(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCancelled, cancelled.Status)
	assert.Equal(t, []shared.EventType{shared.EventEnrollmentCancelled}, env.events.types())

	persisted, err := env.reopenEnrollments(t).FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCancelled, persisted.Status)
	assert.Equal(t, timeutil.Date(2023, time.May, 1), persisted.EnrollDate)
}

func TestCancelAndComplete_Concurrent(t *testing.T) {
	const rounds = 20
	ctx := context.Background()

	for i := 0; i < rounds; i++ {
		env := newTestEnv(t)
		s := env.mustStudent(t, "Ana", "ana@example.com")
		past := env.mustCourse(t, "Past", "2023-01-01", "2023-12-31")
		e, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: past.ID, Date: "2023-02-01"})
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			completed *CompleteEnrollmentsResult
			cancelErr error
			doneErr   error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = env.cancel.Handle(ctx, e.ID)
		}()
		go func() {
			defer wg.Done()
			completed, doneErr = env.complete.Handle(ctx)
		}()
		wg.Wait()
		require.NoError(t, cancelErr)
		require.NoError(t, doneErr)

		// cancel wins from either order; completion never overwrites it
		stored, err := env.reopenEnrollments(t).FindByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, enrollment.StatusCancelled, stored.Status)
		assert.LessOrEqual(t, len(completed.Completed), 1)
	}
}

func TestEnrollStudent_ConcurrentDuplicates(t *testing.T) {
	const workers = 8
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, enrollment.ErrAlreadyEnrolled):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dups)

	persisted, err := env.reopenEnrollments(t).FindByStudentID(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestDeleteStudent_RacesEnroll(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		env := newTestEnv(t)
		s := env.mustStudent(t, "Ana", "ana@example.com")
		c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID})
		}()
		go func() {
			defer wg.Done()
			_, _ = env.deleteStudent.Handle(ctx, s.ID)
		}()
		wg.Wait()

		// either the student survived with an enrollment or both are gone
		refs, err := env.enrollments.FindByStudentID(ctx, s.ID)
		require.NoError(t, err)
		_, err = env.students.FindByID(ctx, s.ID)
		if len(refs) > 0 {
			assert.NoError(t, err)
		} else {
			assert.True(t, shared.IsNotFound(err))
		}
	}
}

func TestDeleteEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	e, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)

	removed, err := env.deleteEnroll.Handle(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = env.deleteEnroll.Handle(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	// with the enrollment gone both sides can be deleted
	_, err = env.deleteStudent.Handle(ctx, s.ID)
	assert.NoError(t, err)
	_, err = env.deleteCourse.Handle(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCompleteEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")

	past := env.mustCourse(t, "Past", "2023-01-01", "2023-12-31")
	endsToday := env.mustCourse(t, "Today", "2024-01-01", "2024-03-15")
	running := env.mustCourse(t, "Running", "2024-01-01", "2024-06-30")

	pastActive, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: past.ID, Date: "2023-02-01"})
	require.NoError(t, err)
	pastCancelled, err := env.enrollments.Save(ctx, &enrollment.Enrollment{
		ID: "cancelled", StudentID: s.ID, CourseID: past.ID,
		EnrollDate: timeutil.Date(2023, time.March, 1), Status: enrollment.StatusCancelled,
	})
	require.NoError(t, err)
	todayActive, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: endsToday.ID})
	require.NoError(t, err)
	runningActive, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: running.ID})
	require.NoError(t, err)
	orphan, err := env.enrollments.Save(ctx, &enrollment.Enrollment{
		ID: "orphan", StudentID: s.ID, CourseID: "gone",
		EnrollDate: timeutil.Date(2020, time.January, 1), Status: enrollment.StatusActive,
	})
	require.NoError(t, err)

	result, err := env.complete.Handle(ctx)
	require.NoError(t, err)
	require.Len(t, result.Completed, 1)
	assert.Equal(t, pastActive.ID, result.Completed[0].ID)

	want := map[string]enrollment.Status{
		pastActive.ID:    enrollment.StatusCompleted,
		pastCancelled.ID: enrollment.StatusCancelled,
		todayActive.ID:   enrollment.StatusActive,
		runningActive.ID: enrollment.StatusActive,
		orphan.ID:        enrollment.StatusActive,
	}
	for id, status := range want {
		stored, err := env.enrollments.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, stored.Status, id)
	}

	// nothing left to complete
	result, err = env.complete.Handle(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Completed)
}
