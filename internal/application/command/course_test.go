package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/shared"
)

func TestCreateCourse(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CreateCourseCommand
		wantErr func(error) bool
	}{
		{
			name: "valid",
			cmd:  CreateCourseCommand{Name: "Go", Type: "online", StartDate: "2024-01-01", EndDate: "2024-06-30", Price: 120.5},
		},
		{
			name: "same start and end",
			cmd:  CreateCourseCommand{Name: "Workshop", Type: "IN_PERSON", StartDate: "2024-05-01", EndDate: "2024-05-01"},
		},
		{
			name: "legacy type spelling",
			cmd:  CreateCourseCommand{Name: "Taller", Type: "PRESENCIAL", StartDate: "2024-05-01", EndDate: "2024-05-02"},
		},
		{
			name:    "end before start",
			cmd:     CreateCourseCommand{Name: "Go", Type: "ONLINE", StartDate: "2024-06-30", EndDate: "2024-01-01"},
			wantErr: shared.IsDomainValidation,
		},
		{
			name:    "blank name",
			cmd:     CreateCourseCommand{Name: "", Type: "ONLINE", StartDate: "2024-01-01", EndDate: "2024-06-30"},
			wantErr: shared.IsInputValidation,
		},
		{
			name:    "negative price",
			cmd:     CreateCourseCommand{Name: "Go", Type: "ONLINE", StartDate: "2024-01-01", EndDate: "2024-06-30", Price: -1},
			wantErr: shared.IsInputValidation,
		},
		{
			name:    "unknown type",
			cmd:     CreateCourseCommand{Name: "Go", Type: "HYBRID", StartDate: "2024-01-01", EndDate: "2024-06-30"},
			wantErr: shared.IsInputValidation,
		},
		{
			name:    "malformed date",
			cmd:     CreateCourseCommand{Name: "Go", Type: "ONLINE", StartDate: "2024-13-01", EndDate: "2024-06-30"},
			wantErr: shared.IsInputValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			c, err := env.createCourse.Handle(context.Background(), tt.cmd)
			all, _ := env.courses.FindAll(context.Background())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error kind: %v", err)
				assert.Empty(t, all)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, c.ID)
			assert.Equal(t, tt.cmd.Price, c.Price)
			assert.Len(t, all, 1)
			assert.Equal(t, []shared.EventType{shared.EventCourseCreated}, env.events.types())
		})
	}
}

func TestCreateCourse_InvalidWindowKind(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.createCourse.Handle(context.Background(), CreateCourseCommand{
		Name: "Go", Type: "ONLINE", StartDate: "2024-06-30", EndDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, course.ErrInvalidWindow)
	assert.Contains(t, shared.Message(err), "2024-01-01")
}

func TestDeleteCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	removed, err := env.deleteCourse.Handle(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = env.deleteCourse.Handle(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, []shared.EventType{shared.EventCourseCreated, shared.EventCourseDeleted}, env.events.types())
}

func TestDeleteCourse_RejectedWithEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.mustStudent(t, "Ana", "ana@example.com")
	c := env.mustCourse(t, "Go", "2024-01-01", "2024-06-30")

	e, err := env.enroll.Handle(ctx, EnrollStudentCommand{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)
	_, err = env.cancel.Handle(ctx, e.ID)
	require.NoError(t, err)

	// cancelled enrollments still reference the course
	_, err = env.deleteCourse.Handle(ctx, c.ID)
	assert.ErrorIs(t, err, course.ErrCourseHasEnrollments)

	_, err = env.courses.FindByID(ctx, c.ID)
	assert.NoError(t, err)
}
