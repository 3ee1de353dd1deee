package enrollment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

var testDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "ACTIVE", want: StatusActive},
		{in: "cancelled", want: StatusCancelled},
		{in: " COMPLETED ", want: StatusCompleted},
		{in: "ACTIVA", want: StatusActive},
		{in: "ANULADA", want: StatusCancelled},
		{in: "FINALIZADA", want: StatusCompleted},
		{in: "PAUSED", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnrollment_Cancel(t *testing.T) {
	e := NewEnrollment("e1", "s1", "c1", testDate)
	e.Cancel()
	assert.Equal(t, StatusCancelled, e.Status)

	// second cancel is a no-op
	e.Cancel()
	assert.Equal(t, StatusCancelled, e.Status)
}

func TestEnrollment_CancelCompleted(t *testing.T) {
	e := NewEnrollment("e1", "s1", "c1", testDate)
	require.NoError(t, e.Complete())

	e.Cancel()
	assert.Equal(t, StatusCancelled, e.Status)
}

func TestEnrollment_CompleteOnlyFromActive(t *testing.T) {
	cancelled := NewEnrollment("e1", "s1", "c1", testDate)
	cancelled.Cancel()
	err := cancelled.Complete()
	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	completed := NewEnrollment("e2", "s1", "c1", testDate)
	require.NoError(t, completed.Complete())
	assert.ErrorIs(t, completed.Complete(), shared.ErrStateTransition)
}

func TestErrInvalidTransition_MessageNamesNoStatus(t *testing.T) {
	cancelled := NewEnrollment("e1", "s1", "c1", testDate)
	cancelled.Cancel()

	msg := shared.Message(cancelled.Complete())
	for _, status := range []Status{StatusActive, StatusCancelled, StatusCompleted} {
		assert.NotContains(t, strings.ToUpper(msg), status.String())
	}
	assert.NotContains(t, msg, "completed")
	assert.NotContains(t, msg, "cancelled")
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
}
