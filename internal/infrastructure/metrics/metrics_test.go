package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Persist(t *testing.T) {
	m := New()
	m.ObservePersist("alumnos.csv", 3, 5*time.Millisecond, nil)
	m.ObservePersist("alumnos.csv", 3, time.Millisecond, errors.New("disk full"))

	out := scrape(t, m)
	assert.Contains(t, out, `course_registry_persist_total{resource="alumnos.csv",result="ok"} 1`)
	assert.Contains(t, out, `course_registry_persist_total{resource="alumnos.csv",result="error"} 1`)
	assert.Contains(t, out, `course_registry_records{resource="alumnos.csv"} 3`)
	assert.Contains(t, out, `course_registry_persist_duration_seconds_count{resource="alumnos.csv"} 2`)
}

func TestMetrics_Jobs(t *testing.T) {
	m := New()
	m.ObserveJob("complete_enrollments", time.Millisecond, nil)
	m.ObserveJob("complete_enrollments", time.Millisecond, errors.New("storage down"))

	out := scrape(t, m)
	assert.Contains(t, out, `course_registry_job_runs_total{job="complete_enrollments",result="ok"} 1`)
	assert.Contains(t, out, `course_registry_job_runs_total{job="complete_enrollments",result="error"} 1`)
}

func TestMetrics_Events(t *testing.T) {
	m := New()
	ctx := context.Background()
	require.NoError(t, m.CountEvent(ctx, shared.NewCourseEvent(shared.EventCourseCreated, "c1", "Go")))
	require.NoError(t, m.CountEvent(ctx, shared.NewCourseEvent(shared.EventCourseCreated, "c2", "SQL")))

	assert.Contains(t, scrape(t, m), `course_registry_domain_events_total{type="course.created"} 2`)
}

func TestMetrics_Requests(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/v1/students/{id}", http.StatusNotFound, time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `course_registry_http_requests_total{code="404",method="GET",route="/api/v1/students/{id}"} 1`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
