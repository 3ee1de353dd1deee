package http

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/alem-hub/course-registry/internal/application/command"
	"github.com/alem-hub/course-registry/internal/application/query"
	"github.com/alem-hub/course-registry/internal/domain/enrollment"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

type enrollRequest struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`

	// Date is yyyy-MM-dd; empty means today.
	Date string `json:"date"`
}

type enrollmentResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name,omitempty"`
	EnrollDate  string `json:"enroll_date"`
	Status      string `json:"status"`
}

func toEnrollmentResponse(e *enrollment.Enrollment) enrollmentResponse {
	return enrollmentResponse{
		ID:         e.ID,
		StudentID:  e.StudentID,
		CourseID:   e.CourseID,
		EnrollDate: timeutil.FormatDate(e.EnrollDate),
		Status:     e.Status.String(),
	}
}

func fromView(v query.EnrollmentView) enrollmentResponse {
	return enrollmentResponse{
		ID:          v.ID,
		StudentID:   v.StudentID,
		StudentName: v.StudentName,
		CourseID:    v.CourseID,
		CourseName:  v.CourseName,
		EnrollDate:  timeutil.FormatDate(v.EnrollDate),
		Status:      v.Status.String(),
	}
}

func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.listEnrollments(w, r, query.ListEnrollmentsQuery{
		StudentID: q.Get("student_id"),
		CourseID:  q.Get("course_id"),
		Status:    q.Get("status"),
	})
}

func (s *Server) listEnrollments(w http.ResponseWriter, r *http.Request, q query.ListEnrollmentsQuery) {
	views, err := s.deps.ListEnrollments.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, "list_enrollments", err)
		return
	}
	out := make([]enrollmentResponse, len(views))
	for i, v := range views {
		out[i] = fromView(v)
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	v, err := s.deps.GetEnrollment.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "get_enrollment", err)
		return
	}
	writeData(w, r, http.StatusOK, fromView(*v))
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if !s.decode(w, r, &req) {
		return
	}

	e, err := s.deps.EnrollStudent.Handle(r.Context(), command.EnrollStudentCommand{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      req.Date,
	})
	if err != nil {
		s.writeDomainError(w, r, "enroll_student", err)
		return
	}
	writeData(w, r, http.StatusCreated, toEnrollmentResponse(e))
}

func (s *Server) handleCancelEnrollment(w http.ResponseWriter, r *http.Request) {
	e, err := s.deps.CancelEnrollment.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "cancel_enrollment", err)
		return
	}
	writeData(w, r, http.StatusOK, toEnrollmentResponse(e))
}

func (s *Server) handleDeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	removed, err := s.deps.DeleteEnrollment.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "delete_enrollment", err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]bool{"deleted": removed})
}

func (s *Server) handleCompleteEnrollments(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CompleteEnrollments.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, "complete_enrollments", err)
		return
	}
	out := make([]enrollmentResponse, len(result.Completed))
	for i, e := range result.Completed {
		out[i] = toEnrollmentResponse(e)
	}
	writeData(w, r, http.StatusOK, map[string]any{
		"completed_count": len(out),
		"completed":       out,
	})
}
