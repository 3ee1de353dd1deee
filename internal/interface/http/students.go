package http

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/alem-hub/course-registry/internal/application/command"
	"github.com/alem-hub/course-registry/internal/application/query"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

type createStudentRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
}

type studentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date,omitempty"`
}

func toStudentResponse(s *student.Student) studentResponse {
	return studentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		BirthDate: timeutil.FormatDate(s.BirthDate),
	}
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.ListStudents.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, "list_students", err)
		return
	}
	out := make([]studentResponse, len(list))
	for i, st := range list {
		out[i] = toStudentResponse(st)
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.GetStudent.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "get_student", err)
		return
	}
	writeData(w, r, http.StatusOK, toStudentResponse(st))
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if !s.decode(w, r, &req) {
		return
	}

	st, err := s.deps.CreateStudent.Handle(r.Context(), command.CreateStudentCommand{
		Name:      req.Name,
		Email:     req.Email,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		s.writeDomainError(w, r, "create_student", err)
		return
	}
	writeData(w, r, http.StatusCreated, toStudentResponse(st))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	removed, err := s.deps.DeleteStudent.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "delete_student", err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]bool{"deleted": removed})
}

func (s *Server) handleStudentEnrollments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.deps.GetStudent.Handle(r.Context(), id); err != nil {
		s.writeDomainError(w, r, "student_enrollments", err)
		return
	}
	s.listEnrollments(w, r, query.ListEnrollmentsQuery{
		StudentID: id,
		Status:    r.URL.Query().Get("status"),
	})
}
