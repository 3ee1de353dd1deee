package http

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/alem-hub/course-registry/internal/application/command"
	"github.com/alem-hub/course-registry/internal/application/query"
	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

type createCourseRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Price     float64 `json:"price"`
}

type courseResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
	Price     float64 `json:"price"`
}

func toCourseResponse(c *course.Course) courseResponse {
	return courseResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type.String(),
		StartDate: timeutil.FormatDate(c.StartDate),
		EndDate:   timeutil.FormatDate(c.EndDate),
		Price:     c.Price,
	}
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.ListCourses.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, "list_courses", err)
		return
	}
	out := make([]courseResponse, len(list))
	for i, c := range list {
		out[i] = toCourseResponse(c)
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.GetCourse.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "get_course", err)
		return
	}
	writeData(w, r, http.StatusOK, toCourseResponse(c))
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if !s.decode(w, r, &req) {
		return
	}

	c, err := s.deps.CreateCourse.Handle(r.Context(), command.CreateCourseCommand{
		Name:      req.Name,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Price:     req.Price,
	})
	if err != nil {
		s.writeDomainError(w, r, "create_course", err)
		return
	}
	writeData(w, r, http.StatusCreated, toCourseResponse(c))
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	removed, err := s.deps.DeleteCourse.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, "delete_course", err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]bool{"deleted": removed})
}

func (s *Server) handleCourseEnrollments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.deps.GetCourse.Handle(r.Context(), id); err != nil {
		s.writeDomainError(w, r, "course_enrollments", err)
		return
	}
	s.listEnrollments(w, r, query.ListEnrollmentsQuery{
		CourseID: id,
		Status:   r.URL.Query().Get("status"),
	})
}
