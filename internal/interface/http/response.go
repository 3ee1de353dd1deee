package http

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

const (
	// StatusOK is the status value of a successful response.
	StatusOK = "OK"
	// StatusError is the status value of a failed response.
	StatusError = "Error"
)

// Response is the envelope of every JSON body.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// OKWithData returns a successful Response carrying data.
func OKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error returns a failed Response with msg.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, OKWithData(data))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// statusFor maps an error kind to an HTTP status code.
func statusFor(err error) int {
	switch {
	case shared.IsInputValidation(err):
		return http.StatusBadRequest
	case shared.IsNotFound(err):
		return http.StatusNotFound
	case shared.IsDomainValidation(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders err. Details of server-side failures stay in the log.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context(), s.log).Error("request failed", logger.Operation(op), logger.Err(err))
		writeError(w, r, status, "internal error")
		return
	}
	writeError(w, r, status, shared.Message(err))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
