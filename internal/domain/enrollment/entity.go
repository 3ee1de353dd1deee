// Package enrollment содержит доменную модель записи студента на курс.
package enrollment

import (
	"fmt"
	"strings"
	"time"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status - состояние записи. ACTIVE -> COMPLETED; любое -> CANCELLED.
type Status string

const (
	// StatusActive - запись действует.
	StatusActive Status = "ACTIVE"
	// StatusCancelled - запись отменена.
	StatusCancelled Status = "CANCELLED"
	// StatusCompleted - курс пройден.
	StatusCompleted Status = "COMPLETED"
)

// legacyStatuses - названия, которые записывала старая версия программы.
var legacyStatuses = map[string]Status{
	"ACTIVA":     StatusActive,
	"ANULADA":    StatusCancelled,
	"FINALIZADA": StatusCompleted,
}

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal возвращает true, если запись уже не может быть завершена.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// ParseStatus разбирает статус без учёта регистра.
func ParseStatus(s string) (Status, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	st := Status(key)
	if st.IsValid() {
		return st, nil
	}
	if legacy, ok := legacyStatuses[key]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown enrollment status %q", s)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ENROLLMENT
// ══════════════════════════════════════════════════════════════════════════════

// Enrollment связывает студента и курс по их идентификаторам.
type Enrollment struct {
	ID         string
	StudentID  string
	CourseID   string
	EnrollDate time.Time // нулевое значение - не указана
	Status     Status
}

// NewEnrollment создаёт активную запись.
func NewEnrollment(id, studentID, courseID string, enrollDate time.Time) *Enrollment {
	return &Enrollment{
		ID:         id,
		StudentID:  studentID,
		CourseID:   courseID,
		EnrollDate: enrollDate,
		Status:     StatusActive,
	}
}

// IsActive возвращает true, если запись действует.
func (e *Enrollment) IsActive() bool {
	return e.Status == StatusActive
}

// Cancel переводит запись в CANCELLED из любого состояния,
// в том числе из COMPLETED. Повторная отмена ничего не меняет.
func (e *Enrollment) Cancel() {
	e.Status = StatusCancelled
}

// Complete переводит активную запись в COMPLETED.
func (e *Enrollment) Complete() error {
	if e.Status.IsTerminal() {
		return ErrInvalidTransition
	}
	e.Status = StatusCompleted
	return nil
}

// Clone возвращает независимую копию.
func (e *Enrollment) Clone() *Enrollment {
	c := *e
	return &c
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEnrollmentNotFound - запись не найдена.
	ErrEnrollmentNotFound = shared.NewDomainError("enrollment", "Find", shared.ErrNotFound, "enrollment not found")

	// ErrInvalidTransition - недопустимая смена статуса.
	ErrInvalidTransition = shared.NewDomainError("enrollment", "ChangeStatus", shared.ErrStateTransition, "enrollment status cannot change from its current state")

	// ErrAlreadyEnrolled - у студента уже есть активная запись на этот курс.
	ErrAlreadyEnrolled = shared.NewDomainError("enrollment", "Enroll", shared.ErrAlreadyExists, "student already has an active enrollment for this course")

	// ErrOutsideCourseWindow - дата записи вне окна курса.
	ErrOutsideCourseWindow = shared.NewDomainError("enrollment", "Enroll", shared.ErrOutOfWindow, "enrollment date is outside the course dates")
)
