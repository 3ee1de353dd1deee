package student

import (
	"strings"
	"time"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - зарегистрированный студент.
type Student struct {
	// ID - уникальный идентификатор (UUID в строковом формате), неизменяем.
	ID string

	// Name - имя без ведущих и завершающих пробелов.
	Name string

	// Email - адрес в нижнем регистре, уникален без учёта регистра.
	Email string

	// BirthDate - дата рождения (UTC, полночь). Нулевое значение - не указана.
	BirthDate time.Time
}

// NewStudent создаёт студента с нормализованными именем и email.
func NewStudent(id, name, email string, birthDate time.Time) *Student {
	return &Student{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		BirthDate: birthDate,
	}
}

// NormalizeEmail приводит email к каноничному виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasBirthDate возвращает true, если дата рождения указана.
func (s *Student) HasBirthDate() bool {
	return !s.BirthDate.IsZero()
}

// HasEmail сравнивает email без учёта регистра.
func (s *Student) HasEmail(email string) bool {
	return strings.EqualFold(s.Email, strings.TrimSpace(email))
}

// Clone возвращает независимую копию.
func (s *Student) Clone() *Student {
	c := *s
	return &c
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - студент не найден.
	ErrStudentNotFound = shared.NewDomainError("student", "Find", shared.ErrNotFound, "student not found")

	// ErrEmailTaken - email уже используется другим студентом.
	ErrEmailTaken = shared.NewDomainError("student", "Create", shared.ErrAlreadyExists, "email already registered")

	// ErrStudentEnrolled - у студента есть записи на курсы, удаление запрещено.
	ErrStudentEnrolled = shared.NewDomainError("student", "Delete", shared.ErrReferenced, "student has enrollments")
)
