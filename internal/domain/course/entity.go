// Package course содержит доменную модель курса.
package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет формат проведения курса.
type Type string

const (
	// TypeOnline - дистанционный курс.
	TypeOnline Type = "ONLINE"
	// TypeInPerson - очный курс.
	TypeInPerson Type = "IN_PERSON"
)

// legacyTypes - названия, которые записывала старая версия программы.
var legacyTypes = map[string]Type{
	"PRESENCIAL": TypeInPerson,
}

// IsValid проверяет, что тип корректен.
func (t Type) IsValid() bool {
	return t == TypeOnline || t == TypeInPerson
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// ParseType разбирает тип без учёта регистра.
func ParseType(s string) (Type, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	t := Type(key)
	if t.IsValid() {
		return t, nil
	}
	if legacy, ok := legacyTypes[key]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("unknown course type %q (expected %s or %s)", s, TypeOnline, TypeInPerson)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: COURSE
// ══════════════════════════════════════════════════════════════════════════════

// Course - учебный курс с окном дат и ценой.
// Нулевые StartDate/EndDate означают, что граница не задана.
type Course struct {
	ID        string
	Name      string
	Type      Type // пустой - не указан
	StartDate time.Time
	EndDate   time.Time
	Price     float64
}

// HasStart возвращает true, если задана дата начала.
func (c *Course) HasStart() bool { return !c.StartDate.IsZero() }

// HasEnd возвращает true, если задана дата окончания.
func (c *Course) HasEnd() bool { return !c.EndDate.IsZero() }

// ValidWindow проверяет, что окончание не раньше начала.
// Курс без одной из границ считается корректным.
func (c *Course) ValidWindow() bool {
	if !c.HasStart() || !c.HasEnd() {
		return true
	}
	return !c.EndDate.Before(c.StartDate)
}

// Accepts проверяет, попадает ли дата в окно курса (границы включены).
func (c *Course) Accepts(date time.Time) bool {
	if c.HasStart() && date.Before(c.StartDate) {
		return false
	}
	if c.HasEnd() && date.After(c.EndDate) {
		return false
	}
	return true
}

// EndedBefore возвращает true, если курс закончился строго раньше day.
func (c *Course) EndedBefore(day time.Time) bool {
	return c.HasEnd() && c.EndDate.Before(day)
}

// Clone возвращает независимую копию.
func (c *Course) Clone() *Course {
	cp := *c
	return &cp
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrCourseNotFound - курс не найден.
	ErrCourseNotFound = shared.NewDomainError("course", "Find", shared.ErrNotFound, "course not found")

	// ErrInvalidWindow - дата окончания раньше даты начала.
	ErrInvalidWindow = shared.NewDomainError("course", "Create", shared.ErrDomainValidation, "end date cannot be before start date")

	// ErrCourseHasEnrollments - на курс ссылаются записи, удаление запрещено.
	ErrCourseHasEnrollments = shared.NewDomainError("course", "Delete", shared.ErrReferenced, "course has enrollments")
)
