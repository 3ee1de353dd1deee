package console

import (
	"fmt"
	"strconv"

	"github.com/alem-hub/course-registry/internal/application/query"
	"github.com/alem-hub/course-registry/internal/domain/course"
	"github.com/alem-hub/course-registry/internal/domain/student"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

const none = "-"

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

// formatStudent renders one student per line.
func formatStudent(s *student.Student) string {
	return fmt.Sprintf("%s | %s | %s | born %s",
		s.ID, s.Name, s.Email, orNone(timeutil.FormatDate(s.BirthDate)))
}

// formatCourse renders one course per line.
func formatCourse(c *course.Course) string {
	return fmt.Sprintf("%s | %s | %s | %s .. %s | %s",
		c.ID,
		c.Name,
		orNone(c.Type.String()),
		orNone(timeutil.FormatDate(c.StartDate)),
		orNone(timeutil.FormatDate(c.EndDate)),
		strconv.FormatFloat(c.Price, 'f', 2, 64),
	)
}

// formatEnrollment renders one enrollment per line. Names are shown next
// to the ids when the referenced records exist.
func formatEnrollment(v query.EnrollmentView) string {
	return fmt.Sprintf("%s | %s | %s | %s | %s",
		v.ID,
		withName(v.StudentID, v.StudentName),
		withName(v.CourseID, v.CourseName),
		timeutil.FormatDate(v.EnrollDate),
		v.Status,
	)
}

func withName(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", id, name)
}
