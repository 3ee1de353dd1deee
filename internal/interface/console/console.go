// Package console implements the interactive text menu over students,
// courses and enrollments.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alem-hub/course-registry/internal/application/command"
	"github.com/alem-hub/course-registry/internal/application/query"
	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Handlers contains the application handlers the menus call.
type Handlers struct {
	CreateStudent       *command.CreateStudentHandler
	DeleteStudent       *command.DeleteStudentHandler
	CreateCourse        *command.CreateCourseHandler
	DeleteCourse        *command.DeleteCourseHandler
	EnrollStudent       *command.EnrollStudentHandler
	CancelEnrollment    *command.CancelEnrollmentHandler
	DeleteEnrollment    *command.DeleteEnrollmentHandler
	CompleteEnrollments *command.CompleteEnrollmentsHandler

	ListStudents    *query.ListStudentsHandler
	ListCourses     *query.ListCoursesHandler
	ListEnrollments *query.ListEnrollmentsHandler
}

// Console runs the menu loop.
type Console struct {
	in  LineReader
	out io.Writer
	h   Handlers
	log *logger.Logger
}

// New creates a Console reading from in and writing to out.
func New(in LineReader, out io.Writer, h Handlers, log *logger.Logger) *Console {
	if log == nil {
		log = logger.Nop()
	}
	return &Console{
		in:  in,
		out: out,
		h:   h,
		log: log.With(logger.Component("console")),
	}
}

// menuItem is one numbered option.
type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

// ══════════════════════════════════════════════════════════════════════════════
// MENU LOOP
// ══════════════════════════════════════════════════════════════════════════════

// Run shows the main menu until the user exits, input ends or ctx is
// cancelled. Failed actions are printed and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	items := []menuItem{
		{"1", "Students", func(ctx context.Context) error { return c.submenu(ctx, "Students", c.studentItems()) }},
		{"2", "Courses", func(ctx context.Context) error { return c.submenu(ctx, "Courses", c.courseItems()) }},
		{"3", "Enrollments", func(ctx context.Context) error { return c.submenu(ctx, "Enrollments", c.enrollmentItems()) }},
	}

	err := c.loop(ctx, "Course Registry - Main Menu", items, "Exit")
	if err == errQuit {
		return nil
	}
	return err
}

func (c *Console) submenu(ctx context.Context, title string, items []menuItem) error {
	return c.loop(ctx, title, items, "Back")
}

// loop returns nil when the user picks 0, errQuit when input ends.
func (c *Console) loop(ctx context.Context, title string, items []menuItem, zero string) error {
	for {
		if err := ctx.Err(); err != nil {
			return errQuit
		}

		c.title(title)
		for _, it := range items {
			c.line("%s) %s", it.key, it.label)
		}
		c.line("0) %s", zero)

		choice, err := c.prompt("Option")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}

		action := findAction(items, choice)
		if action == nil {
			c.line("Invalid option")
			continue
		}
		if err := action(ctx); err != nil {
			if err == errQuit {
				return err
			}
			c.printError(err)
		}
	}
}

func findAction(items []menuItem, key string) func(context.Context) error {
	for _, it := range items {
		if it.key == key {
			return it.action
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

func (c *Console) studentItems() []menuItem {
	return []menuItem{
		{"1", "List", c.listStudents},
		{"2", "Create", c.createStudent},
		{"3", "Delete", c.deleteStudent},
	}
}

func (c *Console) listStudents(ctx context.Context) error {
	list, err := c.h.ListStudents.Handle(ctx)
	if err != nil {
		return err
	}
	c.line("-- Students --")
	for _, s := range list {
		c.line("%s", formatStudent(s))
	}
	return nil
}

func (c *Console) createStudent(ctx context.Context) error {
	answers, err := c.ask("Name", "Email", "Birth date (yyyy-MM-dd, optional)")
	if err != nil {
		return err
	}
	s, err := c.h.CreateStudent.Handle(ctx, command.CreateStudentCommand{
		Name:      answers[0],
		Email:     answers[1],
		BirthDate: answers[2],
	})
	if err != nil {
		return err
	}
	c.line("Created: %s", s.ID)
	return nil
}

func (c *Console) deleteStudent(ctx context.Context) error {
	id, err := c.prompt("Student id to delete")
	if err != nil {
		return err
	}
	removed, err := c.h.DeleteStudent.Handle(ctx, id)
	if err != nil {
		return err
	}
	c.deleted(removed)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSES
// ══════════════════════════════════════════════════════════════════════════════

func (c *Console) courseItems() []menuItem {
	return []menuItem{
		{"1", "List", c.listCourses},
		{"2", "Create", c.createCourse},
		{"3", "Delete", c.deleteCourse},
	}
}

func (c *Console) listCourses(ctx context.Context) error {
	list, err := c.h.ListCourses.Handle(ctx)
	if err != nil {
		return err
	}
	c.line("-- Courses --")
	for _, co := range list {
		c.line("%s", formatCourse(co))
	}
	return nil
}

func (c *Console) createCourse(ctx context.Context) error {
	answers, err := c.ask("Name", "Type (ONLINE/IN_PERSON)", "Start date (yyyy-MM-dd)", "End date (yyyy-MM-dd)", "Price")
	if err != nil {
		return err
	}

	price, err := parsePrice(answers[4])
	if err != nil {
		return err
	}

	co, err := c.h.CreateCourse.Handle(ctx, command.CreateCourseCommand{
		Name:      answers[0],
		Type:      answers[1],
		StartDate: answers[2],
		EndDate:   answers[3],
		Price:     price,
	})
	if err != nil {
		return err
	}
	c.line("Created: %s", co.ID)
	return nil
}

func (c *Console) deleteCourse(ctx context.Context) error {
	id, err := c.prompt("Course id to delete")
	if err != nil {
		return err
	}
	removed, err := c.h.DeleteCourse.Handle(ctx, id)
	if err != nil {
		return err
	}
	c.deleted(removed)
	return nil
}

// parsePrice accepts either ',' or '.' as the decimal separator.
func parsePrice(text string) (float64, error) {
	price, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
	if err != nil {
		return 0, shared.WrapError("input", "ParsePrice", shared.ErrInputValidation,
			fmt.Sprintf("invalid price %q", text), err)
	}
	return price, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENTS
// ══════════════════════════════════════════════════════════════════════════════

func (c *Console) enrollmentItems() []menuItem {
	return []menuItem{
		{"1", "List", c.listEnrollments},
		{"2", "Enroll student in course", c.enroll},
		{"3", "Cancel enrollment", c.cancelEnrollment},
		{"4", "Delete enrollment", c.deleteEnrollment},
		{"5", "Complete finished courses", c.completeEnrollments},
	}
}

func (c *Console) listEnrollments(ctx context.Context) error {
	views, err := c.h.ListEnrollments.Handle(ctx, query.ListEnrollmentsQuery{})
	if err != nil {
		return err
	}
	c.line("-- Enrollments --")
	for _, v := range views {
		c.line("%s", formatEnrollment(v))
	}
	return nil
}

func (c *Console) enroll(ctx context.Context) error {
	answers, err := c.ask("Student id", "Course id", "Enrollment date (yyyy-MM-dd, empty = today)")
	if err != nil {
		return err
	}
	e, err := c.h.EnrollStudent.Handle(ctx, command.EnrollStudentCommand{
		StudentID: answers[0],
		CourseID:  answers[1],
		Date:      answers[2],
	})
	if err != nil {
		return err
	}
	c.line("Created: %s", e.ID)
	return nil
}

func (c *Console) cancelEnrollment(ctx context.Context) error {
	id, err := c.prompt("Enrollment id")
	if err != nil {
		return err
	}
	e, err := c.h.CancelEnrollment.Handle(ctx, id)
	if err != nil {
		return err
	}
	c.line("Cancelled: %s", e.ID)
	return nil
}

func (c *Console) deleteEnrollment(ctx context.Context) error {
	id, err := c.prompt("Enrollment id to delete")
	if err != nil {
		return err
	}
	removed, err := c.h.DeleteEnrollment.Handle(ctx, id)
	if err != nil {
		return err
	}
	c.deleted(removed)
	return nil
}

func (c *Console) completeEnrollments(ctx context.Context) error {
	result, err := c.h.CompleteEnrollments.Handle(ctx)
	if result != nil {
		for _, e := range result.Completed {
			c.line("Completed: %s", e.ID)
		}
	}
	if err != nil {
		return err
	}
	c.line("%d enrollment(s) completed", len(result.Completed))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// IO HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (c *Console) title(text string) {
	fmt.Fprintf(c.out, "\n== %s ==\n", text)
}

func (c *Console) line(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) deleted(removed bool) {
	if removed {
		c.line("Deleted")
		return
	}
	c.line("Not found")
}

// printError shows the message without the operation prefix.
func (c *Console) printError(err error) {
	if shared.IsStorage(err) {
		c.log.Error("action failed", logger.Err(err))
	}
	c.line("[ERROR] %s", shared.Message(err))
}

// prompt reads one trimmed answer.
func (c *Console) prompt(label string) (string, error) {
	c.in.SetPrompt(label + ": ")
	text, err := c.in.Readline()
	if err != nil {
		if isEndOfInput(err) {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ask reads one answer per label.
func (c *Console) ask(labels ...string) ([]string, error) {
	answers := make([]string, len(labels))
	for i, label := range labels {
		text, err := c.prompt(label)
		if err != nil {
			return nil, err
		}
		answers[i] = text
	}
	return answers, nil
}
