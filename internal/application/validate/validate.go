// Package validate checks raw caller input before it reaches the domain.
// Every failure is a shared.ErrInputValidation error naming the field.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/alem-hub/course-registry/internal/domain/shared"
	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// emailPattern accepts local@domain.tld with a TLD of at least two letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// stricter than the built-in "email" tag: the TLD needs two letters
	if err := val.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validate: register email_shape: %v", err))
	}
	return val
}

func invalid(op, message string) error {
	return shared.NewDomainError("input", op, shared.ErrInputValidation, message)
}

// NotBlank fails when value is empty after trimming whitespace.
func NotBlank(field, value string) error {
	if err := v.Var(strings.TrimSpace(value), "required"); err != nil {
		return invalid("NotBlank", field+" is required")
	}
	return nil
}

// NonNegative fails when n is negative or not a number.
func NonNegative(field string, n float64) error {
	if err := v.Var(n, "gte=0"); err != nil {
		return invalid("NonNegative", fmt.Sprintf("%s cannot be negative", field))
	}
	return nil
}

// Email fails when value does not look like local@domain.tld.
func Email(value string) error {
	if err := v.Var(strings.TrimSpace(value), "required,email_shape"); err != nil {
		return invalid("Email", fmt.Sprintf("invalid email %q", value))
	}
	return nil
}

// Date parses a required yyyy-MM-dd value.
func Date(field, text string) (time.Time, error) {
	d, err := timeutil.ParseDate(text)
	if err != nil {
		return time.Time{}, shared.WrapError("input", "ParseDate", shared.ErrInputValidation,
			fmt.Sprintf("invalid date for %s, use yyyy-MM-dd", field), err)
	}
	return d, nil
}

// OptionalDate parses a yyyy-MM-dd value; a blank value yields the zero time.
func OptionalDate(field, text string) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, nil
	}
	return Date(field, text)
}
