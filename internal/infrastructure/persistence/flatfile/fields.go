package flatfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alem-hub/course-registry/pkg/timeutil"
)

// parseOptionalDate treats a blank value as "no date".
func parseOptionalDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	d, err := timeutil.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", field, err)
	}
	return d, nil
}

// parseOptionalNumber treats a blank value as zero.
func parseOptionalNumber(field, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid number %q", field, value)
	}
	return n, nil
}

// formatNumber renders n without exponent or locale-specific separators.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
