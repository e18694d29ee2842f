// Package academic resolves academic years from dates.
//
// An academic year is labeled by the calendar year in which it ends: 2025 is the
// 2024-2025 cycle. A new cycle starts on August 1st at midnight.
package academic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// StartMonth is the first month of an academic year.
const StartMonth = time.August

var (
	NowFunc = time.Now // mockable

	// errors
	ErrInvalidLabel = errors.New("invalid academic year")
)

// Year returns the academic year `t` belongs to, using the calendar of t's own location.
//
// Examples:
//   - July 31, 2024 23:59:59: 2024 (the 2023-2024 cycle)
//   - August 1, 2024 00:00:00: 2025 (the 2024-2025 cycle)
//   - March 15, 2025: 2025
func Year(t time.Time) int {
	year, month, _ := t.Date()
	if month >= StartMonth {
		return year + 1
	}
	return year
}

// Current returns the academic year at NowFunc().
func Current() int {
	return Year(NowFunc())
}

// Label formats an academic year as its cycle, e.g. 2025 -> "2024-2025".
func Label(year int) string {
	return fmt.Sprintf("%d-%d", year-1, year)
}

// Bounds returns the half-open interval [start, end) covered by an academic year in loc.
func Bounds(year int, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start = time.Date(year-1, StartMonth, 1, 0, 0, 0, 0, loc)
	end = time.Date(year, StartMonth, 1, 0, 0, 0, 0, loc)
	return start, end
}

// Contains reports whether t falls within the given academic year.
func Contains(year int, t time.Time) bool {
	return Year(t) == year
}

// Parse accepts a year ("2025") or a cycle label ("2024-2025").
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "-", 2)

	year, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidLabel, "parsing %q", s)
	}
	if len(parts) == 2 {
		start, err := strconv.Atoi(parts[0])
		if err != nil || start != year-1 {
			return 0, errors.Wrapf(ErrInvalidLabel, "parsing %q", s)
		}
	}
	return year, nil
}
