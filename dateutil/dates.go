// Package dateutil normalizes dates for gco:Date and gco:DateTime elements.
package dateutil

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

// Layouts used in ISO 19139 output.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

var (
	yearOnly      = regexp.MustCompile(`^[0-9]{4}$`)
	yearMonthOnly = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)
)

// Parse parses a date in any of the formats dateparse understands.
func Parse(value string) (time.Time, error) {
	return dateparse.ParseStrict(value)
}

// MustParse is like Parse but panics on error
func MustParse(value string) time.Time {
	t, err := dateparse.ParseStrict(value)
	if err != nil {
		panic(err)
	}
	return t
}

// DateTime formats t the way metadata date stamps are written.
func DateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// NormalizeDate rewrites a date to YYYY-MM-DD. A bare year or year and month
// are valid gco:Date values and are kept, as is anything that does not parse.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || yearOnly.MatchString(s) || yearMonthOnly.MatchString(s) {
		return s
	}
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Format(DateLayout)
}

// Since parses a day and returns its beginning, for filters like "only files
// modified since".
func Since(value string) (time.Time, error) {
	t, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	return now.With(t).BeginningOfDay(), nil
}

// SplitRange splits a DataCite date range like "2001-01-01/2002-12-31". A
// single date yields the same start and end; open ends are "unknown".
func SplitRange(s string) (start, end string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	a, b, ok := strings.Cut(s, "/")
	if !ok {
		return s, s
	}
	start, end = strings.TrimSpace(a), strings.TrimSpace(b)
	if start == "" {
		start = "unknown"
	}
	if end == "" {
		end = "unknown"
	}
	return start, end
}
