package community

import (
	"regexp"
	"time"
)

const periodLayout = "2006-01"

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Period is a billing month token in YYYY-MM form. It carries no timezone.
type Period string

// ParsePeriod validates a YYYY-MM token.
func ParsePeriod(value string) (Period, error) {
	if !periodPattern.MatchString(value) {
		return "", ErrInvalidPeriod
	}
	return Period(value), nil
}

// PeriodOf returns the period containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period(t.Format(periodLayout))
}

// Validate checks the token format.
func (p Period) Validate() error {
	_, err := ParsePeriod(string(p))
	return err
}

// String returns the raw token.
func (p Period) String() string { return string(p) }
