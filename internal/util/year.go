package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrBadYear = errors.New("unparsable year")

// ParseCeremonyYear reads a primary-table year. Slash-delimited values such
// as "1927/28" report skip=true. Anything else that is not a year or an ISO
// date is an error.
func ParseCeremonyYear(input string) (year int, skip bool, err error) {
	s := strings.TrimSpace(input)
	if strings.Contains(s, "/") {
		return 0, true, nil
	}
	if y, ok := fourDigits(s); ok && len(s) == 4 {
		return y, false, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006-01-02 15:04:05"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Year(), false, nil
		}
	}
	return 0, false, fmt.Errorf("%w: %q", ErrBadYear, input)
}

// ParseLeadingYear takes the first four characters of values like
// "2005 (78th)".
func ParseLeadingYear(input string) (int, error) {
	s := strings.TrimSpace(input)
	if y, ok := fourDigits(s); ok {
		return y, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadYear, input)
}

// IsInteger reports whether the value is a plain base-10 integer.
func IsInteger(input string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(input))
	return err == nil
}

func fourDigits(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	y, _ := strconv.Atoi(s[:4])
	return y, true
}
