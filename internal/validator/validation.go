package validator

import (
	"errors"
	"strings"
	"time"
)

// ParseDate parses an ISO 8601 calendar date.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, errors.New("invalid date, want YYYY-MM-DD")
	}
	return t, nil
}

// ValidateCityCode checks an IATA three-letter city code and returns it
// upper-cased.
func ValidateCityCode(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	if len(c) != 3 {
		return "", errors.New("invalid city code")
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", errors.New("invalid city code")
		}
	}
	return c, nil
}
