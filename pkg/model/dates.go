package model

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts either a plain date (2006-01-02) or a full RFC3339
// timestamp, which is what the booking forms and API clients send.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, must be YYYY-MM-DD or RFC3339", s)
}

// Nights counts billable nights between start and end, rounding partial
// 24-hour periods up. Callers must have checked start < end already.
func Nights(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
