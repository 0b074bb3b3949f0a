package dashboard

import (
	"time"

	"github.com/pkg/errors"
)

// Range is a relative time range for usage queries.
type Range string

const (
	RangeDay     Range = "24h"
	RangeWeek    Range = "7d"
	RangeMonth   Range = "30d"
	RangeQuarter Range = "90d"
)

// ParseRange validates a user-supplied range flag.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case RangeDay, RangeWeek, RangeMonth, RangeQuarter:
		return Range(s), nil
	default:
		return "", errors.Errorf("unknown time range %q (valid: 24h, 7d, 30d, 90d)", s)
	}
}

func (r Range) days() int {
	switch r {
	case RangeDay:
		return 1
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeQuarter:
		return 90
	default:
		return 7
	}
}

const isoDate = "2006-01-02"

// Window computes the absolute ISO date window for the range, ending today.
// "Last 7 days" is today minus 7 days through today.
func (r Range) Window(now time.Time) (startDate, endDate string) {
	end := now.UTC()
	start := end.AddDate(0, 0, -r.days())
	return start.Format(isoDate), end.Format(isoDate)
}
