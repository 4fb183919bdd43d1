package models

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("range start must be before end")

// TimeRange is a half-open interval [Start, End) of UTC instants.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, ErrInvalidRange
	}

	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether the two ranges share at least one instant.
// Touching endpoints do not count: [10:00,11:00) and [11:00,12:00) are disjoint.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r TimeRange) DurationMinutes() int {
	return int(r.End.Sub(r.Start).Seconds()) / 60
}
