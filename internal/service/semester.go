package service

import (
	"errors"
	"time"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// ErrInvalidTimestamp is returned for the zero time, which stands in for a missing or
// unparsable timestamp.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ClassifySemester maps a timestamp to its academic term using the calendar month in the
// timestamp's own location: Sep-Dec is fall, Jan-May is spring, Jun-Aug is other.
func ClassifySemester(ts time.Time) (models.Term, error) {
	if ts.IsZero() {
		return models.TermOther, ErrInvalidTimestamp
	}
	switch month := ts.Month(); {
	case month >= time.September:
		return models.TermFall, nil
	case month <= time.May:
		return models.TermSpring, nil
	default:
		return models.TermOther, nil
	}
}

// SemesterOf classifies an optional timestamp. The boolean is false when the item has
// no usable timestamp.
func SemesterOf(ts *time.Time) (models.Term, bool) {
	if ts == nil {
		return models.TermOther, false
	}
	term, err := ClassifySemester(*ts)
	if err != nil {
		return models.TermOther, false
	}
	return term, true
}
