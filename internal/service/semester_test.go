package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
)

func TestClassifySemesterMonths(t *testing.T) {
	expected := map[time.Month]models.Term{
		time.January:   models.TermSpring,
		time.February:  models.TermSpring,
		time.March:     models.TermSpring,
		time.April:     models.TermSpring,
		time.May:       models.TermSpring,
		time.June:      models.TermOther,
		time.July:      models.TermOther,
		time.August:    models.TermOther,
		time.September: models.TermFall,
		time.October:   models.TermFall,
		time.November:  models.TermFall,
		time.December:  models.TermFall,
	}

	for month, want := range expected {
		term, err := ClassifySemester(time.Date(2024, month, 15, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, want, term, month.String())
	}
}

func TestClassifySemesterBoundaries(t *testing.T) {
	cases := []struct {
		ts   time.Time
		want models.Term
	}{
		{time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC), models.TermSpring},
		{time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), models.TermOther},
		{time.Date(2024, time.August, 31, 23, 59, 59, 0, time.UTC), models.TermOther},
		{time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), models.TermFall},
	}
	for _, tc := range cases {
		term, err := ClassifySemester(tc.ts)
		require.NoError(t, err)
		assert.Equal(t, tc.want, term, tc.ts.String())
	}
}

func TestClassifySemesterUsesTimestampLocation(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	// 2024-09-01 02:00 UTC is still August in UTC-5.
	ts := time.Date(2024, time.September, 1, 2, 0, 0, 0, time.UTC).In(zone)

	term, err := ClassifySemester(ts)
	require.NoError(t, err)
	assert.Equal(t, models.TermOther, term)
}

func TestClassifySemesterRejectsZeroTime(t *testing.T) {
	term, err := ClassifySemester(time.Time{})
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Equal(t, models.TermOther, term)
}

func TestSemesterOf(t *testing.T) {
	term, ok := SemesterOf(nil)
	assert.False(t, ok)
	assert.Equal(t, models.TermOther, term)

	zero := time.Time{}
	_, ok = SemesterOf(&zero)
	assert.False(t, ok)

	oct := time.Date(2023, time.October, 2, 0, 0, 0, 0, time.UTC)
	term, ok = SemesterOf(&oct)
	assert.True(t, ok)
	assert.Equal(t, models.TermFall, term)
}
