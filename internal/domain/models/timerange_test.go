package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
)

func mustRange(t *testing.T, start, end time.Time) models.TimeRange {
	t.Helper()

	r, err := models.NewTimeRange(start, end)
	require.NoError(t, err)

	return r
}

func TestNewTimeRange_Invalid(t *testing.T) {
	now := time.Now().UTC()

	_, err := models.NewTimeRange(now, now)
	assert.ErrorIs(t, err, models.ErrInvalidRange)

	_, err = models.NewTimeRange(now.Add(time.Hour), now)
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	a := mustRange(t, base, base.Add(2*time.Hour))

	tests := []struct {
		name    string
		other   models.TimeRange
		overlap bool
	}{
		{
			name:    "identical",
			other:   mustRange(t, base, base.Add(2*time.Hour)),
			overlap: true,
		},
		{
			name:    "partial overlap at end",
			other:   mustRange(t, base.Add(time.Hour), base.Add(3*time.Hour)),
			overlap: true,
		},
		{
			name:    "contained",
			other:   mustRange(t, base.Add(30*time.Minute), base.Add(time.Hour)),
			overlap: true,
		},
		{
			name:    "abutting after",
			other:   mustRange(t, base.Add(2*time.Hour), base.Add(3*time.Hour)),
			overlap: false,
		},
		{
			name:    "abutting before",
			other:   mustRange(t, base.Add(-time.Hour), base),
			overlap: false,
		},
		{
			name:    "disjoint",
			other:   mustRange(t, base.Add(5*time.Hour), base.Add(6*time.Hour)),
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, a.Overlaps(tt.other))
			// overlap is symmetric
			assert.Equal(t, tt.overlap, tt.other.Overlaps(a))
		})
	}
}

func TestTimeRange_DurationMinutes(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	r := mustRange(t, base, base.Add(90*time.Minute))
	assert.Equal(t, 90, r.DurationMinutes())
}

func TestTimeRange_StoredInUTC(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 17, 0, 0, 0, loc)
	r := mustRange(t, start, start.Add(time.Hour))

	assert.Equal(t, time.UTC, r.Start.Location())
	assert.True(t, r.Start.Equal(start))
}
