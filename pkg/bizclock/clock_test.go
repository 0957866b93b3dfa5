package bizclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestNowIsExpressedInBusinessLocation(t *testing.T) {
	loc := jakarta(t)
	utc := time.Date(2024, 3, 1, 20, 30, 0, 0, time.UTC)
	c := NewWithNow(loc, func() time.Time { return utc })

	now := c.Now()
	assert.Equal(t, loc, now.Location())
	assert.Equal(t, 3, now.Hour())
	assert.Equal(t, 2, now.Day())
	assert.True(t, now.Equal(utc))
}

func TestStartOfDayAndMonth(t *testing.T) {
	c := New(jakarta(t))
	at := time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC) // 01:00 on Mar 1 in Jakarta

	assert.Equal(t, c.Date(2024, 3, 1), c.StartOfDay(at))
	assert.Equal(t, c.Date(2024, 3, 1), c.StartOfMonth(at))
}

func TestRanges(t *testing.T) {
	c := New(jakarta(t))

	start, end := c.DayRange(2024, 12, 31)
	assert.Equal(t, c.Date(2025, 1, 1), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	start, end = c.MonthRange(2024, 2)
	assert.Equal(t, c.Date(2024, 2, 1), start)
	assert.Equal(t, c.Date(2024, 3, 1), end)
}

func TestLoadRejectsUnknownZone(t *testing.T) {
	_, err := Load("Mars/Olympus_Mons")
	assert.Error(t, err)
}
