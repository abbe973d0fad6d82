package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf_AppliesJSTOffset(t *testing.T) {
	// 2024-05-01 20:30 UTC is 2024-05-02 05:30 JST.
	utc := time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, Day("2024-05-02"), DayOf(utc))

	// 2024-05-01 14:59 UTC is still 2024-05-01 23:59 JST.
	utc = time.Date(2024, 5, 1, 14, 59, 0, 0, time.UTC)
	assert.Equal(t, Day("2024-05-01"), DayOf(utc))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-05-03")
	require.NoError(t, err)
	assert.Equal(t, Day("2024-05-03"), d)

	_, err = ParseDay("05/03/2024")
	assert.Error(t, err)
}

func TestDay_Arithmetic(t *testing.T) {
	d := Day("2024-02-28")
	assert.Equal(t, Day("2024-02-29"), d.Next(), "2024 is a leap year")
	assert.Equal(t, Day("2024-03-01"), d.AddDays(2))
	assert.Equal(t, Day("2024-02-27"), d.Prev())

	assert.Equal(t, 1, DaysBetween(Day("2024-02-28"), Day("2024-02-29")))
	assert.Equal(t, -2, DaysBetween(Day("2024-03-01"), Day("2024-02-28")))
	assert.Equal(t, 31, DaysBetween(Day("2023-12-31"), Day("2024-01-31")))
}

func TestDay_Bounds(t *testing.T) {
	start, end := Day("2024-05-06").Bounds()

	// Midnight JST is 15:00 UTC the previous day.
	assert.Equal(t, time.Date(2024, 5, 5, 15, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 6, 15, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestDay_Ordering(t *testing.T) {
	assert.True(t, Day("2024-05-01").Before(Day("2024-05-02")))
	assert.False(t, Day("2024-05-02").Before(Day("2024-05-02")))
	assert.True(t, Day("2024-09-30") < Day("2024-10-01"), "lexicographic order matches calendar order")
}
