package timewindow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-03-08 is a Friday.
func at(day, hour, minute int) Instant {
	return InstantOf(time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC), time.UTC)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, c.Minutes())
	assert.Equal(t, "09:30", c.String())

	end, err := ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay-1, end.Minutes())

	for _, raw := range []string{"", "9", "25:00", "12:60", "ab:cd", "12:5"} {
		_, err := ParseClock(raw)
		var malformed *MalformedError
		assert.True(t, errors.As(err, &malformed), raw)
	}
}

func TestInstantOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	i := InstantOf(time.Date(2024, time.March, 8, 20, 15, 0, 0, time.UTC), loc)
	assert.Equal(t, 3*60+15, i.Minute)
	assert.Equal(t, int(time.Saturday), i.Weekday)
	assert.Equal(t, "2024-03-09", i.DateString())
}

func TestAddMinutesRollsOverDays(t *testing.T) {
	i := at(8, 23, 30).AddMinutes(45)
	assert.Equal(t, 15, i.Minute)
	assert.Equal(t, int(time.Saturday), i.Weekday)
	assert.Equal(t, "2024-03-09", i.DateString())
}

func TestWindowMatchNormal(t *testing.T) {
	w := Window{Start: "11:00", End: "14:00", Days: []int{5}}

	ok, err := w.Match(at(8, 12, 0), DayPolicyStartDay)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = w.Match(at(8, 14, 0), DayPolicyStartDay)
	assert.True(t, ok, "end bound is inclusive")

	ok, _ = w.Match(at(8, 14, 1), DayPolicyStartDay)
	assert.False(t, ok)

	ok, _ = w.Match(at(9, 12, 0), DayPolicyStartDay)
	assert.False(t, ok, "saturday is not an allowed day")
}

func TestWindowMatchEmptyDaysAllowsAll(t *testing.T) {
	w := Window{Start: "00:00", End: "23:59"}
	for day := 3; day <= 9; day++ {
		ok, err := w.Match(at(day, 10, 0), DayPolicyStartDay)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestWindowMatchMidnightCrossing(t *testing.T) {
	w := Window{Start: "22:00", End: "02:00", Days: []int{5}}

	ok, _ := w.Match(at(8, 23, 0), DayPolicyStartDay)
	assert.True(t, ok, "friday 23:00 is inside the friday window")

	ok, _ = w.Match(at(8, 21, 59), DayPolicyStartDay)
	assert.False(t, ok)

	// Saturday 01:00 belongs to the window that opened on Friday.
	ok, _ = w.Match(at(9, 1, 0), DayPolicyStartDay)
	assert.True(t, ok)
	ok, _ = w.Match(at(9, 1, 0), DayPolicyCurrentDay)
	assert.False(t, ok, "current-day policy only checks saturday")

	// Friday 01:00 is the tail of a Thursday window, which is not allowed.
	ok, _ = w.Match(at(8, 1, 0), DayPolicyStartDay)
	assert.False(t, ok)
	ok, _ = w.Match(at(8, 1, 0), DayPolicyCurrentDay)
	assert.True(t, ok, "current-day policy accepts friday early morning")

	ok, _ = w.Match(at(9, 2, 1), DayPolicyStartDay)
	assert.False(t, ok)
}

func TestWindowMatchSundayWrapsToSaturday(t *testing.T) {
	w := Window{Start: "20:00", End: "03:00", Days: []int{6}}
	ok, err := w.Match(at(10, 2, 0), DayPolicyStartDay)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindowMatchMalformed(t *testing.T) {
	_, err := Window{Start: "xx", End: "10:00"}.Match(at(8, 9, 0), DayPolicyStartDay)
	assert.Error(t, err)

	_, err = Window{Start: "09:00", End: "10:00", Days: []int{7}}.Match(at(8, 9, 0), DayPolicyStartDay)
	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "day of week", malformed.Field)
}

func TestWindowMinutesUntilStart(t *testing.T) {
	w := Window{Start: "17:00", End: "22:00", Days: []int{5}}

	delta, ok, err := w.MinutesUntilStart(at(8, 16, 30), 60)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30, delta)

	_, ok, _ = w.MinutesUntilStart(at(8, 15, 0), 60)
	assert.False(t, ok, "start is two hours away")

	_, ok, _ = w.MinutesUntilStart(at(8, 17, 0), 60)
	assert.False(t, ok, "already started")

	_, ok, _ = w.MinutesUntilStart(at(9, 16, 30), 60)
	assert.False(t, ok, "saturday is not an allowed day")

	late := Window{Start: "00:15", End: "04:00", Days: []int{6}}
	delta, ok, _ = late.MinutesUntilStart(at(8, 23, 50), 30)
	assert.True(t, ok, "start on the next day counts against that day")
	assert.Equal(t, 25, delta)
}

func TestParseDayPolicy(t *testing.T) {
	assert.Equal(t, DayPolicyCurrentDay, ParseDayPolicy("CURRENT_DAY"))
	assert.Equal(t, DayPolicyStartDay, ParseDayPolicy(""))
	assert.Equal(t, DayPolicyStartDay, ParseDayPolicy("bogus"))
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: "2024-03-08", End: "2024-03-10"}

	for _, day := range []int{8, 9, 10} {
		ok, err := r.Contains(at(day, 23, 59))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := r.Contains(at(11, 0, 0))
	assert.False(t, ok)

	ts := DateRange{Start: "2024-03-08T10:00:00Z", End: "2024-03-08T11:00:00Z"}
	ok, err := ts.Contains(at(8, 20, 0))
	require.NoError(t, err)
	assert.True(t, ok, "timestamps are compared by calendar date only")

	_, err = DateRange{Start: "", End: "2024-03-08"}.Contains(at(8, 0, 0))
	assert.Error(t, err)
	_, err = DateRange{Start: "2024-03-09", End: "2024-03-08"}.Contains(at(8, 0, 0))
	assert.Error(t, err)
}

func TestDateRangeMinutesUntilStart(t *testing.T) {
	r := DateRange{Start: "2024-03-09", End: "2024-03-09"}
	delta, ok, err := r.MinutesUntilStart(at(8, 23, 30), 60)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30, delta)

	_, ok, _ = r.MinutesUntilStart(at(8, 20, 0), 60)
	assert.False(t, ok)
}
