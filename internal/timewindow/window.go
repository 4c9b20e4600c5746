// Package timewindow matches wall-clock windows and calendar ranges against an
// evaluation instant. It is shared by the schedule resolver, the pricing
// evaluator and channel operating hours.
package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of a wall-clock day.
const MinutesPerDay = 24 * 60

// DayPolicy selects which calendar day is checked for the part of a
// midnight-crossing window that falls after midnight.
type DayPolicy string

const (
	// DayPolicyStartDay checks the post-midnight portion against the previous
	// day, the day the window opened on.
	DayPolicyStartDay DayPolicy = "start_day"
	// DayPolicyCurrentDay checks every portion against the current day only.
	DayPolicyCurrentDay DayPolicy = "current_day"
)

// ParseDayPolicy converts configuration input into a DayPolicy, defaulting to
// DayPolicyStartDay for empty or unknown values.
func ParseDayPolicy(raw string) DayPolicy {
	switch DayPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case DayPolicyCurrentDay:
		return DayPolicyCurrentDay
	default:
		return DayPolicyStartDay
	}
}

// MalformedError reports a record field that cannot be evaluated.
type MalformedError struct {
	Field string
	Value string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s %q", e.Field, e.Value)
}

// Clock is a wall-clock time expressed as minutes since midnight.
type Clock int

// ParseClock parses an "HH:MM" 24h string. "24:00" is accepted as end of day.
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, &MalformedError{Field: "time", Value: raw}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &MalformedError{Field: "time", Value: raw}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &MalformedError{Field: "time", Value: raw}
	}
	if hour == 24 && minute == 0 {
		return Clock(MinutesPerDay - 1), nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &MalformedError{Field: "time", Value: raw}
	}
	return Clock(hour*60 + minute), nil
}

// Minutes returns the minutes since midnight.
func (c Clock) Minutes() int { return int(c) }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Instant is the evaluation point projected onto a local calendar.
type Instant struct {
	Date    time.Time
	Minute  int
	Weekday int
}

// InstantOf projects t onto loc. A nil location keeps t's own location.
func InstantOf(t time.Time, loc *time.Location) Instant {
	if loc != nil {
		t = t.In(loc)
	}
	return Instant{
		Date:    time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Minute:  t.Hour()*60 + t.Minute(),
		Weekday: int(t.Weekday()),
	}
}

// AddMinutes returns the instant shifted forward by n minutes (n may exceed a day).
func (i Instant) AddMinutes(n int) Instant {
	total := i.Minute + n
	days := total / MinutesPerDay
	if total < 0 && total%MinutesPerDay != 0 {
		days--
	}
	minute := total - days*MinutesPerDay
	return Instant{
		Date:    i.Date.AddDate(0, 0, days),
		Minute:  minute,
		Weekday: ((i.Weekday+days)%7 + 7) % 7,
	}
}

// DateString formats the instant's calendar date as YYYY-MM-DD.
func (i Instant) DateString() string {
	return i.Date.Format(dateLayout)
}

// Window is a recurring daily window restricted to a set of weekdays
// (0 = Sunday). An empty day set allows every day.
type Window struct {
	Start string
	End   string
	Days  []int
}

type parsedWindow struct {
	start int
	end   int
	days  map[int]bool
}

func (w Window) parse() (parsedWindow, error) {
	start, err := ParseClock(w.Start)
	if err != nil {
		return parsedWindow{}, err
	}
	end, err := ParseClock(w.End)
	if err != nil {
		return parsedWindow{}, err
	}
	var days map[int]bool
	if len(w.Days) > 0 {
		days = make(map[int]bool, len(w.Days))
		for _, d := range w.Days {
			if d < 0 || d > 6 {
				return parsedWindow{}, &MalformedError{Field: "day of week", Value: strconv.Itoa(d)}
			}
			days[d] = true
		}
	}
	return parsedWindow{start: start.Minutes(), end: end.Minutes(), days: days}, nil
}

func (p parsedWindow) allows(day int) bool {
	if p.days == nil {
		return true
	}
	return p.days[day]
}

func (p parsedWindow) crossesMidnight() bool {
	return p.end < p.start
}

// Validate reports whether the window can be evaluated.
func (w Window) Validate() error {
	_, err := w.parse()
	return err
}

// Match reports whether the instant falls inside the window. Bounds are inclusive.
func (w Window) Match(at Instant, policy DayPolicy) (bool, error) {
	p, err := w.parse()
	if err != nil {
		return false, err
	}
	return p.match(at, policy), nil
}

func (p parsedWindow) match(at Instant, policy DayPolicy) bool {
	current := at.Minute
	if !p.crossesMidnight() {
		return p.allows(at.Weekday) && current >= p.start && current <= p.end
	}
	if current >= p.start {
		return p.allows(at.Weekday)
	}
	if current <= p.end {
		if policy == DayPolicyCurrentDay {
			return p.allows(at.Weekday)
		}
		return p.allows((at.Weekday + 6) % 7)
	}
	return false
}

// MinutesUntilStart returns how many minutes remain until the window next
// opens, provided that opening happens within (0, within] minutes of at.
func (w Window) MinutesUntilStart(at Instant, within int) (int, bool, error) {
	p, err := w.parse()
	if err != nil {
		return 0, false, err
	}
	if within <= 0 {
		return 0, false, nil
	}
	delta := ((p.start - at.Minute) % MinutesPerDay + MinutesPerDay) % MinutesPerDay
	for ; delta <= within; delta += MinutesPerDay {
		if delta == 0 {
			continue
		}
		if p.allows(at.AddMinutes(delta).Weekday) {
			return delta, true, nil
		}
	}
	return 0, false, nil
}
