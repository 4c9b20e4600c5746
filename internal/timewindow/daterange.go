package timewindow

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date. Full RFC3339 timestamps are accepted and
// truncated to their date component.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &MalformedError{Field: "date", Value: raw}
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &MalformedError{Field: "date", Value: raw}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) parse() (time.Time, time.Time, error) {
	start, err := ParseDate(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, &MalformedError{Field: "date range", Value: r.Start + ".." + r.End}
	}
	return start, end, nil
}

// Validate reports whether the range can be evaluated.
func (r DateRange) Validate() error {
	_, _, err := r.parse()
	return err
}

// Contains compares calendar dates only; the time of day is ignored.
func (r DateRange) Contains(at Instant) (bool, error) {
	start, end, err := r.parse()
	if err != nil {
		return false, err
	}
	return !at.Date.Before(start) && !at.Date.After(end), nil
}

// MinutesUntilStart reports the minutes until the range begins (at local
// midnight of its start date) when that is within (0, within] minutes of at.
func (r DateRange) MinutesUntilStart(at Instant, within int) (int, bool, error) {
	start, _, err := r.parse()
	if err != nil {
		return 0, false, err
	}
	if !start.After(at.Date) {
		return 0, false, nil
	}
	days := int(start.Sub(at.Date).Hours() / 24)
	delta := days*MinutesPerDay - at.Minute
	if delta <= 0 || delta > within {
		return 0, false, nil
	}
	return delta, true, nil
}
