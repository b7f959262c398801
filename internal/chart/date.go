package chart

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the persisted chart date format.
const DateLayout = "2006-01-02"

// ErrDateFormat reports a date that is not a real YYYY-MM-DD calendar date.
var ErrDateFormat = errors.New("chart date must be YYYY-MM-DD")

// Date is a validated calendar date in YYYY-MM-DD form.
type Date string

// ParseDate validates caller input. It is the only way adapters should turn
// user-supplied text into a Date.
func ParseDate(input string) (Date, error) {
	trimmed := strings.TrimSpace(input)
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil || parsed.Format(DateLayout) != trimmed {
		return "", fmt.Errorf("%w: got %q", ErrDateFormat, input)
	}
	return Date(trimmed), nil
}

// DateOf formats a time as a chart date in the time's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string { return string(d) }

// IsZero reports an unset date.
func (d Date) IsZero() bool { return d == "" }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Long renders the date the way chart pages title it, e.g. "January 2, 2023".
func (d Date) Long() string {
	return d.Time().Format("January 2, 2006")
}

// Clock supplies the current chart date.
type Clock interface {
	Today() Date
}

// ZoneClock resolves today in a named timezone.
type ZoneClock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewZoneClock loads the named timezone.
func NewZoneClock(name string) (ZoneClock, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return ZoneClock{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return ZoneClock{Location: loc}, nil
}

// Today returns the current date in the clock's timezone.
func (c ZoneClock) Today() Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now().In(loc))
}

// FixedClock always reports the same date.
type FixedClock Date

// Today implements Clock.
func (c FixedClock) Today() Date { return Date(c) }
