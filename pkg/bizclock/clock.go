// Package bizclock is the single source of "now" and of local calendar
// arithmetic in the business timezone.
package bizclock

import (
	"fmt"
	"time"

	// Embedded zone database so the binary does not depend on the host's tzdata.
	_ "time/tzdata"
)

// Clock reports time in a fixed business location
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New creates a clock for loc backed by the system clock
func New(loc *time.Location) *Clock {
	return NewWithNow(loc, time.Now)
}

// NewWithNow creates a clock whose current instant comes from now
func NewWithNow(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Load creates a system-backed clock for the named IANA zone
func Load(name string) (*Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load business timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the business location
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant expressed in the business location
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// In expresses t in the business location
func (c *Clock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// Date returns local midnight of the given civil date
func (c *Clock) Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, c.loc)
}

// StartOfDay returns local midnight of the day containing t
func (c *Clock) StartOfDay(t time.Time) time.Time {
	l := t.In(c.loc)
	return c.Date(l.Year(), l.Month(), l.Day())
}

// StartOfMonth returns local midnight of the first day of t's month
func (c *Clock) StartOfMonth(t time.Time) time.Time {
	l := t.In(c.loc)
	return c.Date(l.Year(), l.Month(), 1)
}

// DayRange returns [start, end) of the local civil day y-m-d
func (c *Clock) DayRange(year int, month time.Month, day int) (time.Time, time.Time) {
	start := c.Date(year, month, day)
	return start, start.AddDate(0, 0, 1)
}

// MonthRange returns [start, end) of the local calendar month
func (c *Clock) MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := c.Date(year, month, 1)
	return start, start.AddDate(0, 1, 0)
}
