// Package calendar converts between day/month/year records and absolute instants
// under the Jalaali (solar hijri) and Gregorian calendars.
//
// Instants are civil dates: midnight UTC of the corresponding Gregorian day. No
// timezone handling is attempted; callers passing a time.Time in another location
// get the civil date of that time in its own location.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloudeng.io/datetime"
	ptime "github.com/yaa110/go-persian-calendar"
)

// System is a calendar system.
type System int

const (
	Jalaali System = iota
	Gregorian
)

func (s System) String() string {
	switch s {
	case Jalaali:
		return "jalaali"
	case Gregorian:
		return "gregorian"
	default:
		return fmt.Sprintf("System(%d)", int(s))
	}
}

// ParseSystem accepts "jalaali"/"jalali"/"persian" and "gregorian".
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jalaali", "jalali", "persian", "shamsi":
		return Jalaali, nil
	case "gregorian", "":
		return Gregorian, nil
	default:
		return Gregorian, fmt.Errorf("unknown calendar system: %q", s)
	}
}

// Record is the day/month/year working representation. Day 0 means "no day
// selected"; Month and Year still describe the navigation position.
type Record struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r Record) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", r.Year, r.Month, r.Day)
}

// HasDay reports whether a concrete day is selected.
func (r Record) HasDay() bool { return r.Day != 0 }

// WithDay returns a copy of r with the day replaced.
func (r Record) WithDay(day int) Record {
	r.Day = day
	return r
}

// SamePosition reports whether r and o share month and year.
func (r Record) SamePosition(o Record) bool {
	return r.Month == o.Month && r.Year == o.Year
}

// InvalidDateError is returned when a record does not name a date in its calendar.
type InvalidDateError struct {
	Record Record
	System System
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s date %s: %s", e.System, e.Record, e.Reason)
}

// IsLeap reports whether year is a leap year in the given system.
func IsLeap(year int, sys System) bool {
	if sys == Jalaali {
		return ptime.Date(year, ptime.Esfand, 1, 0, 0, 0, 0, time.UTC).IsLeap()
	}
	return datetime.IsLeap(year)
}

// MaxDay returns the number of days in month of year, or 0 for an out-of-range month.
func MaxDay(month, year int, sys System) int {
	if month < 1 || month > 12 {
		return 0
	}
	if sys == Gregorian {
		return int(datetime.DaysInMonth(year, datetime.Month(month)))
	}
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	case IsLeap(year, Jalaali):
		return 30
	default:
		return 29
	}
}

// Year bounds per system. Jalaali years below 1000 fall before the Gregorian
// reform, where ptime converts through the Julian calendar and some years do
// not round trip.
const (
	MinJalaaliYear   = 1000
	MaxJalaaliYear   = 3000
	MinGregorianYear = 1
	MaxGregorianYear = 9999
)

// YearBounds returns the inclusive range of years a record may carry in sys.
func YearBounds(sys System) (lo, hi int) {
	if sys == Jalaali {
		return MinJalaaliYear, MaxJalaaliYear
	}
	return MinGregorianYear, MaxGregorianYear
}

// ClampYear pulls year into YearBounds(sys).
func ClampYear(year int, sys System) int {
	lo, hi := YearBounds(sys)
	return min(max(year, lo), hi)
}

// Validate checks the record invariant: month in 1..12, a year within
// YearBounds, and a day that is either 0 or within the month.
func Validate(r Record, sys System) error {
	lo, hi := YearBounds(sys)
	switch {
	case r.Month < 1 || r.Month > 12:
		return &InvalidDateError{Record: r, System: sys, Reason: "month out of range"}
	case r.Year < lo || r.Year > hi:
		return &InvalidDateError{Record: r, System: sys, Reason: fmt.Sprintf("year outside %d..%d", lo, hi)}
	case r.Day < 0:
		return &InvalidDateError{Record: r, System: sys, Reason: "negative day"}
	case r.Day > MaxDay(r.Month, r.Year, sys):
		return &InvalidDateError{
			Record: r,
			System: sys,
			Reason: fmt.Sprintf("day exceeds %d", MaxDay(r.Month, r.Year, sys)),
		}
	}
	return nil
}

// ToInstant resolves r to a civil instant. Day 0 resolves to the first day of the
// month, i.e. the navigation position.
func ToInstant(r Record, sys System) (time.Time, error) {
	if err := Validate(r, sys); err != nil {
		return time.Time{}, err
	}
	day := r.Day
	if day == 0 {
		day = 1
	}
	if sys == Jalaali {
		pt := ptime.Date(r.Year, ptime.Month(r.Month), day, 0, 0, 0, 0, time.UTC)
		return Civil(pt.Time()), nil
	}
	return time.Date(r.Year, time.Month(r.Month), day, 0, 0, 0, 0, time.UTC), nil
}

// MustInstant is ToInstant for records the caller has already validated. An
// invalid record here is a programming error.
func MustInstant(r Record, sys System) time.Time {
	t, err := ToInstant(r, sys)
	if err != nil {
		panic(err)
	}
	return t
}

// FromInstant returns the record naming t's civil date in sys. Instants whose
// year falls outside YearBounds yield a record that fails Validate.
func FromInstant(t time.Time, sys System) Record {
	t = Civil(t)
	if sys == Jalaali {
		pt := ptime.New(t)
		return Record{Day: pt.Day(), Month: int(pt.Month()), Year: pt.Year()}
	}
	return Record{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// Civil truncates t to midnight UTC of its own civil date.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthLayout returns the weekday of the first day of r's month and the month length.
func MonthLayout(r Record, sys System) (first time.Weekday, days int) {
	days = MaxDay(r.Month, r.Year, sys)
	t, err := ToInstant(r.WithDay(1), sys)
	if err != nil {
		return time.Sunday, days
	}
	return t.Weekday(), days
}
