// Package calendar provides timezone-free calendar dates at day granularity.
//
// A Date is a plain (year, month, day) triple with no time-of-day component,
// which avoids the off-by-one-day surprises of comparing time.Time values
// parsed in different locations. The zero Date is treated as "unset".
package calendar

import (
	"time"

	"github.com/go-faster/errors"
)

// Layout is the canonical wire format for dates.
const Layout = "2006-01-02"

// Date is a calendar day without time-of-day or timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a date from its canonical YYYY-MM-DD form. Longer strings
// (RFC 3339 timestamps and the like) are accepted by taking the leading date
// part, matching how date inputs arrive from HTML forms and JSON APIs.
func ParseDate(s string) (Date, error) {
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "parse date %q", s)
	}
	return FromTime(t), nil
}

// FromTime extracts the calendar day from a time.Time in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in local time.
func Today() Date {
	return FromTime(time.Now())
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date in canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.time().Format(Layout)
}

// AddYears returns the date shifted by n calendar years with month and day
// preserved. Feb 29 shifted to a non-leap year clamps to Feb 28 rather than
// normalizing forward to Mar 1.
func (d Date) AddYears(n int) Date {
	out := Date{Year: d.Year + n, Month: d.Month, Day: d.Day}
	if d.Month == time.February && d.Day == 29 && !isLeapYear(out.Year) {
		out.Day = 28
	}
	return out
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// BeforeToday reports whether d is strictly earlier than the current local
// calendar day. Time-of-day plays no part in the comparison.
func (d Date) BeforeToday() bool {
	return d.Before(Today())
}

// MarshalText implements encoding.TextMarshaler using the canonical layout.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
