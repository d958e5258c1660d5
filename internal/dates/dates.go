// Package dates parses and formats plain civil dates (no time of day, no zone).
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the storage and sort-key layout for civil dates.
const Layout = "YYYY-MM-DD"

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Date is a civil calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// FormatError reports a date string that does not match YYYY-MM-DD.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid date %q (expected %s): %s", e.Input, Layout, e.Reason)
}

// Parse splits a YYYY-MM-DD string into its parts without going through time.Time.
func Parse(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, &FormatError{Input: s, Reason: "expected three dash-separated parts"}
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, &FormatError{Input: s, Reason: "parts must be zero-padded to 4-2-2 digits"}
	}
	year, err := digits(parts[0])
	if err != nil {
		return Date{}, &FormatError{Input: s, Reason: "year is not a number"}
	}
	month, err := digits(parts[1])
	if err != nil {
		return Date{}, &FormatError{Input: s, Reason: "month is not a number"}
	}
	day, err := digits(parts[2])
	if err != nil {
		return Date{}, &FormatError{Input: s, Reason: "day is not a number"}
	}
	if month < 1 || month > 12 {
		return Date{}, &FormatError{Input: s, Reason: "month out of range"}
	}
	if day < 1 || day > DaysIn(year, month) {
		return Date{}, &FormatError{Input: s, Reason: "day out of range"}
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Valid reports whether s parses as a civil date.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Today returns the civil date of the wall clock reading in now's location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Key returns the zero-padded YYYY-MM-DD form; lexical order equals chronological order.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Key()
}

// Display renders the date as M/D/YYYY.
func (d Date) Display() string {
	return fmt.Sprintf("%d/%d/%d", d.Month, d.Day, d.Year)
}

// Long renders the date as "Jan 2, 2006".
func (d Date) Long() string {
	name := "???"
	if d.Month >= 1 && d.Month <= 12 {
		name = monthNames[d.Month-1]
	}
	return fmt.Sprintf("%s %d, %d", name, d.Day, d.Year)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Key() < other.Key()
}

// DisplayKey parses a stored key and renders it with Display, or returns the
// input untouched when it is not a valid date.
func DisplayKey(s string) string {
	d, err := Parse(s)
	if err != nil {
		return s
	}
	return d.Display()
}

// DaysIn returns the number of days in the given month of the proleptic Gregorian calendar.
func DaysIn(year, month int) int {
	switch month {
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func digits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit %q", s[i])
		}
	}
	return strconv.Atoi(s)
}
