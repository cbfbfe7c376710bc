package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidClock = errors.New("invalid time format, use HH:MM")
)

// ParseDate parses a YYYY-MM-DD calendar date into a datatypes.Date anchored at UTC midnight.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return datatypes.Date{}, ErrInvalidDate
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func NewDate(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FormatDate renders d using its own year/month/day, whatever location it was scanned in.
func FormatDate(d datatypes.Date) string {
	y, m, day := time.Time(d).Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), day)
}

// Weekday derives the day of week from the calendar fields of d. Reinterpreting the
// underlying instant in another zone can shift it by one day, so the date is rebuilt first.
func Weekday(d datatypes.Date) time.Weekday {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 12, 0, 0, 0, time.UTC).Weekday()
}

func SameDate(a, b datatypes.Date) bool {
	return FormatDate(a) == FormatDate(b)
}

// NormalizeClock accepts H:MM or HH:MM and returns the zero-padded HH:MM form,
// whose lexical order equals chronological order.
func NormalizeClock(s string) (string, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidClock
	}
	return t.Format(ClockLayout), nil
}
