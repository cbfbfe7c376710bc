package entity

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestWeekdayUsesCalendarFields(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	honolulu := time.FixedZone("HST", -10*60*60)

	tests := []struct {
		name string
		date datatypes.Date
		want time.Weekday
	}{
		{"utc midnight", NewDate(2025, time.March, 3), time.Monday},
		{"east of utc", datatypes.Date(time.Date(2025, time.March, 3, 0, 0, 0, 0, jakarta)), time.Monday},
		{"west of utc late evening", datatypes.Date(time.Date(2025, time.March, 3, 23, 0, 0, 0, honolulu)), time.Monday},
		{"leap day", NewDate(2024, time.February, 29), time.Thursday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Weekday(tt.date); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-03 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(d) != "2025-03-03" {
		t.Errorf("expected 2025-03-03, got %s", FormatDate(d))
	}
	if !SameDate(d, NewDate(2025, time.March, 3)) {
		t.Error("expected parsed date to equal NewDate")
	}

	for _, bad := range []string{"", "03-03-2025", "2025-02-30", "2025/03/03"} {
		if _, err := ParseDate(bad); err != ErrInvalidDate {
			t.Errorf("ParseDate(%q): expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := map[string]string{
		"9:00":  "09:00",
		"09:30": "09:30",
		"23:59": "23:59",
	}
	for in, want := range tests {
		got, err := NormalizeClock(in)
		if err != nil {
			t.Errorf("NormalizeClock(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "24:00", "9", "09:5", "noon"} {
		if _, err := NormalizeClock(bad); err != ErrInvalidClock {
			t.Errorf("NormalizeClock(%q): expected ErrInvalidClock, got %v", bad, err)
		}
	}
}
