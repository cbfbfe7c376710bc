package entity

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int {
	return &v
}

func TestSlotListNormalize(t *testing.T) {
	slots := SlotList{
		{StartTime: "14:00", EndTime: "14:30"},
		{StartTime: "9:00", EndTime: "9:30", MaxPatients: intPtr(3)},
	}

	normalized, err := slots.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(normalized) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(normalized))
	}
	if normalized[0].StartTime != "09:00" || normalized[0].EndTime != "09:30" {
		t.Errorf("expected padded 09:00-09:30 first, got %s-%s", normalized[0].StartTime, normalized[0].EndTime)
	}
	if normalized[1].StartTime != "14:00" {
		t.Errorf("expected 14:00 second, got %s", normalized[1].StartTime)
	}
	if normalized[0].Capacity(1) != 3 || normalized[1].Capacity(1) != 1 {
		t.Error("slot capacity should fall back to the default only when unset")
	}
}

func TestSlotListNormalizeRejects(t *testing.T) {
	tests := []struct {
		name  string
		slots SlotList
		want  error
	}{
		{"bad start", SlotList{{StartTime: "9am", EndTime: "10:00"}}, ErrInvalidClock},
		{"end before start", SlotList{{StartTime: "10:00", EndTime: "09:30"}}, ErrInvalidSlotRange},
		{"zero capacity", SlotList{{StartTime: "10:00", EndTime: "10:30", MaxPatients: intPtr(0)}}, ErrInvalidSlotCapacity},
		{"duplicate start", SlotList{
			{StartTime: "10:00", EndTime: "10:30"},
			{StartTime: "10:00", EndTime: "10:15"},
		}, ErrDuplicateSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.slots.Normalize(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestWeeklyScheduleNormalize(t *testing.T) {
	schedule := WeeklySchedule{
		"monday":  {{StartTime: "09:30", EndTime: "10:00"}, {StartTime: "09:00", EndTime: "09:30"}},
		"FRIDAY":  {{StartTime: "16:00", EndTime: "16:30"}},
		"Tuesday": {},
	}

	normalized, err := schedule.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	monday, ok := normalized["Monday"]
	if !ok {
		t.Fatal("expected canonical Monday key")
	}
	if monday[0].StartTime != "09:00" {
		t.Errorf("expected Monday sorted, got %s first", monday[0].StartTime)
	}
	if _, ok := normalized["Friday"]; !ok {
		t.Error("expected canonical Friday key")
	}

	if _, err := (WeeklySchedule{"Funday": {}}).Normalize(); !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("expected ErrInvalidWeekday, got %v", err)
	}
	if _, err := (WeeklySchedule{"monday": {}, "Monday": {}}).Normalize(); !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("expected duplicate day rejection, got %v", err)
	}
}

func TestWeeklyScheduleForWeekdayKeyVariants(t *testing.T) {
	exact := SlotList{{StartTime: "08:00", EndTime: "08:30"}}
	lower := SlotList{{StartTime: "09:00", EndTime: "09:30"}}
	upper := SlotList{{StartTime: "10:00", EndTime: "10:30"}}

	schedule := WeeklySchedule{
		"Monday":    exact,
		"monday":    lower,
		"tuesday":   lower,
		"WEDNESDAY": upper,
	}

	if got := schedule.ForWeekday(time.Monday); got[0].StartTime != "08:00" {
		t.Errorf("exact key should win, got %s", got[0].StartTime)
	}
	if got := schedule.ForWeekday(time.Tuesday); got[0].StartTime != "09:00" {
		t.Errorf("expected lower-case fallback, got %s", got[0].StartTime)
	}
	if got := schedule.ForWeekday(time.Wednesday); got[0].StartTime != "10:00" {
		t.Errorf("expected upper-case fallback, got %s", got[0].StartTime)
	}
	if got := schedule.ForWeekday(time.Sunday); len(got) != 0 {
		t.Errorf("expected no slots on an unconfigured day, got %d", len(got))
	}
}

func TestWeeklyScheduleScan(t *testing.T) {
	var schedule WeeklySchedule
	if err := schedule.Scan([]byte(`{"Monday":[{"start_time":"09:00","end_time":"09:30","max_patients":2}]}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	monday := schedule.ForWeekday(time.Monday)
	if len(monday) != 1 || monday[0].StartTime != "09:00" || monday[0].Capacity(1) != 2 {
		t.Errorf("unexpected schedule after scan: %+v", schedule)
	}

	if err := schedule.Scan(42); err == nil {
		t.Error("expected error scanning a non-JSON value")
	}
}
