package entity

import (
	"errors"
	"testing"
	"time"
)

func TestTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		wantErr bool
	}{
		{"scheduled to confirmed", AppointmentStatusScheduled, AppointmentStatusConfirmed, false},
		{"scheduled to cancelled", AppointmentStatusScheduled, AppointmentStatusCancelled, false},
		{"confirmed to processing", AppointmentStatusConfirmed, AppointmentStatusProcessing, false},
		{"ongoing to completed", AppointmentStatusOngoing, AppointmentStatusCompleted, false},
		{"visited to no-show", AppointmentStatusVisited, AppointmentStatusNoShow, false},
		{"processing back to confirmed", AppointmentStatusProcessing, AppointmentStatusConfirmed, true},
		{"completed is terminal", AppointmentStatusCompleted, AppointmentStatusScheduled, true},
		{"cancelled is terminal", AppointmentStatusCancelled, AppointmentStatusConfirmed, true},
		{"no-show is terminal", AppointmentStatusNoShow, AppointmentStatusCompleted, true},
		{"unknown status", AppointmentStatusScheduled, AppointmentStatus("archived"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			err := a.TransitionTo(tt.to, time.Now())
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				if a.Status != tt.from {
					t.Errorf("status changed to %s on a rejected transition", a.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Status != tt.to {
				t.Errorf("expected status %s, got %s", tt.to, a.Status)
			}
		})
	}
}

func TestTransitionToSameStatusIsNoop(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusCompleted}
	if err := a.TransitionTo(AppointmentStatusCompleted, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.CompletedAt != nil {
		t.Error("no-op transition should not stamp CompletedAt")
	}
}

func TestTransitionToStampsTimes(t *testing.T) {
	first := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	later := first.Add(20 * time.Minute)
	done := later.Add(10 * time.Minute)

	a := &Appointment{Status: AppointmentStatusScheduled}
	if err := a.TransitionTo(AppointmentStatusProcessing, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.StartedAt == nil || !a.StartedAt.Equal(first) {
		t.Fatalf("expected StartedAt %v, got %v", first, a.StartedAt)
	}

	if err := a.TransitionTo(AppointmentStatusOngoing, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.StartedAt.Equal(first) {
		t.Errorf("StartedAt must keep the first entry time, got %v", a.StartedAt)
	}
	if a.CompletedAt != nil {
		t.Error("CompletedAt set before completion")
	}

	if err := a.TransitionTo(AppointmentStatusCompleted, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.CompletedAt == nil || !a.CompletedAt.Equal(done) {
		t.Errorf("expected CompletedAt %v, got %v", done, a.CompletedAt)
	}
	if a.IsActive() {
		t.Error("completed appointment reported as active")
	}
}

func TestCancelledFreesCapacityOnly(t *testing.T) {
	cancelled := &Appointment{Status: AppointmentStatusCancelled}
	noShow := &Appointment{Status: AppointmentStatusNoShow}

	if !cancelled.IsCancelled() {
		t.Error("cancelled appointment should report IsCancelled")
	}
	if noShow.IsCancelled() {
		t.Error("no-show must keep counting against slot capacity")
	}
	if noShow.IsActive() || cancelled.IsActive() {
		t.Error("terminal appointments must leave the active queue")
	}
}
