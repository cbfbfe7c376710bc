package service

import (
	"testing"

	"clinic-scheduling-service/internal/domain/entity"
)

func booked(slot string, channel entity.Channel, status entity.AppointmentStatus) entity.Appointment {
	return entity.Appointment{Slot: slot, Channel: channel, Status: status}
}

func TestComputeOnlineSubQuota(t *testing.T) {
	resolved := &ResolvedSlots{
		Slots:              entity.SlotList{{StartTime: "09:00", EndTime: "09:30"}},
		DefaultMaxPatients: 5,
		OnlineQuota:        2,
	}
	existing := []entity.Appointment{
		booked("09:00", entity.ChannelOnline, entity.AppointmentStatusScheduled),
		booked("09:00", entity.ChannelOnline, entity.AppointmentStatusConfirmed),
	}
	calc := NewAvailabilityCalculator()

	online := entity.ChannelOnline
	if got := calc.Compute(resolved, existing, &online)[0].Available; got != 0 {
		t.Errorf("expected 0 online places left, got %d", got)
	}

	offline := entity.ChannelOffline
	if got := calc.Compute(resolved, existing, &offline)[0].Available; got != 3 {
		t.Errorf("expected 3 offline places left, got %d", got)
	}

	unfiltered := calc.Compute(resolved, existing, nil)[0]
	if unfiltered.Available != 3 || unfiltered.MaxPatients != 5 || unfiltered.OnlineBooked != 2 {
		t.Errorf("unexpected unfiltered availability: %+v", unfiltered)
	}
}

func TestComputeIgnoresCancelled(t *testing.T) {
	resolved := &ResolvedSlots{
		Slots:              entity.SlotList{{StartTime: "09:00", EndTime: "09:30"}},
		DefaultMaxPatients: 2,
	}
	existing := []entity.Appointment{
		booked("09:00", entity.ChannelOffline, entity.AppointmentStatusCancelled),
		booked("09:00", entity.ChannelOffline, entity.AppointmentStatusNoShow),
		booked("09:00", entity.ChannelOffline, entity.AppointmentStatusCompleted),
	}

	got := NewAvailabilityCalculator().Compute(resolved, existing, nil)[0]
	if got.Booked != 2 {
		t.Errorf("expected completed and no-show to count, got %d booked", got.Booked)
	}
	if got.Available != 0 {
		t.Errorf("expected slot full, got %d available", got.Available)
	}
}

func TestComputeSlotCapacityAndOrder(t *testing.T) {
	three := 3
	resolved := &ResolvedSlots{
		Slots: entity.SlotList{
			{StartTime: "10:00", EndTime: "10:30"},
			{StartTime: "09:00", EndTime: "09:30", MaxPatients: &three},
		},
		DefaultMaxPatients: 1,
	}
	existing := []entity.Appointment{
		booked("10:00", entity.ChannelOffline, entity.AppointmentStatusScheduled),
		booked("10:00", entity.ChannelOffline, entity.AppointmentStatusScheduled),
		booked("11:00", entity.ChannelOffline, entity.AppointmentStatusScheduled),
	}

	got := NewAvailabilityCalculator().Compute(resolved, existing, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	if got[0].StartTime != "09:00" || got[0].Available != 3 {
		t.Errorf("expected 09:00 with 3 available first, got %+v", got[0])
	}
	if got[1].StartTime != "10:00" || got[1].Available != 0 {
		t.Errorf("overbooked slot must report 0 available, got %+v", got[1])
	}

	if _, ok := FindSlotAvailability(got, "11:00"); ok {
		t.Error("appointments outside the resolved slots must not create entries")
	}
}
