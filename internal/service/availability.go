package service

import (
	"sort"

	"clinic-scheduling-service/internal/domain/entity"
)

// SlotAvailability is the remaining capacity of one slot.
type SlotAvailability struct {
	StartTime    string
	EndTime      string
	MaxPatients  int
	Booked       int
	OnlineBooked int
	Available    int
}

type AvailabilityCalculator interface {
	Compute(resolved *ResolvedSlots, existing []entity.Appointment, channel *entity.Channel) []SlotAvailability
}

type availabilityCalculator struct{}

func NewAvailabilityCalculator() AvailabilityCalculator {
	return &availabilityCalculator{}
}

// Compute counts the non-cancelled appointments per start time. With an online
// channel filter the remaining online quota also caps the result.
func (c *availabilityCalculator) Compute(resolved *ResolvedSlots, existing []entity.Appointment, channel *entity.Channel) []SlotAvailability {
	total := make(map[string]int)
	online := make(map[string]int)
	for _, a := range existing {
		if a.IsCancelled() {
			continue
		}
		total[a.Slot]++
		if a.Channel == entity.ChannelOnline {
			online[a.Slot]++
		}
	}

	onlineOnly := channel != nil && *channel == entity.ChannelOnline
	result := make([]SlotAvailability, 0, len(resolved.Slots))
	for _, slot := range resolved.Slots {
		maxPatients := slot.Capacity(resolved.DefaultMaxPatients)
		available := maxPatients - total[slot.StartTime]
		if onlineOnly {
			available = min(available, resolved.OnlineQuota-online[slot.StartTime])
		}

		result = append(result, SlotAvailability{
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			MaxPatients:  maxPatients,
			Booked:       total[slot.StartTime],
			OnlineBooked: online[slot.StartTime],
			Available:    max(0, available),
		})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result
}

// FindSlotAvailability returns the entry starting at startTime.
func FindSlotAvailability(slots []SlotAvailability, startTime string) (SlotAvailability, bool) {
	for _, s := range slots {
		if s.StartTime == startTime {
			return s, true
		}
	}
	return SlotAvailability{}, false
}
