package service

import (
	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
)

// QueueIndex returns the position of id in queue, or -1.
func QueueIndex(queue []entity.Appointment, id uuid.UUID) int {
	for i := range queue {
		if queue[i].ID == id {
			return i
		}
	}
	return -1
}

// MoveInQueue removes the element at index and reinserts it at index+steps, clamped
// to the bounds of the shortened list. The input slice is not modified.
func MoveInQueue(queue []entity.Appointment, index, steps int) []entity.Appointment {
	if index < 0 || index >= len(queue) {
		return append([]entity.Appointment(nil), queue...)
	}

	target := queue[index]
	rest := make([]entity.Appointment, 0, len(queue))
	rest = append(rest, queue[:index]...)
	rest = append(rest, queue[index+1:]...)

	// Compare before adding: index+steps overflows for extreme steps.
	var pos int
	switch {
	case steps > len(rest)-index:
		pos = len(rest)
	case steps < -index:
		pos = 0
	default:
		pos = index + steps
	}

	moved := make([]entity.Appointment, 0, len(queue))
	moved = append(moved, rest[:pos]...)
	moved = append(moved, target)
	moved = append(moved, rest[pos:]...)
	return moved
}

// RenumberQueue assigns 1-based positions in slice order and returns the indexes
// whose QueueOrder changed.
func RenumberQueue(queue []entity.Appointment) []int {
	var changed []int
	for i := range queue {
		if queue[i].QueueOrder != i+1 {
			queue[i].QueueOrder = i + 1
			changed = append(changed, i)
		}
	}
	return changed
}
