package converter

import (
	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/service"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		Patient:     PatientToResponse(appointment.Patient),
		DoctorID:    appointment.DoctorID,
		Date:        entity.FormatDate(appointment.Date),
		Slot:        appointment.Slot,
		Status:      string(appointment.Status),
		Channel:     string(appointment.Channel),
		Origin:      string(appointment.Origin),
		IsEmergency: appointment.IsEmergency,
		QueueOrder:  appointment.QueueOrder,
		StartedAt:   appointment.StartedAt,
		CompletedAt: appointment.CompletedAt,
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func AvailabilityToResponses(slots []service.SlotAvailability) []dto.AvailableSlotResponse {
	responses := make([]dto.AvailableSlotResponse, len(slots))
	for i, s := range slots {
		responses[i] = dto.AvailableSlotResponse{
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			MaxPatients:  s.MaxPatients,
			Booked:       s.Booked,
			OnlineBooked: s.OnlineBooked,
			Available:    s.Available,
		}
	}
	return responses
}
