package converter

import (
	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		Name:      patient.Name,
		Mobile:    patient.Mobile,
		Email:     patient.Email,
		Age:       patient.Age,
		Gender:    patient.Gender,
		Address:   patient.Address,
		Kind:      string(patient.Kind),
		CreatedAt: patient.CreatedAt,
	}
}
