package converter

import (
	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/domain/entity"
)

// SlotsFromRequest converts request slots to the domain slot list. Values are
// validated later by SlotList.Normalize.
func SlotsFromRequest(slots []dto.SlotDefinitionRequest) entity.SlotList {
	list := make(entity.SlotList, len(slots))
	for i, s := range slots {
		list[i] = entity.SlotDefinition{
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			MaxPatients: s.MaxPatients,
		}
	}
	return list
}

func WeeklyScheduleFromRequest(weekly dto.WeeklySlotsRequest) entity.WeeklySchedule {
	schedule := make(entity.WeeklySchedule, len(weekly))
	for day, slots := range weekly {
		schedule[day] = SlotsFromRequest(slots)
	}
	return schedule
}

func SlotsToResponses(slots entity.SlotList) []dto.SlotDefinitionResponse {
	responses := make([]dto.SlotDefinitionResponse, len(slots))
	for i, s := range slots {
		responses[i] = dto.SlotDefinitionResponse{
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			MaxPatients: s.MaxPatients,
		}
	}
	return responses
}

func weeklyToResponse(weekly entity.WeeklySchedule) map[string][]dto.SlotDefinitionResponse {
	response := make(map[string][]dto.SlotDefinitionResponse, len(weekly))
	for day, slots := range weekly {
		response[day] = SlotsToResponses(slots)
	}
	return response
}

// ClinicSlotConfigToResponse converts a ClinicSlotConfig entity to ClinicSlotConfigResponse DTO
func ClinicSlotConfigToResponse(config *entity.ClinicSlotConfig) *dto.ClinicSlotConfigResponse {
	if config == nil {
		return nil
	}

	return &dto.ClinicSlotConfigResponse{
		ID:          config.ID,
		WeeklySlots: weeklyToResponse(config.WeeklySlots),
		UpdatedAt:   config.UpdatedAt,
	}
}

// DoctorSlotConfigToResponse converts a DoctorSlotConfig entity to DoctorSlotConfigResponse DTO
func DoctorSlotConfigToResponse(config *entity.DoctorSlotConfig) *dto.DoctorSlotConfigResponse {
	if config == nil {
		return nil
	}

	return &dto.DoctorSlotConfigResponse{
		ID:                 config.ID,
		DoctorID:           config.DoctorID,
		UsesClinicSlots:    config.UsesClinicSlots,
		MaxPatientsPerSlot: config.MaxPatientsPerSlot,
		OnlineQuota:        config.OnlineQuota,
		OfflineQuota:       config.OfflineQuota,
		WeeklySlots:        weeklyToResponse(config.WeeklySlots),
		UpdatedAt:          config.UpdatedAt,
	}
}

// DateOverrideToResponse converts a DateOverride entity to DateOverrideResponse DTO
func DateOverrideToResponse(override *entity.DateOverride) *dto.DateOverrideResponse {
	if override == nil {
		return nil
	}

	return &dto.DateOverrideResponse{
		ID:        override.ID,
		DoctorID:  override.DoctorID,
		Date:      entity.FormatDate(override.Date),
		Slots:     SlotsToResponses(override.Slots),
		UpdatedAt: override.UpdatedAt,
	}
}

func DateOverridesToResponses(overrides []entity.DateOverride) []dto.DateOverrideResponse {
	responses := make([]dto.DateOverrideResponse, len(overrides))
	for i := range overrides {
		responses[i] = *DateOverrideToResponse(&overrides[i])
	}
	return responses
}
