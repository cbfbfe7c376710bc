package usecase

import (
	"context"
	"fmt"
	"strings"

	"clinic-scheduling-service/internal/converter"
	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/delivery/http/middleware"
	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/domain/repository"
	"clinic-scheduling-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SlotConfigUsecase interface {
	GetClinicConfig(ctx context.Context, tenantID uuid.UUID) (*dto.ClinicSlotConfigResponse, error)
	UpsertClinicConfig(ctx context.Context, tenantID uuid.UUID, req *dto.UpsertClinicSlotConfigRequest) (*dto.ClinicSlotConfigResponse, error)
	GetDoctorConfig(ctx context.Context, tenantID, doctorID uuid.UUID) (*dto.DoctorSlotConfigResponse, error)
	UpsertDoctorConfig(ctx context.Context, tenantID, doctorID uuid.UUID, req *dto.UpsertDoctorSlotConfigRequest) (*dto.DoctorSlotConfigResponse, error)
	ListDateOverrides(ctx context.Context, tenantID uuid.UUID, req *dto.DateOverrideFilterRequest) (*dto.DateOverrideListResponse, error)
	UpsertDateOverride(ctx context.Context, tenantID uuid.UUID, req *dto.UpsertDateOverrideRequest) (*dto.DateOverrideResponse, error)
	DeleteDateOverride(ctx context.Context, tenantID, id uuid.UUID) error
}

type slotConfigUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	tx           *TxRunner
	clinicRepo   repository.ClinicSlotConfigRepository
	doctorRepo   repository.DoctorSlotConfigRepository
	overrideRepo repository.DateOverrideRepository
	audit        service.AuditService
}

func NewSlotConfigUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	tx *TxRunner,
	clinicRepo repository.ClinicSlotConfigRepository,
	doctorRepo repository.DoctorSlotConfigRepository,
	overrideRepo repository.DateOverrideRepository,
	audit service.AuditService,
) SlotConfigUsecase {
	return &slotConfigUsecase{
		db:           db,
		log:          log,
		tx:           tx,
		clinicRepo:   clinicRepo,
		doctorRepo:   doctorRepo,
		overrideRepo: overrideRepo,
		audit:        audit,
	}
}

func (u *slotConfigUsecase) GetClinicConfig(ctx context.Context, tenantID uuid.UUID) (*dto.ClinicSlotConfigResponse, error) {
	config, err := u.clinicRepo.FindByTenant(u.db.WithContext(ctx), tenantID)
	if err != nil {
		u.log.Warnf("Failed to find clinic slot config: %+v", err)
		return nil, err
	}
	if config == nil {
		return nil, ErrClinicConfigNotFound
	}

	return converter.ClinicSlotConfigToResponse(config), nil
}

func (u *slotConfigUsecase) UpsertClinicConfig(ctx context.Context, tenantID uuid.UUID, req *dto.UpsertClinicSlotConfigRequest) (*dto.ClinicSlotConfigResponse, error) {
	weekly, err := converter.WeeklyScheduleFromRequest(req.WeeklySlots).Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	var saved *entity.ClinicSlotConfig
	err = u.tx.Run(ctx, func(tx *gorm.DB) error {
		previous, err := u.clinicRepo.FindByTenant(tx, tenantID)
		if err != nil {
			return err
		}

		if err := u.clinicRepo.Upsert(tx, &entity.ClinicSlotConfig{TenantID: tenantID, WeeklySlots: weekly}); err != nil {
			return err
		}
		saved, err = u.clinicRepo.FindByTenant(tx, tenantID)
		if err != nil {
			return err
		}

		var oldValue interface{}
		if previous != nil {
			oldValue = previous.WeeklySlots
		}
		return u.audit.LogUpdate(ctx, tx, configAuditEntry(ctx, tenantID, "clinic_slot_config", saved.ID), oldValue, saved.WeeklySlots)
	})
	if err != nil {
		u.log.Warnf("Failed to upsert clinic slot config: %+v", err)
		return nil, err
	}

	u.log.Infof("Clinic slot config saved for tenant %s", tenantID)
	return converter.ClinicSlotConfigToResponse(saved), nil
}

func (u *slotConfigUsecase) GetDoctorConfig(ctx context.Context, tenantID, doctorID uuid.UUID) (*dto.DoctorSlotConfigResponse, error) {
	config, err := u.doctorRepo.FindByDoctor(u.db.WithContext(ctx), tenantID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor slot config: %+v", err)
		return nil, err
	}
	if config == nil {
		return nil, ErrDoctorConfigNotFound
	}

	return converter.DoctorSlotConfigToResponse(config), nil
}

func (u *slotConfigUsecase) UpsertDoctorConfig(ctx context.Context, tenantID, doctorID uuid.UUID, req *dto.UpsertDoctorSlotConfigRequest) (*dto.DoctorSlotConfigResponse, error) {
	if doctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	if req.MaxPatientsPerSlot < 1 || req.OnlineQuota < 0 || req.OfflineQuota < 0 {
		return nil, ErrInvalidCapacity
	}
	weekly, err := converter.WeeklyScheduleFromRequest(req.WeeklySlots).Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	var saved *entity.DoctorSlotConfig
	err = u.tx.Run(ctx, func(tx *gorm.DB) error {
		previous, err := u.doctorRepo.FindByDoctor(tx, tenantID, doctorID)
		if err != nil {
			return err
		}

		config := &entity.DoctorSlotConfig{
			TenantID:           tenantID,
			DoctorID:           doctorID,
			UsesClinicSlots:    req.UsesClinicSlots,
			MaxPatientsPerSlot: req.MaxPatientsPerSlot,
			OnlineQuota:        req.OnlineQuota,
			OfflineQuota:       req.OfflineQuota,
			WeeklySlots:        weekly,
		}
		if err := u.doctorRepo.Upsert(tx, config); err != nil {
			return err
		}
		saved, err = u.doctorRepo.FindByDoctor(tx, tenantID, doctorID)
		if err != nil {
			return err
		}

		var oldValue interface{}
		if previous != nil {
			oldValue = doctorConfigSnapshot(previous)
		}
		return u.audit.LogUpdate(ctx, tx, configAuditEntry(ctx, tenantID, "doctor_slot_config", saved.ID), oldValue, doctorConfigSnapshot(saved))
	})
	if err != nil {
		u.log.Warnf("Failed to upsert doctor slot config: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor slot config saved for doctor %s", doctorID)
	return converter.DoctorSlotConfigToResponse(saved), nil
}

func (u *slotConfigUsecase) ListDateOverrides(ctx context.Context, tenantID uuid.UUID, req *dto.DateOverrideFilterRequest) (*dto.DateOverrideListResponse, error) {
	filter := &entity.DateOverrideFilter{}
	if req != nil {
		if req.DoctorID != "" {
			id, err := uuid.Parse(req.DoctorID)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid doctor_id", ErrValidation)
			}
			filter.DoctorID = &id
		}
		if req.From != "" {
			from, err := entity.ParseDate(req.From)
			if err != nil {
				return nil, ErrInvalidDate
			}
			filter.From = &from
		}
		if req.To != "" {
			to, err := entity.ParseDate(req.To)
			if err != nil {
				return nil, ErrInvalidDate
			}
			filter.To = &to
		}
	}

	overrides, err := u.overrideRepo.FindAll(u.db.WithContext(ctx), tenantID, filter)
	if err != nil {
		u.log.Warnf("Failed to find date overrides: %+v", err)
		return nil, err
	}

	return &dto.DateOverrideListResponse{
		Overrides: converter.DateOverridesToResponses(overrides),
		Total:     len(overrides),
	}, nil
}

// UpsertDateOverride replaces the slot list of (doctor, date), or of the whole clinic
// when no doctor is given.
func (u *slotConfigUsecase) UpsertDateOverride(ctx context.Context, tenantID uuid.UUID, req *dto.UpsertDateOverrideRequest) (*dto.DateOverrideResponse, error) {
	if strings.TrimSpace(req.Date) == "" {
		return nil, ErrDateRequired
	}
	date, err := entity.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	slots, err := converter.SlotsFromRequest(req.Slots).Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	doctorID := req.DoctorID
	if doctorID != nil && *doctorID == uuid.Nil {
		doctorID = nil
	}

	var saved *entity.DateOverride
	upsert := func(tx *gorm.DB) error {
		existing, err := u.overrideRepo.FindForDate(tx, tenantID, doctorID, date)
		if err != nil {
			return err
		}

		var oldValue interface{}
		override := existing
		if override == nil {
			override = &entity.DateOverride{TenantID: tenantID, DoctorID: doctorID, Date: date}
		} else {
			oldValue = override.Slots
		}
		override.Slots = slots

		if err := u.overrideRepo.Save(tx, override); err != nil {
			return err
		}
		saved = override

		entry := configAuditEntry(ctx, tenantID, "date_override", override.ID)
		entry.Action = entity.AuditActionOverrideUpsert
		return u.audit.LogUpdate(ctx, tx, entry, oldValue, override.Slots)
	}

	err = u.tx.Run(ctx, upsert)
	if isUniqueViolation(err) {
		// Another request inserted the same override first; a second pass updates it.
		u.log.Warnf("Retrying date override upsert after unique violation: %+v", err)
		err = u.tx.Run(ctx, upsert)
		if isUniqueViolation(err) {
			err = ErrOverrideConflict
		}
	}
	if err != nil {
		u.log.Warnf("Failed to upsert date override: %+v", err)
		return nil, err
	}

	u.log.Infof("Date override saved for %s", entity.FormatDate(date))
	return converter.DateOverrideToResponse(saved), nil
}

func (u *slotConfigUsecase) DeleteDateOverride(ctx context.Context, tenantID, id uuid.UUID) error {
	err := u.tx.Run(ctx, func(tx *gorm.DB) error {
		existing, err := u.overrideRepo.FindByID(tx, tenantID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrOverrideNotFound
		}

		affected, err := u.overrideRepo.Delete(tx, tenantID, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrOverrideNotFound
		}

		entry := configAuditEntry(ctx, tenantID, "date_override", id)
		entry.Action = entity.AuditActionOverrideDelete
		return u.audit.LogDelete(ctx, tx, entry, map[string]interface{}{
			"date":  entity.FormatDate(existing.Date),
			"slots": existing.Slots,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to delete date override %s: %+v", id, err)
		return err
	}

	return nil
}

func configAuditEntry(ctx context.Context, tenantID uuid.UUID, entityName string, id uuid.UUID) service.AuditEntry {
	entry := service.AuditEntry{
		TenantID: tenantID,
		Action:   entity.AuditActionSlotConfigUpdate,
		Entity:   entityName,
		EntityID: id.String(),
	}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		entry.UserID = &userID
	}
	return entry
}

func doctorConfigSnapshot(c *entity.DoctorSlotConfig) map[string]interface{} {
	return map[string]interface{}{
		"uses_clinic_slots":     c.UsesClinicSlots,
		"max_patients_per_slot": c.MaxPatientsPerSlot,
		"online_quota":          c.OnlineQuota,
		"offline_quota":         c.OfflineQuota,
		"weekly_slots":          c.WeeklySlots,
	}
}
