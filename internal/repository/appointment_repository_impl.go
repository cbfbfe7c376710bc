package repository

import (
	"errors"

	"clinic-scheduling-service/internal/domain/entity"
	domainRepo "clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, tenantID, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, tenantID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Patient").Where("tenant_id = ?", tenantID)

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Date != nil {
			query = query.Where("date = ?", *filter.Date)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
	}

	err := query.Order("date ASC, queue_order ASC, slot ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBookedByDoctorDate(db *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("tenant_id = ? AND doctor_id = ? AND date = ? AND status <> ?",
		tenantID, doctorID, date, entity.AppointmentStatusCancelled).
		Order("slot ASC, queue_order ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveQueue(db *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("tenant_id = ? AND doctor_id = ? AND date = ? AND status IN ?",
		tenantID, doctorID, date, entity.ActiveQueueStatuses).
		Order("queue_order ASC, slot ASC, created_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateQueueOrder(db *gorm.DB, id uuid.UUID, queueOrder int) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("queue_order", queueOrder).Error
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient").Save(appointment).Error
}
