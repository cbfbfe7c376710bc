package repository

import (
	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, tenantID, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB, tenantID uuid.UUID, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindBookedByDoctorDate returns every non-cancelled appointment of the doctor-day.
	FindBookedByDoctorDate(db *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date) ([]entity.Appointment, error)
	// FindActiveQueue returns the non-terminal appointments of the doctor-day in queue order.
	FindActiveQueue(db *gorm.DB, tenantID, doctorID uuid.UUID, date datatypes.Date) ([]entity.Appointment, error)
	UpdateQueueOrder(db *gorm.DB, id uuid.UUID, queueOrder int) error
	Update(db *gorm.DB, appointment *entity.Appointment) error
}
