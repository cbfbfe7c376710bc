package repository

import (
	"errors"

	"clinic-scheduling-service/internal/domain/entity"
	domainRepo "clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) GetDisplayName(db *gorm.DB, tenantID, doctorID uuid.UUID) (string, error) {
	var user entity.User
	err := db.Select("users.full_name").
		Joins("JOIN doctor_profiles ON doctor_profiles.user_id = users.id").
		Where("users.tenant_id = ? AND users.id = ?", tenantID, doctorID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.FullName, nil
}
