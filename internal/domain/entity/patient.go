package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientKind distinguishes the first person registered under a mobile number from
// family members booked with the same number.
type PatientKind string

const (
	PatientKindPrimary   PatientKind = "primary"
	PatientKindDependent PatientKind = "dependent"
)

// Patient is the identity record appointments point at, deduplicated by (name, mobile)
type Patient struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_patients_identity,priority:1;index:idx_patients_mobile,priority:1" json:"tenant_id"`
	Name      string      `gorm:"type:varchar(255);not null;uniqueIndex:idx_patients_identity,priority:2" json:"name"`
	Mobile    string      `gorm:"type:varchar(20);not null;uniqueIndex:idx_patients_identity,priority:3;index:idx_patients_mobile,priority:2" json:"mobile"`
	Email     string      `gorm:"type:varchar(255)" json:"email,omitempty"`
	Age       *int        `json:"age,omitempty"`
	Gender    string      `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Address   string      `gorm:"type:text" json:"address,omitempty"`
	Kind      PatientKind `gorm:"type:varchar(10);not null" json:"kind"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PatientDemographics holds the optional fields refreshed on repeat bookings.
// Empty values leave the stored field untouched.
type PatientDemographics struct {
	Email   string
	Age     *int
	Gender  string
	Address string
}

// Changes returns the column updates d would apply to p.
func (d PatientDemographics) Changes(p *Patient) map[string]interface{} {
	changes := map[string]interface{}{}
	if d.Email != "" && d.Email != p.Email {
		changes["email"] = d.Email
	}
	if d.Age != nil && (p.Age == nil || *p.Age != *d.Age) {
		changes["age"] = *d.Age
	}
	if d.Gender != "" && d.Gender != p.Gender {
		changes["gender"] = d.Gender
	}
	if d.Address != "" && d.Address != p.Address {
		changes["address"] = d.Address
	}
	return changes
}
