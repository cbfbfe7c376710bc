package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidWeekday      = errors.New("invalid weekday name")
	ErrInvalidSlotRange    = errors.New("slot end time must be after start time")
	ErrInvalidSlotCapacity = errors.New("slot max patients must be at least 1")
	ErrDuplicateSlot       = errors.New("duplicate slot start time")
)

// SlotDefinition is one bookable time-of-day unit. MaxPatients falls back to the
// resolved default capacity when nil.
type SlotDefinition struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxPatients *int   `json:"max_patients,omitempty"`
}

// Capacity returns the slot's own limit or def.
func (s SlotDefinition) Capacity(def int) int {
	if s.MaxPatients != nil {
		return *s.MaxPatients
	}
	return def
}

// SlotList is an ordered list of slots stored as a JSON column.
type SlotList []SlotDefinition

// Normalize validates every slot, pads times to HH:MM and sorts by start time.
func (l SlotList) Normalize() (SlotList, error) {
	out := make(SlotList, 0, len(l))
	seen := make(map[string]bool, len(l))
	for _, s := range l {
		start, err := NormalizeClock(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("start_time %q: %w", s.StartTime, err)
		}
		end, err := NormalizeClock(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("end_time %q: %w", s.EndTime, err)
		}
		if end <= start {
			return nil, fmt.Errorf("%s-%s: %w", start, end, ErrInvalidSlotRange)
		}
		if s.MaxPatients != nil && *s.MaxPatients < 1 {
			return nil, fmt.Errorf("%s: %w", start, ErrInvalidSlotCapacity)
		}
		if seen[start] {
			return nil, fmt.Errorf("%s: %w", start, ErrDuplicateSlot)
		}
		seen[start] = true
		out = append(out, SlotDefinition{StartTime: start, EndTime: end, MaxPatients: s.MaxPatients})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *SlotList) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*l = SlotList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// WeeklySchedule maps weekday names (Monday..Sunday) to their slot lists.
type WeeklySchedule map[string]SlotList

// ForWeekday returns the slots of day, tolerating exact, lower-case and upper-case keys.
func (w WeeklySchedule) ForWeekday(day time.Weekday) SlotList {
	name := day.String()
	for _, key := range []string{name, strings.ToLower(name), strings.ToUpper(name)} {
		if slots, ok := w[key]; ok {
			return slots
		}
	}
	return SlotList{}
}

// Normalize rejects unknown day names and malformed slots, returning a copy keyed by
// canonical weekday names with each day sorted.
func (w WeeklySchedule) Normalize() (WeeklySchedule, error) {
	out := make(WeeklySchedule, len(w))
	for key, slots := range w {
		day, ok := ParseWeekday(key)
		if !ok {
			return nil, fmt.Errorf("%q: %w", key, ErrInvalidWeekday)
		}
		normalized, err := slots.Normalize()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		if _, dup := out[day.String()]; dup {
			return nil, fmt.Errorf("%s defined twice: %w", day, ErrInvalidWeekday)
		}
		out[day.String()] = normalized
	}
	return out, nil
}

func (w WeeklySchedule) Value() (driver.Value, error) {
	if w == nil {
		return "{}", nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (w *WeeklySchedule) Scan(value interface{}) error {
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*w = WeeklySchedule{}
		return nil
	}
	return json.Unmarshal(b, w)
}

// ParseWeekday matches a weekday name case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(strings.TrimSpace(name), d.String()) {
			return d, true
		}
	}
	return time.Sunday, false
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New(fmt.Sprint("Failed to unmarshal JSON value:", value))
	}
}

// ClinicSlotConfig is the tenant-wide weekly schedule (one per tenant).
type ClinicSlotConfig struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"tenant_id"`
	WeeklySlots WeeklySchedule `gorm:"type:jsonb;not null" json:"weekly_slots"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicSlotConfig) TableName() string {
	return "clinic_slot_configs"
}

func (c *ClinicSlotConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DoctorSlotConfig carries a doctor's own weekly schedule and capacity numbers.
// When UsesClinicSlots is set only the capacity numbers are used.
type DoctorSlotConfig struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_doctor_slot_configs_doctor,priority:1" json:"tenant_id"`
	DoctorID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_doctor_slot_configs_doctor,priority:2" json:"doctor_id"`
	UsesClinicSlots    bool           `gorm:"not null" json:"uses_clinic_slots"`
	MaxPatientsPerSlot int            `gorm:"not null" json:"max_patients_per_slot"`
	OnlineQuota        int            `gorm:"not null" json:"online_quota"`
	OfflineQuota       int            `gorm:"not null" json:"offline_quota"`
	WeeklySlots        WeeklySchedule `gorm:"type:jsonb;not null" json:"weekly_slots"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorSlotConfig) TableName() string {
	return "doctor_slot_configs"
}

func (c *DoctorSlotConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DateOverride fully replaces the weekly schedule for one date. A nil DoctorID
// applies clinic-wide.
type DateOverride struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_date_overrides_lookup,priority:1" json:"tenant_id"`
	DoctorID  *uuid.UUID     `gorm:"type:uuid;index:idx_date_overrides_lookup,priority:3" json:"doctor_id,omitempty"`
	Date      datatypes.Date `gorm:"type:date;not null;index:idx_date_overrides_lookup,priority:2" json:"date"`
	Slots     SlotList       `gorm:"type:jsonb;not null" json:"slots"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DateOverride) TableName() string {
	return "date_overrides"
}

func (o *DateOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// DateOverrideFilter narrows override listings. Zero values mean "any".
type DateOverrideFilter struct {
	DoctorID *uuid.UUID
	From     *datatypes.Date
	To       *datatypes.Date
}
