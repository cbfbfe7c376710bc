package service

import (
	"time"

	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SlotSourceOverride = "override"
	SlotSourceDoctor   = "doctor"
	SlotSourceClinic   = "clinic"
	SlotSourceNone     = "none"
)

// SlotDefaults are the capacity numbers used when no doctor config provides them.
type SlotDefaults struct {
	MaxPatients int
	OnlineQuota int
}

// ResolvedSlots is the effective slot configuration of one doctor-day.
type ResolvedSlots struct {
	Slots              entity.SlotList
	DefaultMaxPatients int
	OnlineQuota        int
	Source             string
}

// SlotConfigReader reads the three configuration tiers. Implementations are bound to
// a database handle, usually the caller's transaction.
type SlotConfigReader interface {
	DateOverride(tenantID uuid.UUID, doctorID *uuid.UUID, date datatypes.Date) (*entity.DateOverride, error)
	DoctorConfig(tenantID, doctorID uuid.UUID) (*entity.DoctorSlotConfig, error)
	ClinicConfig(tenantID uuid.UUID) (*entity.ClinicSlotConfig, error)
}

// SlotLookup is the state shared by the sources while resolving one doctor-day.
// The doctor config is read at most once.
type SlotLookup struct {
	TenantID uuid.UUID
	DoctorID uuid.UUID
	Date     datatypes.Date
	Weekday  time.Weekday

	reader       SlotConfigReader
	defaults     SlotDefaults
	doctorLoaded bool
	doctor       *entity.DoctorSlotConfig
}

func (l *SlotLookup) Reader() SlotConfigReader {
	return l.reader
}

func (l *SlotLookup) DoctorConfig() (*entity.DoctorSlotConfig, error) {
	if l.doctorLoaded {
		return l.doctor, nil
	}
	cfg, err := l.reader.DoctorConfig(l.TenantID, l.DoctorID)
	if err != nil {
		return nil, err
	}
	l.doctor = cfg
	l.doctorLoaded = true
	return cfg, nil
}

// Capacity returns the doctor's capacity numbers if the doctor has a config,
// otherwise the system defaults.
func (l *SlotLookup) Capacity() (maxPatients, onlineQuota int, err error) {
	cfg, err := l.DoctorConfig()
	if err != nil {
		return 0, 0, err
	}
	if cfg == nil {
		return l.defaults.MaxPatients, l.defaults.OnlineQuota, nil
	}
	maxPatients = cfg.MaxPatientsPerSlot
	if maxPatients < 1 {
		maxPatients = l.defaults.MaxPatients
	}
	return maxPatients, cfg.OnlineQuota, nil
}

func (l *SlotLookup) resolved(slots entity.SlotList, source string) (*ResolvedSlots, error) {
	maxPatients, onlineQuota, err := l.Capacity()
	if err != nil {
		return nil, err
	}
	return &ResolvedSlots{
		Slots:              slots,
		DefaultMaxPatients: maxPatients,
		OnlineQuota:        onlineQuota,
		Source:             source,
	}, nil
}

// SlotSource is one tier of the precedence chain. A nil result means the source has
// no answer for the lookup and the next source is asked.
type SlotSource interface {
	Resolve(lookup *SlotLookup) (*ResolvedSlots, error)
}

// DateOverrideSource answers with a doctor-specific override, then a clinic-wide one.
type DateOverrideSource struct{}

func (DateOverrideSource) Resolve(lookup *SlotLookup) (*ResolvedSlots, error) {
	doctorID := lookup.DoctorID
	override, err := lookup.Reader().DateOverride(lookup.TenantID, &doctorID, lookup.Date)
	if err != nil {
		return nil, err
	}
	if override == nil {
		override, err = lookup.Reader().DateOverride(lookup.TenantID, nil, lookup.Date)
		if err != nil {
			return nil, err
		}
	}
	if override == nil {
		return nil, nil
	}
	return lookup.resolved(override.Slots, SlotSourceOverride)
}

// DoctorScheduleSource answers when the doctor keeps a weekly schedule of their own.
type DoctorScheduleSource struct{}

func (DoctorScheduleSource) Resolve(lookup *SlotLookup) (*ResolvedSlots, error) {
	cfg, err := lookup.DoctorConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil || cfg.UsesClinicSlots {
		return nil, nil
	}
	return lookup.resolved(cfg.WeeklySlots.ForWeekday(lookup.Weekday), SlotSourceDoctor)
}

// ClinicScheduleSource answers with the tenant-wide weekly schedule.
type ClinicScheduleSource struct{}

func (ClinicScheduleSource) Resolve(lookup *SlotLookup) (*ResolvedSlots, error) {
	cfg, err := lookup.Reader().ClinicConfig(lookup.TenantID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}
	return lookup.resolved(cfg.WeeklySlots.ForWeekday(lookup.Weekday), SlotSourceClinic)
}

// DefaultSlotSources is the precedence order: date override, doctor schedule, clinic schedule.
func DefaultSlotSources() []SlotSource {
	return []SlotSource{DateOverrideSource{}, DoctorScheduleSource{}, ClinicScheduleSource{}}
}

type SlotConfigResolver interface {
	Resolve(reader SlotConfigReader, tenantID, doctorID uuid.UUID, date datatypes.Date) (*ResolvedSlots, error)
}

type slotConfigResolver struct {
	defaults SlotDefaults
	sources  []SlotSource
}

// NewSlotConfigResolver builds a resolver over sources, falling back to DefaultSlotSources.
func NewSlotConfigResolver(defaults SlotDefaults, sources ...SlotSource) SlotConfigResolver {
	if len(sources) == 0 {
		sources = DefaultSlotSources()
	}
	return &slotConfigResolver{
		defaults: defaults,
		sources:  sources,
	}
}

// Resolve asks each source in order and returns the first answer, or an empty
// slot list when nothing is configured.
func (r *slotConfigResolver) Resolve(reader SlotConfigReader, tenantID, doctorID uuid.UUID, date datatypes.Date) (*ResolvedSlots, error) {
	lookup := &SlotLookup{
		TenantID: tenantID,
		DoctorID: doctorID,
		Date:     date,
		Weekday:  entity.Weekday(date),
		reader:   reader,
		defaults: r.defaults,
	}

	for _, source := range r.sources {
		resolved, err := source.Resolve(lookup)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			return resolved, nil
		}
	}

	return lookup.resolved(entity.SlotList{}, SlotSourceNone)
}

type repositorySlotReader struct {
	db           *gorm.DB
	clinicRepo   repository.ClinicSlotConfigRepository
	doctorRepo   repository.DoctorSlotConfigRepository
	overrideRepo repository.DateOverrideRepository
}

// NewRepositorySlotReader reads slot configuration through the repositories using db.
func NewRepositorySlotReader(
	db *gorm.DB,
	clinicRepo repository.ClinicSlotConfigRepository,
	doctorRepo repository.DoctorSlotConfigRepository,
	overrideRepo repository.DateOverrideRepository,
) SlotConfigReader {
	return &repositorySlotReader{
		db:           db,
		clinicRepo:   clinicRepo,
		doctorRepo:   doctorRepo,
		overrideRepo: overrideRepo,
	}
}

func (r *repositorySlotReader) DateOverride(tenantID uuid.UUID, doctorID *uuid.UUID, date datatypes.Date) (*entity.DateOverride, error) {
	return r.overrideRepo.FindForDate(r.db, tenantID, doctorID, date)
}

func (r *repositorySlotReader) DoctorConfig(tenantID, doctorID uuid.UUID) (*entity.DoctorSlotConfig, error) {
	return r.doctorRepo.FindByDoctor(r.db, tenantID, doctorID)
}

func (r *repositorySlotReader) ClinicConfig(tenantID uuid.UUID) (*entity.ClinicSlotConfig, error) {
	return r.clinicRepo.FindByTenant(r.db, tenantID)
}
