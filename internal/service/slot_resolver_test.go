package service

import (
	"errors"
	"testing"
	"time"

	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type fakeSlotReader struct {
	clinic          *entity.ClinicSlotConfig
	doctors         map[uuid.UUID]*entity.DoctorSlotConfig
	overrides       []entity.DateOverride
	doctorReads     int
	overrideQueries int
	err             error
}

func (f *fakeSlotReader) DateOverride(tenantID uuid.UUID, doctorID *uuid.UUID, date datatypes.Date) (*entity.DateOverride, error) {
	f.overrideQueries++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.overrides {
		o := f.overrides[i]
		if o.TenantID != tenantID || !entity.SameDate(o.Date, date) {
			continue
		}
		if (doctorID == nil) != (o.DoctorID == nil) {
			continue
		}
		if doctorID != nil && *doctorID != *o.DoctorID {
			continue
		}
		return &o, nil
	}
	return nil, nil
}

func (f *fakeSlotReader) DoctorConfig(tenantID, doctorID uuid.UUID) (*entity.DoctorSlotConfig, error) {
	f.doctorReads++
	if cfg, ok := f.doctors[doctorID]; ok && cfg.TenantID == tenantID {
		return cfg, nil
	}
	return nil, nil
}

func (f *fakeSlotReader) ClinicConfig(tenantID uuid.UUID) (*entity.ClinicSlotConfig, error) {
	if f.clinic != nil && f.clinic.TenantID == tenantID {
		return f.clinic, nil
	}
	return nil, nil
}

func startTimes(slots entity.SlotList) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	tenantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	doctorID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	// 2025-03-03 is a Monday.
	monday = entity.NewDate(2025, time.March, 3)
)

func clinicWithMondaySlots() *entity.ClinicSlotConfig {
	return &entity.ClinicSlotConfig{
		TenantID: tenantID,
		WeeklySlots: entity.WeeklySchedule{
			"Monday": {
				{StartTime: "09:00", EndTime: "09:30"},
				{StartTime: "09:30", EndTime: "10:00"},
			},
		},
	}
}

func TestResolveOverrideIsExclusive(t *testing.T) {
	reader := &fakeSlotReader{
		clinic: clinicWithMondaySlots(),
		overrides: []entity.DateOverride{{
			TenantID: tenantID,
			Date:     monday,
			Slots:    entity.SlotList{{StartTime: "14:00", EndTime: "14:30"}},
		}},
	}
	resolver := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1})

	resolved, err := resolver.Resolve(reader, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := startTimes(resolved.Slots); !equalStrings(got, []string{"14:00"}) {
		t.Errorf("expected only the override slot, got %v", got)
	}
	if resolved.Source != SlotSourceOverride {
		t.Errorf("expected source %s, got %s", SlotSourceOverride, resolved.Source)
	}
}

func TestResolveDoctorOverrideBeatsClinicOverride(t *testing.T) {
	doctor := doctorID
	reader := &fakeSlotReader{
		overrides: []entity.DateOverride{
			{TenantID: tenantID, Date: monday, Slots: entity.SlotList{{StartTime: "08:00", EndTime: "08:30"}}},
			{TenantID: tenantID, DoctorID: &doctor, Date: monday, Slots: entity.SlotList{{StartTime: "15:00", EndTime: "15:30"}}},
		},
	}

	resolved, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(reader, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := startTimes(resolved.Slots); !equalStrings(got, []string{"15:00"}) {
		t.Errorf("expected the doctor override, got %v", got)
	}
}

func TestResolveEmptyOverrideClosesDay(t *testing.T) {
	reader := &fakeSlotReader{
		clinic:    clinicWithMondaySlots(),
		overrides: []entity.DateOverride{{TenantID: tenantID, Date: monday, Slots: entity.SlotList{}}},
	}

	resolved, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(reader, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved.Slots) != 0 {
		t.Errorf("expected no slots, got %v", startTimes(resolved.Slots))
	}
}

func TestResolveDoctorSchedule(t *testing.T) {
	reader := &fakeSlotReader{
		clinic: clinicWithMondaySlots(),
		doctors: map[uuid.UUID]*entity.DoctorSlotConfig{
			doctorID: {
				TenantID:           tenantID,
				DoctorID:           doctorID,
				MaxPatientsPerSlot: 4,
				OnlineQuota:        2,
				WeeklySlots: entity.WeeklySchedule{
					"monday": {{StartTime: "13:00", EndTime: "13:30"}},
				},
			},
		},
	}

	resolved, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(reader, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := startTimes(resolved.Slots); !equalStrings(got, []string{"13:00"}) {
		t.Errorf("expected the doctor's lower-case Monday slots, got %v", got)
	}
	if resolved.DefaultMaxPatients != 4 || resolved.OnlineQuota != 2 {
		t.Errorf("expected doctor capacity 4/2, got %d/%d", resolved.DefaultMaxPatients, resolved.OnlineQuota)
	}
	if resolved.Source != SlotSourceDoctor {
		t.Errorf("expected source %s, got %s", SlotSourceDoctor, resolved.Source)
	}
	if reader.doctorReads != 1 {
		t.Errorf("expected the doctor config to be read once, got %d", reader.doctorReads)
	}
}

func TestResolveClinicScheduleWithDoctorQuota(t *testing.T) {
	reader := &fakeSlotReader{
		clinic: clinicWithMondaySlots(),
		doctors: map[uuid.UUID]*entity.DoctorSlotConfig{
			doctorID: {
				TenantID:           tenantID,
				DoctorID:           doctorID,
				UsesClinicSlots:    true,
				MaxPatientsPerSlot: 5,
				OnlineQuota:        2,
			},
		},
	}

	resolved, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(reader, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := startTimes(resolved.Slots); !equalStrings(got, []string{"09:00", "09:30"}) {
		t.Errorf("expected clinic Monday slots, got %v", got)
	}
	if resolved.DefaultMaxPatients != 5 || resolved.OnlineQuota != 2 {
		t.Errorf("expected doctor capacity 5/2, got %d/%d", resolved.DefaultMaxPatients, resolved.OnlineQuota)
	}
	if resolved.Source != SlotSourceClinic {
		t.Errorf("expected source %s, got %s", SlotSourceClinic, resolved.Source)
	}
}

func TestResolveClinicScheduleWithSystemDefaults(t *testing.T) {
	reader := &fakeSlotReader{clinic: clinicWithMondaySlots()}

	resolved, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1, OnlineQuota: 0}).Resolve(reader, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.DefaultMaxPatients != 1 || resolved.OnlineQuota != 0 {
		t.Errorf("expected defaults 1/0, got %d/%d", resolved.DefaultMaxPatients, resolved.OnlineQuota)
	}
}

func TestResolveNothingConfigured(t *testing.T) {
	resolved, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(&fakeSlotReader{}, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved.Slots) != 0 || resolved.Source != SlotSourceNone {
		t.Errorf("expected empty result from source none, got %+v", resolved)
	}

	tuesday := entity.NewDate(2025, time.March, 4)
	resolved, err = NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(&fakeSlotReader{clinic: clinicWithMondaySlots()}, tenantID, doctorID, tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved.Slots) != 0 {
		t.Errorf("expected no Tuesday slots, got %v", startTimes(resolved.Slots))
	}
}

func TestResolvePropagatesReaderErrors(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1}).Resolve(&fakeSlotReader{err: boom}, tenantID, doctorID, monday)
	if !errors.Is(err, boom) {
		t.Errorf("expected reader error, got %v", err)
	}
}

type staticSource struct {
	slots entity.SlotList
	calls *int
}

func (s staticSource) Resolve(lookup *SlotLookup) (*ResolvedSlots, error) {
	*s.calls++
	if s.slots == nil {
		return nil, nil
	}
	return lookup.resolved(s.slots, "static")
}

func TestResolveShortCircuitsOnFirstAnswer(t *testing.T) {
	var first, second, third int
	resolver := NewSlotConfigResolver(SlotDefaults{MaxPatients: 1},
		staticSource{calls: &first},
		staticSource{slots: entity.SlotList{{StartTime: "10:00", EndTime: "10:30"}}, calls: &second},
		staticSource{slots: entity.SlotList{{StartTime: "11:00", EndTime: "11:30"}}, calls: &third},
	)

	resolved, err := resolver.Resolve(&fakeSlotReader{}, tenantID, doctorID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := startTimes(resolved.Slots); !equalStrings(got, []string{"10:00"}) {
		t.Errorf("expected the second source's answer, got %v", got)
	}
	if first != 1 || second != 1 || third != 0 {
		t.Errorf("unexpected source calls: %d %d %d", first, second, third)
	}
}
