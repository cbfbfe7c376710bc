package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-scheduling-service/internal/delivery/dto"
	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/repository"
	"clinic-scheduling-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 2025-03-03 is a Monday.
const testDate = "2025-03-03"

type recordedEvent struct {
	action service.AppointmentAction
	event  service.AppointmentEvent
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) NotifyAppointmentEvent(ctx context.Context, action service.AppointmentAction, event service.AppointmentEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{action: action, event: event})
	return nil
}

type fixture struct {
	db           *gorm.DB
	tenantID     uuid.UUID
	doctorID     uuid.UUID
	notifier     *recordingNotifier
	appointments AppointmentUsecase
	slotConfigs  SlotConfigUsecase
	auditLogs    AuditLogUsecase
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.Patient{},
		&entity.Appointment{},
		&entity.ClinicSlotConfig{},
		&entity.DoctorSlotConfig{},
		&entity.DateOverride{},
		&entity.QueueLock{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	repos := AppointmentRepositories{
		Appointment:  repository.NewAppointmentRepository(),
		Patient:      repository.NewPatientRepository(),
		QueueLock:    repository.NewQueueLockRepository(),
		Doctor:       repository.NewDoctorRepository(),
		ClinicConfig: repository.NewClinicSlotConfigRepository(),
		DoctorConfig: repository.NewDoctorSlotConfigRepository(),
		Override:     repository.NewDateOverrideRepository(),
	}
	auditRepo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(log, auditRepo)
	resolver := service.NewSlotConfigResolver(service.SlotDefaults{MaxPatients: 1, OnlineQuota: 0})
	notifier := &recordingNotifier{}
	tx := NewTxRunner(db, log, 5*time.Second, 3)

	return &fixture{
		db:           db,
		tenantID:     uuid.New(),
		doctorID:     uuid.New(),
		notifier:     notifier,
		appointments: NewAppointmentUsecase(db, log, tx, repos, resolver, service.NewAvailabilityCalculator(), audit, notifier),
		slotConfigs:  NewSlotConfigUsecase(db, log, tx, repos.ClinicConfig, repos.DoctorConfig, repos.Override, audit),
		auditLogs:    NewAuditLogUsecase(db, log, auditRepo),
	}
}

// withDoctorSlots gives the fixture doctor a Monday schedule with the given capacity.
func (f *fixture) withDoctorSlots(t *testing.T, maxPatients, onlineQuota int, starts ...string) {
	t.Helper()

	slots := make([]dto.SlotDefinitionRequest, 0, len(starts))
	for _, start := range starts {
		begin, err := time.Parse(entity.ClockLayout, start)
		if err != nil {
			t.Fatalf("bad slot %q: %v", start, err)
		}
		slots = append(slots, dto.SlotDefinitionRequest{
			StartTime: start,
			EndTime:   begin.Add(30 * time.Minute).Format(entity.ClockLayout),
		})
	}

	_, err := f.slotConfigs.UpsertDoctorConfig(context.Background(), f.tenantID, f.doctorID, &dto.UpsertDoctorSlotConfigRequest{
		MaxPatientsPerSlot: maxPatients,
		OnlineQuota:        onlineQuota,
		WeeklySlots:        dto.WeeklySlotsRequest{"Monday": slots},
	})
	if err != nil {
		t.Fatalf("failed to configure doctor slots: %v", err)
	}
}

func (f *fixture) book(name, mobile, slot string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		Name:     name,
		Mobile:   mobile,
		DoctorID: f.doctorID,
		Date:     testDate,
		Slot:     slot,
	}
}

func (f *fixture) mustBook(t *testing.T, req *dto.CreateAppointmentRequest) *dto.AppointmentResponse {
	t.Helper()
	appointment, err := f.appointments.CreateAppointment(context.Background(), f.tenantID, req)
	if err != nil {
		t.Fatalf("booking %s at %s failed: %v", req.Name, req.Slot, err)
	}
	return appointment
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Where("tenant_id = ?", f.tenantID).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

// activeQueueOrders returns the queue orders of the doctor's active appointments on testDate.
func (f *fixture) activeQueueOrders(t *testing.T) map[uuid.UUID]int {
	t.Helper()
	date, _ := entity.ParseDate(testDate)
	queue, err := repository.NewAppointmentRepository().FindActiveQueue(f.db, f.tenantID, f.doctorID, date)
	if err != nil {
		t.Fatalf("failed to load queue: %v", err)
	}
	orders := make(map[uuid.UUID]int, len(queue))
	for _, a := range queue {
		orders[a.ID] = a.QueueOrder
	}
	return orders
}

func assertContiguous(t *testing.T, orders map[uuid.UUID]int) {
	t.Helper()
	seen := make(map[int]bool, len(orders))
	for _, order := range orders {
		if order < 1 || order > len(orders) || seen[order] {
			t.Fatalf("queue orders are not exactly 1..%d: %v", len(orders), orders)
		}
		seen[order] = true
	}
}
