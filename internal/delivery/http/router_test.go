package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-scheduling-service/config"
	"clinic-scheduling-service/internal/delivery/http/handler"
	"clinic-scheduling-service/internal/delivery/http/middleware"
	"clinic-scheduling-service/internal/domain/entity"
	"clinic-scheduling-service/internal/repository"
	"clinic-scheduling-service/internal/service"
	"clinic-scheduling-service/internal/usecase"
	"clinic-scheduling-service/pkg/jwt"
	"clinic-scheduling-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	handler  http.Handler
	token    string
	tenantID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	err = db.AutoMigrate(&entity.User{}, &entity.DoctorProfile{}, &entity.Patient{}, &entity.Appointment{},
		&entity.ClinicSlotConfig{}, &entity.DoctorSlotConfig{}, &entity.DateOverride{}, &entity.QueueLock{}, &entity.AuditLog{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	repos := usecase.AppointmentRepositories{
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
	tx := usecase.NewTxRunner(db, log, 5*time.Second, 1)
	notifier := service.NewFanOutNotifier(log, time.Second, service.NewLogAppointmentNotifier(log))

	appointments := usecase.NewAppointmentUsecase(db, log, tx, repos,
		service.NewSlotConfigResolver(service.SlotDefaults{MaxPatients: 1}), service.NewAvailabilityCalculator(), audit, notifier)
	slotConfigs := usecase.NewSlotConfigUsecase(db, log, tx, repos.ClinicConfig, repos.DoctorConfig, repos.Override, audit)
	auditLogs := usecase.NewAuditLogUsecase(db, log, auditRepo)

	v := validator.NewValidator()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-secret", AccessExpiry: time.Minute})

	router := NewRouter(
		handler.NewAppointmentHandler(appointments, v),
		handler.NewSlotConfigHandler(slotConfigs, v),
		handler.NewAuditLogHandler(auditLogs),
		middleware.NewAuthMiddleware(jwtService, nil, log),
		middleware.NewCORSMiddleware(),
	)

	tenantID := uuid.New()
	token, _, err := jwtService.GenerateAccessToken(uuid.New(), tenantID, "desk@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	return &testServer{handler: router.Setup(), token: token, tenantID: tenantID}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	return rec, envelope
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected public health check, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil)
	preflight.Header.Set("Origin", "https://desk.example.com")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, preflight)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected CORS preflight answered, got %d %v", rec.Code, rec.Header())
	}
}

func TestRouterBookingFlow(t *testing.T) {
	s := newTestServer(t)
	doctorID := uuid.New()

	rec, _ := s.do(t, http.MethodPut, "/api/v1/slot-config/doctors/"+doctorID.String(),
		`{"max_patients_per_slot":1,"weekly_slots":{"monday":[{"start_time":"09:00","end_time":"09:30"}]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected doctor config saved, got %d: %s", rec.Code, rec.Body.String())
	}

	booking := `{"name":"Ana","mobile":"0811","doctor_id":"` + doctorID.String() + `","date":"2025-03-03","slot":"09:00"}`
	rec, body := s.do(t, http.MethodPost, "/api/v1/appointments", booking)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]interface{})
	appointmentID, _ := data["id"].(string)
	if data["queue_order"] != float64(1) {
		t.Errorf("expected queue order 1, got %v", data["queue_order"])
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/appointments",
		`{"name":"Budi","mobile":"0812","doctor_id":"`+doctorID.String()+`","date":"2025-03-03","slot":"09:00"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on a full slot, got %d", rec.Code)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/appointments",
		`{"name":"Budi","mobile":"0812","doctor_id":"`+doctorID.String()+`","date":"2025-03-03","slot":"11:00"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on an unknown slot, got %d", rec.Code)
	}

	rec, body = s.do(t, http.MethodGet, "/api/v1/doctors/"+doctorID.String()+"/available-slots?date=2025-03-03", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ = body["data"].(map[string]interface{})
	slots, _ := data["slots"].([]interface{})
	if len(slots) != 1 || slots[0].(map[string]interface{})["available"] != float64(0) {
		t.Errorf("expected the slot reported full, got %v", data)
	}

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/appointments/"+appointmentID+"/status", `{"status":"cancelled"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cancel to succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/appointments/"+appointmentID+"/reorder", `{"steps":1}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 reordering a cancelled appointment, got %d", rec.Code)
	}

	rec, body = s.do(t, http.MethodGet, "/api/v1/appointments/"+appointmentID+"/audit-logs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ = body["data"].(map[string]interface{})
	if data["total"] != float64(2) {
		t.Errorf("expected create and status audit entries, got %v", data["total"])
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
