package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"clinic-scheduling-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func TestTxRunnerRetriesDeadlocks(t *testing.T) {
	db := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	runner := NewTxRunner(db, log, time.Second, 3)

	attempts := 0
	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("lock queue: %w", &pgconn.PgError{Code: pgDeadlockDetected})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success on the third attempt, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestTxRunnerStopsOnOtherErrors(t *testing.T) {
	db := newTestDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	runner := NewTxRunner(db, log, time.Second, 3)
	tenantID := uuid.New()

	attempts := 0
	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		attempts++
		if err := tx.Create(&entity.Patient{TenantID: tenantID, Name: "Ana", Mobile: "0811", Kind: entity.PatientKindPrimary}).Error; err != nil {
			return err
		}
		return ErrSlotFull
	})
	if !errors.Is(err, ErrSlotFull) {
		t.Fatalf("expected ErrSlotFull, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}

	var n int64
	db.Model(&entity.Patient{}).Where("tenant_id = ?", tenantID).Count(&n)
	if n != 0 {
		t.Errorf("expected the insert rolled back, got %d rows", n)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&pgconn.PgError{Code: pgSerializationFailure}, true},
		{fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgDeadlockDetected}), true},
		{&pgconn.PgError{Code: "23505"}, false},
		{errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
