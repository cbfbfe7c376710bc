package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// TxRunner runs units of work in a database transaction under a deadline and retries
// those that Postgres aborted to break a deadlock or serialization conflict.
type TxRunner struct {
	db          *gorm.DB
	log         *logrus.Logger
	timeout     time.Duration
	maxAttempts int
}

func NewTxRunner(db *gorm.DB, log *logrus.Logger, timeout time.Duration, maxAttempts int) *TxRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TxRunner{
		db:          db,
		log:         log,
		timeout:     timeout,
		maxAttempts: maxAttempts,
	}
}

// Run calls fn with a fresh transaction until it commits, fails with a
// non-retryable error, or the attempts are used up. Any error from fn rolls the
// transaction back.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		r.log.Warnf("Retrying transaction after attempt %d: %+v", attempt, err)
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit().Error
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
