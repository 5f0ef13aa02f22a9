package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	appledger "github.com/store/backoffice/internal/application/ledger"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres error codes that signal a retryable write collision.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// GormLedgerScope runs ledger mutations inside a database transaction.
// Repositories handed to the callback share the transaction handle, so
// a returned error rolls back every write made through them.
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs fn within a transaction
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{
			levelRepo:       NewGormInventoryLevelRepository(tx),
			transactionRepo: NewGormInventoryTransactionRepository(tx),
		}
		return fn(repos)
	})
	return translateConflict(err)
}

// translateConflict maps Postgres serialization failures and deadlocks
// onto the conflict sentinel so callers can retry with errors.Is.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}

type gormTransactionalRepositories struct {
	levelRepo       *GormInventoryLevelRepository
	transactionRepo *GormInventoryTransactionRepository
}

func (r *gormTransactionalRepositories) LevelRepo() ledger.InventoryLevelRepository {
	return r.levelRepo
}

func (r *gormTransactionalRepositories) TransactionRepo() ledger.InventoryTransactionRepository {
	return r.transactionRepo
}

var (
	_ appledger.TransactionScope          = (*GormLedgerScope)(nil)
	_ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
