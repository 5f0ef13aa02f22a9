package ledger

import (
	"context"

	"github.com/store/backoffice/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. Both repositories share the same underlying
// database transaction, so a level mutation and its transaction row
// always land together or not at all.
type TransactionalRepositories interface {
	// LevelRepo returns the inventory level repository scoped to the current transaction
	LevelRepo() ledger.InventoryLevelRepository
	// TransactionRepo returns the inventory transaction repository scoped to the current transaction
	TransactionRepo() ledger.InventoryTransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	levelRepo       ledger.InventoryLevelRepository
	transactionRepo ledger.InventoryTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	levelRepo ledger.InventoryLevelRepository,
	transactionRepo ledger.InventoryTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		levelRepo:       levelRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LevelRepo returns the inventory level repository.
func (s *NoOpTransactionScope) LevelRepo() ledger.InventoryLevelRepository {
	return s.levelRepo
}

// TransactionRepo returns the inventory transaction repository.
func (s *NoOpTransactionScope) TransactionRepo() ledger.InventoryTransactionRepository {
	return s.transactionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
