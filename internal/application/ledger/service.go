package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/domain/shared"
)

// maxMutationAttempts bounds the retry loop for mutations that lose a
// race. Row locks make conflicts rare; the retries cover serialization
// failures and version conflicts surfaced at commit time.
const maxMutationAttempts = 3

// Service handles inventory level and transaction ledger operations
type Service struct {
	levelRepo       ledger.InventoryLevelRepository
	transactionRepo ledger.InventoryTransactionRepository
	scope           TransactionScope
	resolver        ReferenceResolver
}

// NewService creates a new ledger Service
func NewService(
	levelRepo ledger.InventoryLevelRepository,
	transactionRepo ledger.InventoryTransactionRepository,
	scope TransactionScope,
	resolver ReferenceResolver,
) *Service {
	return &Service{
		levelRepo:       levelRepo,
		transactionRepo: transactionRepo,
		scope:           scope,
		resolver:        resolver,
	}
}

// GetLevel returns the level for a location-variant pair. A pair with no
// history yields a zero-quantity response; no row is created by reads.
func (s *Service) GetLevel(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*LevelResponse, error) {
	locRef, varRef, err := s.resolveRefs(ctx, tenantID, locationID, itemVariantID)
	if err != nil {
		return nil, err
	}

	level, err := s.levelRepo.FindByKey(ctx, tenantID, locationID, itemVariantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return zeroLevelResponse(locRef, varRef), nil
		}
		return nil, err
	}

	return s.toLevelResponse(level, locRef, varRef), nil
}

// LevelsByLocation returns all levels held at a location
func (s *Service) LevelsByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]LevelResponse, error) {
	locRef, err := s.resolver.ResolveLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}

	levels, err := s.levelRepo.FindByLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}

	responses := make([]LevelResponse, 0, len(levels))
	for _, level := range levels {
		varRef, err := s.resolver.ResolveVariant(ctx, tenantID, level.ItemVariantID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				varRef = &VariantRef{ID: level.ItemVariantID}
			} else {
				return nil, err
			}
		}
		responses = append(responses, *s.toLevelResponse(level, locRef, varRef))
	}
	return responses, nil
}

// LevelsByVariant returns the levels of a variant across all locations
func (s *Service) LevelsByVariant(ctx context.Context, tenantID, itemVariantID uuid.UUID) ([]LevelResponse, error) {
	varRef, err := s.resolver.ResolveVariant(ctx, tenantID, itemVariantID)
	if err != nil {
		return nil, err
	}

	levels, err := s.levelRepo.FindByVariant(ctx, tenantID, itemVariantID)
	if err != nil {
		return nil, err
	}

	responses := make([]LevelResponse, 0, len(levels))
	for _, level := range levels {
		locRef, err := s.resolver.ResolveLocation(ctx, tenantID, level.LocationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				locRef = &LocationRef{ID: level.LocationID}
			} else {
				return nil, err
			}
		}
		responses = append(responses, *s.toLevelResponse(level, locRef, varRef))
	}
	return responses, nil
}

// ListLevels returns levels for a tenant matching the filter
func (s *Service) ListLevels(ctx context.Context, tenantID uuid.UUID, filter LevelListFilter) ([]LevelResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	if filter.ItemVariantID != nil {
		domainFilter.Filters["item_variant_id"] = *filter.ItemVariantID
	}

	levels, err := s.levelRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.levelRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LevelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, *s.enrichLevel(ctx, level))
	}
	return responses, total, nil
}

// LowStock returns the levels at or below their reorder point. Levels
// with a zero reorder point never appear here.
func (s *Service) LowStock(ctx context.Context, tenantID uuid.UUID) ([]LevelResponse, error) {
	levels, err := s.levelRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]LevelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, *s.enrichLevel(ctx, level))
	}
	return responses, nil
}

// AdjustQuantity moves on-hand stock by a signed delta and appends the
// matching ledger row. A COUNT adjustment also stamps the level with the
// count time.
func (s *Service) AdjustQuantity(ctx context.Context, tenantID uuid.UUID, req AdjustQuantityRequest) (*LevelResponse, error) {
	kind := ledger.TransactionKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid transaction kind: "+req.Kind)
	}
	if req.Quantity.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity cannot be zero")
	}

	locRef, varRef, err := s.resolveRefs(ctx, tenantID, req.LocationID, req.ItemVariantID)
	if err != nil {
		return nil, err
	}

	var updated *ledger.InventoryLevel
	err = s.withRetry(ctx, func(repos TransactionalRepositories) error {
		level, err := s.lockLevel(ctx, repos, tenantID, req.LocationID, req.ItemVariantID)
		if err != nil {
			return err
		}

		if err := level.ApplyDelta(req.Quantity); err != nil {
			return err
		}
		if kind == ledger.KindCount {
			level.MarkCounted(time.Now())
		}
		if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
			return err
		}

		tx, err := ledger.NewInventoryTransaction(
			tenantID, req.LocationID, req.ItemVariantID,
			kind, req.Quantity, req.ReferenceType, req.ReferenceID, req.Notes,
		)
		if err != nil {
			return err
		}
		if req.OperatorID != nil {
			tx.WithCreatedBy(*req.OperatorID)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}

		updated = level
		return nil
	})
	if err != nil {
		return nil, s.decorateInsufficient(err, locRef, varRef)
	}

	return s.toLevelResponse(updated, locRef, varRef), nil
}

// Reserve earmarks stock for a pending order. On-hand does not move; the
// ledger records a zero-quantity row so the reservation is auditable.
func (s *Service) Reserve(ctx context.Context, tenantID uuid.UUID, req ReserveRequest) (*LevelResponse, error) {
	locRef, varRef, err := s.resolveRefs(ctx, tenantID, req.LocationID, req.ItemVariantID)
	if err != nil {
		return nil, err
	}

	var updated *ledger.InventoryLevel
	err = s.withRetry(ctx, func(repos TransactionalRepositories) error {
		level, err := s.lockLevel(ctx, repos, tenantID, req.LocationID, req.ItemVariantID)
		if err != nil {
			return err
		}

		if err := level.Reserve(req.Quantity); err != nil {
			return err
		}
		if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
			return err
		}

		tx, err := ledger.NewInventoryTransaction(
			tenantID, req.LocationID, req.ItemVariantID,
			ledger.KindTransferOut, decimal.Zero,
			req.ReferenceType, req.ReferenceID,
			fmt.Sprintf("Reserved %s units", req.Quantity.String()),
		)
		if err != nil {
			return err
		}
		if req.OperatorID != nil {
			tx.WithCreatedBy(*req.OperatorID)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}

		updated = level
		return nil
	})
	if err != nil {
		return nil, s.decorateInsufficient(err, locRef, varRef)
	}

	return s.toLevelResponse(updated, locRef, varRef), nil
}

// Release returns previously reserved stock to the available pool. A pair
// with no level row has nothing reserved, so the lookup itself fails with
// not found rather than creating an empty row.
func (s *Service) Release(ctx context.Context, tenantID uuid.UUID, req ReleaseRequest) (*LevelResponse, error) {
	locRef, varRef, err := s.resolveRefs(ctx, tenantID, req.LocationID, req.ItemVariantID)
	if err != nil {
		return nil, err
	}

	var updated *ledger.InventoryLevel
	err = s.withRetry(ctx, func(repos TransactionalRepositories) error {
		level, err := repos.LevelRepo().FindByKeyForUpdate(ctx, tenantID, req.LocationID, req.ItemVariantID)
		if err != nil {
			return err
		}

		if err := level.Release(req.Quantity); err != nil {
			return err
		}
		if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
			return err
		}

		tx, err := ledger.NewInventoryTransaction(
			tenantID, req.LocationID, req.ItemVariantID,
			ledger.KindTransferIn, decimal.Zero,
			req.ReferenceType, req.ReferenceID,
			fmt.Sprintf("Released %s units from reservation", req.Quantity.String()),
		)
		if err != nil {
			return err
		}
		if req.OperatorID != nil {
			tx.WithCreatedBy(*req.OperatorID)
		}
		if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
			return err
		}

		updated = level
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.toLevelResponse(updated, locRef, varRef), nil
}

// Transfer moves stock between two locations. Both legs run in one
// transaction; a failed destination leg rolls back the source decrement.
func (s *Service) Transfer(ctx context.Context, tenantID uuid.UUID, req TransferRequest) error {
	if !req.Quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Transfer quantity must be positive")
	}
	if req.SourceLocationID == req.DestinationLocationID {
		return shared.NewDomainError("INVALID_OPERATION", "Source and destination locations must differ")
	}

	sourceRef, err := s.resolver.ResolveLocation(ctx, tenantID, req.SourceLocationID)
	if err != nil {
		return err
	}
	destRef, err := s.resolver.ResolveLocation(ctx, tenantID, req.DestinationLocationID)
	if err != nil {
		return err
	}
	varRef, err := s.resolver.ResolveVariant(ctx, tenantID, req.ItemVariantID)
	if err != nil {
		return err
	}

	referenceID := req.ReferenceID
	if referenceID == "" {
		referenceID = uuid.New().String()
	}

	err = s.withRetry(ctx, func(repos TransactionalRepositories) error {
		source, err := s.lockLevel(ctx, repos, tenantID, req.SourceLocationID, req.ItemVariantID)
		if err != nil {
			return err
		}
		if err := source.ApplyDelta(req.Quantity.Neg()); err != nil {
			return err
		}
		if err := repos.LevelRepo().SaveWithLock(ctx, source); err != nil {
			return err
		}

		outTx, err := ledger.NewInventoryTransaction(
			tenantID, req.SourceLocationID, req.ItemVariantID,
			ledger.KindTransferOut, req.Quantity.Neg(),
			"TRANSFER", referenceID,
			fmt.Sprintf("Transfer to %s: %s", destRef.Name, req.Notes),
		)
		if err != nil {
			return err
		}
		if req.OperatorID != nil {
			outTx.WithCreatedBy(*req.OperatorID)
		}
		if err := repos.TransactionRepo().Create(ctx, outTx); err != nil {
			return err
		}

		dest, err := s.lockLevel(ctx, repos, tenantID, req.DestinationLocationID, req.ItemVariantID)
		if err != nil {
			return err
		}
		if err := dest.ApplyDelta(req.Quantity); err != nil {
			return err
		}
		if err := repos.LevelRepo().SaveWithLock(ctx, dest); err != nil {
			return err
		}

		inTx, err := ledger.NewInventoryTransaction(
			tenantID, req.DestinationLocationID, req.ItemVariantID,
			ledger.KindTransferIn, req.Quantity,
			"TRANSFER", referenceID,
			fmt.Sprintf("Transfer from %s: %s", sourceRef.Name, req.Notes),
		)
		if err != nil {
			return err
		}
		if req.OperatorID != nil {
			inTx.WithCreatedBy(*req.OperatorID)
		}
		return repos.TransactionRepo().Create(ctx, inTx)
	})
	if err != nil {
		return s.decorateInsufficient(err, sourceRef, varRef)
	}
	return nil
}

// SetReorderPolicy updates the reorder threshold for a location-variant
// pair, creating the level row if the pair has no history yet.
func (s *Service) SetReorderPolicy(ctx context.Context, tenantID uuid.UUID, req SetReorderPolicyRequest) (*LevelResponse, error) {
	locRef, varRef, err := s.resolveRefs(ctx, tenantID, req.LocationID, req.ItemVariantID)
	if err != nil {
		return nil, err
	}

	var updated *ledger.InventoryLevel
	err = s.withRetry(ctx, func(repos TransactionalRepositories) error {
		level, err := s.lockLevel(ctx, repos, tenantID, req.LocationID, req.ItemVariantID)
		if err != nil {
			return err
		}
		if err := level.SetReorderPolicy(req.ReorderPoint, req.ReorderQuantity); err != nil {
			return err
		}
		if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
			return err
		}
		updated = level
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.toLevelResponse(updated, locRef, varRef), nil
}

// GetTransaction returns a single ledger row scoped to the tenant
func (s *Service) GetTransaction(ctx context.Context, tenantID, txID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactionRepo.FindByID(ctx, tenantID, txID)
	if err != nil {
		return nil, err
	}
	resp := toTransactionResponse(tx)
	return &resp, nil
}

// ListTransactions returns ledger rows for a tenant matching the filter,
// newest first
func (s *Service) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := toTransactionFilter(filter)

	var rows []*ledger.InventoryTransaction
	var err error
	switch {
	case filter.ItemVariantID != nil:
		rows, err = s.transactionRepo.FindByVariant(ctx, tenantID, *filter.ItemVariantID, domainFilter)
	case filter.LocationID != nil:
		rows, err = s.transactionRepo.FindByLocation(ctx, tenantID, *filter.LocationID, domainFilter)
	default:
		rows, err = s.transactionRepo.FindForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, 0, len(rows))
	for _, tx := range rows {
		responses = append(responses, toTransactionResponse(tx))
	}
	return responses, total, nil
}

// withRetry executes the mutation inside the transaction scope, retrying
// a bounded number of times when the transaction loses a concurrency race.
func (s *Service) withRetry(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		err = s.scope.Execute(ctx, fn)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// lockLevel returns the level row locked for update, creating a
// zero-quantity row first when the pair has no history.
func (s *Service) lockLevel(ctx context.Context, repos TransactionalRepositories, tenantID, locationID, itemVariantID uuid.UUID) (*ledger.InventoryLevel, error) {
	if _, err := repos.LevelRepo().GetOrCreate(ctx, tenantID, locationID, itemVariantID); err != nil {
		return nil, err
	}
	return repos.LevelRepo().FindByKeyForUpdate(ctx, tenantID, locationID, itemVariantID)
}

func (s *Service) resolveRefs(ctx context.Context, tenantID, locationID, itemVariantID uuid.UUID) (*LocationRef, *VariantRef, error) {
	locRef, err := s.resolver.ResolveLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, nil, err
	}
	varRef, err := s.resolver.ResolveVariant(ctx, tenantID, itemVariantID)
	if err != nil {
		return nil, nil, err
	}
	return locRef, varRef, nil
}

// decorateInsufficient fills the human-readable identifiers into an
// insufficient inventory error before it crosses the service boundary.
func (s *Service) decorateInsufficient(err error, locRef *LocationRef, varRef *VariantRef) error {
	var insufficientErr *ledger.InsufficientInventoryError
	if errors.As(err, &insufficientErr) {
		insufficientErr.SKU = varRef.SKU
		insufficientErr.LocationName = locRef.Name
	}
	return err
}

// enrichLevel builds a response resolving names best-effort. References
// that have been soft-deleted since the level was written keep their IDs
// but lose their names.
func (s *Service) enrichLevel(ctx context.Context, level *ledger.InventoryLevel) *LevelResponse {
	locRef, err := s.resolver.ResolveLocation(ctx, level.TenantID, level.LocationID)
	if err != nil {
		locRef = &LocationRef{ID: level.LocationID}
	}
	varRef, err := s.resolver.ResolveVariant(ctx, level.TenantID, level.ItemVariantID)
	if err != nil {
		varRef = &VariantRef{ID: level.ItemVariantID}
	}
	return s.toLevelResponse(level, locRef, varRef)
}

func (s *Service) toLevelResponse(level *ledger.InventoryLevel, locRef *LocationRef, varRef *VariantRef) *LevelResponse {
	return &LevelResponse{
		ID:                level.ID,
		LocationID:        level.LocationID,
		LocationName:      locRef.Name,
		ItemVariantID:     level.ItemVariantID,
		SKU:               varRef.SKU,
		ItemName:          varRef.ItemName,
		VariantName:       varRef.VariantName,
		QuantityOnHand:    level.QuantityOnHand,
		QuantityReserved:  level.QuantityReserved,
		QuantityAvailable: level.QuantityAvailable(),
		ReorderPoint:      level.ReorderPoint,
		ReorderQuantity:   level.ReorderQuantity,
		LowStock:          level.IsLowStock(),
		LastCountedAt:     level.LastCountedAt,
		UpdatedAt:         level.UpdatedAt,
		Version:           level.GetVersion(),
	}
}

// zeroLevelResponse is returned for reads against a pair that has never
// been written to. No row is created.
func zeroLevelResponse(locRef *LocationRef, varRef *VariantRef) *LevelResponse {
	return &LevelResponse{
		LocationID:        locRef.ID,
		LocationName:      locRef.Name,
		ItemVariantID:     varRef.ID,
		SKU:               varRef.SKU,
		ItemName:          varRef.ItemName,
		VariantName:       varRef.VariantName,
		QuantityOnHand:    decimal.Zero,
		QuantityReserved:  decimal.Zero,
		QuantityAvailable: decimal.Zero,
		ReorderPoint:      decimal.Zero,
		ReorderQuantity:   decimal.Zero,
	}
}

func toTransactionFilter(filter TransactionListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.ReferenceID != "" {
		domainFilter.Filters["reference_id"] = filter.ReferenceID
	}
	if filter.LocationID != nil {
		domainFilter.Filters["location_id"] = *filter.LocationID
	}
	if filter.ItemVariantID != nil {
		domainFilter.Filters["item_variant_id"] = *filter.ItemVariantID
	}
	return domainFilter
}
