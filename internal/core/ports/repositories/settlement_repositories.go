package repositories

import (
	"context"
	"time"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// SettlementReader defines read operations for settlement data
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement by its unique identifier.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// ListSettlementsByGroup retrieves all settlements for a group, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error)

	// FindPendingSettlementBetween looks for a pending settlement between two
	// users in a group, in either direction. Returns apperrors.ErrNotFound
	// when none exists.
	FindPendingSettlementBetween(ctx context.Context, groupID, userAID, userBID string) (*domain.Settlement, error)
}

// SettlementWriter defines write operations for settlement data
type SettlementWriter interface {
	// SaveSettlement persists a new settlement record.
	SaveSettlement(ctx context.Context, settlement domain.Settlement) error

	// SaveSettlementsAtomic persists several settlements in one database
	// transaction; either every record is written or none are. Used by
	// cross-group friend settlement.
	SaveSettlementsAtomic(ctx context.Context, settlements []domain.Settlement) error

	// ConfirmSettlement transitions a settlement to confirmed, serialized
	// against concurrent confirmations of the same record. Returns
	// apperrors.ErrConflict when the settlement is no longer pending.
	ConfirmSettlement(ctx context.Context, settlementID string, confirmedAt time.Time, updatedBy string) error

	// DeleteSettlement removes a settlement record permanently.
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// SettlementRepository combines settlement reads and writes.
type SettlementRepository interface {
	SettlementReader
	SettlementWriter
}

// SettlementRepositoryWithTx extends SettlementRepository with transaction
// capabilities for callers that need to compose multi-step writes.
type SettlementRepositoryWithTx interface {
	SettlementRepository
	TransactionManager
}
