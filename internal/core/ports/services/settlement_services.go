package services

import (
	"context"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
)

// SettlementReaderSvc defines read operations for settlements
type SettlementReaderSvc interface {
	// GetSettlementByID retrieves a settlement.
	// The requesting user must be a member of the settlement's group.
	GetSettlementByID(ctx context.Context, settlementID string, requestingUserID string) (*domain.Settlement, error)

	// ListSettlementsByGroup lists settlements for a group, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string, requestingUserID string) ([]domain.Settlement, error)

	// GetSimplifiedSettlements returns the minimal transfer plan that settles
	// the group's current balances.
	GetSimplifiedSettlements(ctx context.Context, groupID string, requestingUserID string) ([]domain.SettlementSuggestion, error)
}

// SettlementWriterSvc defines write operations for settlements
type SettlementWriterSvc interface {
	// RecordSettlement records a payment between two group members. A
	// settlement recorded by the debtor starts pending; recorded by the
	// creditor it is confirmed immediately. At most one pending settlement
	// may exist per member pair per group.
	RecordSettlement(ctx context.Context, req dto.RecordSettlementRequest, requestingUserID string) (*domain.Settlement, error)

	// ConfirmSettlement transitions a pending settlement to confirmed. Only
	// the creditor may confirm, and the amount is revalidated against the
	// live pairwise balance.
	ConfirmSettlement(ctx context.Context, settlementID string, requestingUserID string) (*domain.Settlement, error)

	// DeleteSettlement removes a pending settlement. Only the recorder or a
	// group admin may delete; confirmed settlements cannot be deleted.
	DeleteSettlement(ctx context.Context, settlementID string, requestingUserID string) error
}

// SettlementSvcFacade combines all settlement-related service interfaces
type SettlementSvcFacade interface {
	SettlementReaderSvc
	SettlementWriterSvc
}
