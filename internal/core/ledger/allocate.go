package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// AllocateSettlement distributes a single friend-to-friend settlement amount
// proportionally across the shared groups that contribute to the pair's net
// balance.
//
// The breakdown comes from FriendBalances and is signed from the user's
// perspective (positive = friend owes user). When currencyCode is non-empty
// only groups in that currency participate; an allocation never mixes
// currencies, so a breakdown spanning several currencies requires a filter.
//
// Each contributing group receives round2(|groupBalance| * amount/|net|),
// directed by the sign of that group's balance. Allocations under Tolerance
// are skipped. The signed sum of the emitted allocations equals the requested
// amount within Tolerance.
func AllocateSettlement(breakdown []domain.GroupBalance, userID, friendID string, amount decimal.Decimal, currencyCode string) ([]domain.Allocation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: settlement amount must be positive, got %s", apperrors.ErrValidation, amount)
	}

	restricted := make([]domain.GroupBalance, 0, len(breakdown))
	currencies := make(map[string]struct{})
	net := decimal.Zero
	for _, gb := range breakdown {
		if currencyCode != "" && gb.CurrencyCode != currencyCode {
			continue
		}
		restricted = append(restricted, gb)
		currencies[gb.CurrencyCode] = struct{}{}
		net = net.Add(gb.Balance)
	}

	if len(currencies) > 1 {
		return nil, fmt.Errorf("%w: balances span multiple currencies, a currency filter is required", apperrors.ErrValidation)
	}

	netAbs := net.Abs()
	if netAbs.LessThanOrEqual(Tolerance) {
		return nil, fmt.Errorf("%w: no outstanding balance to settle", apperrors.ErrValidation)
	}
	if amount.GreaterThan(netAbs.Add(Tolerance)) {
		return nil, fmt.Errorf("%w: settlement amount %s exceeds net balance %s", apperrors.ErrValidation, amount, netAbs)
	}

	ratio := amount.Div(netAbs)

	allocations := make([]domain.Allocation, 0, len(restricted))
	for _, gb := range restricted {
		settleAmount := Round2(gb.Balance.Abs().Mul(ratio))
		if settleAmount.LessThan(Tolerance) {
			continue
		}
		alloc := domain.Allocation{
			GroupID:   gb.GroupID,
			GroupName: gb.GroupName,
			Amount:    settleAmount,
		}
		if gb.Balance.IsPositive() {
			// Friend owes the user in this group.
			alloc.FromUserID = friendID
			alloc.ToUserID = userID
		} else {
			alloc.FromUserID = userID
			alloc.ToUserID = friendID
		}
		allocations = append(allocations, alloc)
	}

	return allocations, nil
}
