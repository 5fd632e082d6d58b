package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// SplitInput carries one participant's requested share of an expense.
// Amount is read for the custom method and Percentage for the percentage
// method; both are ignored for equal splits.
type SplitInput struct {
	UserID     string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeSplits divides a positive expense total among the given participants
// according to the split method, returning finalized splits whose amounts sum
// exactly to the total.
//
// For equal splits the per-head share is rounded to two decimals and the
// rounding remainder is assigned to the first participant, so 100/3 yields
// 33.34, 33.33, 33.33.
func ComputeSplits(total decimal.Decimal, method domain.SplitMethod, inputs []SplitInput) ([]domain.Split, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: expense requires at least one participant", apperrors.ErrValidation)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive, got %s", apperrors.ErrValidation, total)
	}

	splits := make([]domain.Split, len(inputs))

	switch method {
	case domain.SplitEqual:
		count := decimal.NewFromInt(int64(len(inputs)))
		share := Round2(total.Div(count))
		pct := Round2(hundred.Div(count))
		remainder := total.Sub(share.Mul(count))
		for i, in := range inputs {
			amount := share
			if i == 0 {
				// First participant absorbs the rounding remainder so the
				// split amounts reconstruct the total exactly.
				amount = share.Add(remainder)
			}
			splits[i] = domain.Split{
				UserID:     in.UserID,
				Amount:     amount,
				Percentage: pct,
			}
		}

	case domain.SplitPercentage:
		totalPct := decimal.Zero
		for _, in := range inputs {
			totalPct = totalPct.Add(in.Percentage)
		}
		if !WithinTolerance(totalPct, hundred) {
			return nil, fmt.Errorf("%w: split percentages must sum to 100, got %s", apperrors.ErrValidation, totalPct)
		}
		for i, in := range inputs {
			splits[i] = domain.Split{
				UserID:     in.UserID,
				Amount:     Round2(total.Mul(in.Percentage).Div(hundred)),
				Percentage: in.Percentage,
			}
		}

	case domain.SplitCustom:
		totalAmount := decimal.Zero
		for _, in := range inputs {
			totalAmount = totalAmount.Add(in.Amount)
		}
		if !WithinTolerance(totalAmount, total) {
			return nil, fmt.Errorf("%w: split amounts must sum to total %s, got %s", apperrors.ErrValidation, total, totalAmount)
		}
		for i, in := range inputs {
			splits[i] = domain.Split{
				UserID:     in.UserID,
				Amount:     in.Amount,
				Percentage: Round2(in.Amount.Mul(hundred).Div(total)),
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown split method %q", apperrors.ErrValidation, method)
	}

	return splits, nil
}
