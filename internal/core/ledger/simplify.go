package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// ParticipantBalance is one signed input to debt simplification.
type ParticipantBalance struct {
	UserID string
	Amount decimal.Decimal
}

// Simplify reduces a set of net balances to a small list of payer->payee
// transactions using greedy largest-first matching.
//
// Balances within Tolerance of zero are dropped. Creditors and debtors are
// each sorted descending by amount, ties broken by user ID so identical
// input always yields identical output. The two lists are then consumed with
// a pair of cursors, emitting min(creditor remaining, debtor remaining) each
// step and advancing whichever side is exhausted.
//
// The greedy heuristic minimizes transactions for typical balance
// distributions but is not a provably minimal solution in all topologies.
// Applying every emitted transaction settles each participant to within
// Tolerance of zero.
func Simplify(balances []ParticipantBalance) []domain.SettlementSuggestion {
	var creditors, debtors []ParticipantBalance
	for _, b := range balances {
		if IsZeroish(b.Amount) {
			continue
		}
		if b.Amount.IsPositive() {
			creditors = append(creditors, b)
		} else {
			debtors = append(debtors, ParticipantBalance{UserID: b.UserID, Amount: b.Amount.Abs()})
		}
	}

	sortDescending(creditors)
	sortDescending(debtors)

	var transactions []domain.SettlementSuggestion
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.Amount, debtor.Amount)
		transactions = append(transactions, domain.SettlementSuggestion{
			FromUserID: debtor.UserID,
			ToUserID:   creditor.UserID,
			Amount:     Round2(amount),
		})

		creditor.Amount = creditor.Amount.Sub(amount)
		debtor.Amount = debtor.Amount.Sub(amount)

		if creditor.Amount.LessThan(Tolerance) {
			i++
		}
		if debtor.Amount.LessThan(Tolerance) {
			j++
		}
	}

	return transactions
}

func sortDescending(balances []ParticipantBalance) {
	sort.SliceStable(balances, func(i, j int) bool {
		if !balances[i].Amount.Equal(balances[j].Amount) {
			return balances[i].Amount.GreaterThan(balances[j].Amount)
		}
		return balances[i].UserID < balances[j].UserID
	})
}
