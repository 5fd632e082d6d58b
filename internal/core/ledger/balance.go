package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// GroupSnapshot is a consistent read of everything balance computation needs
// for one group: the member list, the non-deleted expenses with their splits,
// and the confirmed settlements. Pending settlements must not be included.
type GroupSnapshot struct {
	Group       domain.Group
	Members     []domain.GroupMember
	Expenses    []domain.Expense
	Settlements []domain.Settlement
}

// GroupBalances computes each member's net balance from a group snapshot.
//
// Every member starts at zero, so members untouched by any expense still
// appear in the output. Each expense credits its payer with the full amount
// and debits each split owner with their share; each confirmed settlement
// credits the debtor (paying reduces what they owe) and debits the creditor.
func GroupBalances(snap GroupSnapshot) []domain.NetBalance {
	balances := make(map[string]decimal.Decimal, len(snap.Members))
	order := make([]string, 0, len(snap.Members))
	for _, m := range snap.Members {
		balances[m.UserID] = decimal.Zero
		order = append(order, m.UserID)
	}

	for _, exp := range snap.Expenses {
		balances[exp.PaidBy] = balances[exp.PaidBy].Add(exp.Amount)
		for _, split := range exp.Splits {
			balances[split.UserID] = balances[split.UserID].Sub(split.Amount)
		}
	}

	for _, s := range snap.Settlements {
		balances[s.FromUserID] = balances[s.FromUserID].Add(s.Amount)
		balances[s.ToUserID] = balances[s.ToUserID].Sub(s.Amount)
	}

	result := make([]domain.NetBalance, 0, len(order))
	for _, userID := range order {
		result = append(result, domain.NetBalance{UserID: userID, Balance: balances[userID]})
	}
	return result
}

// PairwiseBalance computes the net balance between two users within one
// group snapshot. A positive result means fromUser owes toUser.
//
// Only expenses where one of the pair paid and the other holds a split
// contribute; settlements between the pair shift the balance in the
// direction of the payment.
func PairwiseBalance(snap GroupSnapshot, fromUserID, toUserID string) decimal.Decimal {
	balance := decimal.Zero

	for _, exp := range snap.Expenses {
		switch exp.PaidBy {
		case toUserID:
			if split, ok := findSplit(exp.Splits, fromUserID); ok {
				balance = balance.Add(split.Amount)
			}
		case fromUserID:
			if split, ok := findSplit(exp.Splits, toUserID); ok {
				balance = balance.Sub(split.Amount)
			}
		}
	}

	for _, s := range snap.Settlements {
		if s.FromUserID == fromUserID && s.ToUserID == toUserID {
			balance = balance.Sub(s.Amount)
		} else if s.FromUserID == toUserID && s.ToUserID == fromUserID {
			balance = balance.Add(s.Amount)
		}
	}

	return balance
}

// FriendBalances reduces the shared-group snapshots of two users into a
// per-group breakdown (positive = friend owes user) and per-currency totals.
// Groups whose pairwise balance rounds to zero are dropped. Totals are kept
// per currency label and never summed across currencies.
func FriendBalances(shared []GroupSnapshot, userID, friendID string) ([]domain.GroupBalance, []domain.CurrencyBalance) {
	breakdown := make([]domain.GroupBalance, 0, len(shared))
	totals := make(map[string]decimal.Decimal)
	currencyOrder := make([]string, 0, 2)

	for _, snap := range shared {
		// PairwiseBalance(friend→user) is positive when the friend owes the user.
		balance := PairwiseBalance(snap, friendID, userID)
		if IsZeroish(balance) {
			continue
		}
		balance = Round2(balance)
		breakdown = append(breakdown, domain.GroupBalance{
			GroupID:      snap.Group.GroupID,
			GroupName:    snap.Group.Name,
			CurrencyCode: snap.Group.CurrencyCode,
			Balance:      balance,
		})
		if _, seen := totals[snap.Group.CurrencyCode]; !seen {
			currencyOrder = append(currencyOrder, snap.Group.CurrencyCode)
		}
		totals[snap.Group.CurrencyCode] = totals[snap.Group.CurrencyCode].Add(balance)
	}

	currencyTotals := make([]domain.CurrencyBalance, 0, len(currencyOrder))
	for _, code := range currencyOrder {
		currencyTotals = append(currencyTotals, domain.CurrencyBalance{
			CurrencyCode: code,
			Balance:      Round2(totals[code]),
		})
	}
	return breakdown, currencyTotals
}

func findSplit(splits []domain.Split, userID string) (domain.Split, bool) {
	for _, s := range splits {
		if s.UserID == userID {
			return s, true
		}
	}
	return domain.Split{}, false
}
