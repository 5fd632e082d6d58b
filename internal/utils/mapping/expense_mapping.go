package mapping

import (
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense. Splits are
// mapped separately since they live in their own table.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:   d.ExpenseID,
		GroupID:     d.GroupID,
		Title:       d.Title,
		Amount:      d.Amount,
		PaidBy:      d.PaidBy,
		SplitMethod: models.SplitMethod(d.SplitMethod),
		Category:    nullString(d.Category),
		Note:        nullString(d.Note),
		Date:        d.Date,
		AuditFields: ToModelAuditFields(d.AuditFields),
		DeletedAt:   d.DeletedAt,
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		GroupID:     m.GroupID,
		Title:       m.Title,
		Amount:      m.Amount,
		PaidBy:      m.PaidBy,
		SplitMethod: domain.SplitMethod(m.SplitMethod),
		Category:    m.Category.String,
		Note:        m.Note.String,
		Date:        m.Date,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   m.DeletedAt,
	}
}

// ToModelSplit converts a domain Split to a model Split
func ToModelSplit(d domain.Split) models.Split {
	return models.Split{
		SplitID:    d.SplitID,
		ExpenseID:  d.ExpenseID,
		UserID:     d.UserID,
		Amount:     d.Amount,
		Percentage: d.Percentage,
	}
}

// ToDomainSplit converts a model Split to a domain Split
func ToDomainSplit(m models.Split) domain.Split {
	return domain.Split{
		SplitID:    m.SplitID,
		ExpenseID:  m.ExpenseID,
		UserID:     m.UserID,
		Amount:     m.Amount,
		Percentage: m.Percentage,
	}
}

// ToDomainSplitSlice converts a slice of model Splits to a slice of domain Splits
func ToDomainSplitSlice(ms []models.Split) []domain.Split {
	ds := make([]domain.Split, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSplit(m)
	}
	return ds
}
