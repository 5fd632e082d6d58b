package mapping

import (
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/models"
)

// ToModelSettlement converts a domain Settlement to a model Settlement
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement{
		SettlementID: d.SettlementID,
		GroupID:      d.GroupID,
		FromUserID:   d.FromUserID,
		ToUserID:     d.ToUserID,
		Amount:       d.Amount,
		Status:       models.SettlementStatus(d.Status),
		Note:         nullString(d.Note),
		RecordedBy:   d.RecordedBy,
		ConfirmedAt:  d.ConfirmedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSettlement converts a model Settlement to a domain Settlement
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	return domain.Settlement{
		SettlementID: m.SettlementID,
		GroupID:      m.GroupID,
		FromUserID:   m.FromUserID,
		ToUserID:     m.ToUserID,
		Amount:       m.Amount,
		Status:       domain.SettlementStatus(m.Status),
		Note:         m.Note.String,
		RecordedBy:   m.RecordedBy,
		ConfirmedAt:  m.ConfirmedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSettlementSlice converts a slice of model Settlements to a slice of domain Settlements
func ToDomainSettlementSlice(ms []models.Settlement) []domain.Settlement {
	ds := make([]domain.Settlement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSettlement(m)
	}
	return ds
}

// ToModelFriendship converts a domain Friendship to a model Friendship
func ToModelFriendship(d domain.Friendship) models.Friendship {
	return models.Friendship{
		FriendshipID: d.FriendshipID,
		UserAID:      d.UserAID,
		UserBID:      d.UserBID,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainFriendship converts a model Friendship to a domain Friendship
func ToDomainFriendship(m models.Friendship) domain.Friendship {
	return domain.Friendship{
		FriendshipID: m.FriendshipID,
		UserAID:      m.UserAID,
		UserBID:      m.UserBID,
		CreatedAt:    m.CreatedAt,
	}
}
