package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/splitmate-app/splitmate_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	groupRepo := newPgxGroupRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	settlementRepo := newPgxSettlementRepository(dbPool)
	friendshipRepo := newPgxFriendshipRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:       userRepo,
		GroupRepo:      groupRepo,
		ExpenseRepo:    expenseRepo,
		SettlementRepo: settlementRepo,
		FriendshipRepo: friendshipRepo,
	}
}
