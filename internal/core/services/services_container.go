package services

import (
	portsrepo "github.com/splitmate-app/splitmate_backend/internal/core/ports/repositories"
	portssvc "github.com/splitmate-app/splitmate_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.UserSvc = NewUserService(repos.UserRepo)

	// Group service first since the other services authorize through it.
	container.GroupSvc = NewGroupService(repos.GroupRepo, repos.UserRepo, repos.FriendshipRepo, repos.ExpenseRepo)

	container.ExpenseSvc = NewExpenseService(repos.ExpenseRepo, container.GroupSvc)
	container.SettlementSvc = NewSettlementService(repos.SettlementRepo, repos.ExpenseRepo, container.GroupSvc)
	container.FriendSvc = NewFriendService(repos.FriendshipRepo, repos.UserRepo, repos.ExpenseRepo, repos.SettlementRepo)

	return container
}

// Compile time interface implementation checks
var (
	_ portssvc.UserSvcFacade       = (*userService)(nil)
	_ portssvc.GroupSvcFacade      = (*groupService)(nil)
	_ portssvc.ExpenseSvcFacade    = (*expenseService)(nil)
	_ portssvc.SettlementSvcFacade = (*settlementService)(nil)
	_ portssvc.FriendSvcFacade     = (*friendService)(nil)
)
