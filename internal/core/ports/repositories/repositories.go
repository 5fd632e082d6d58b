package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service layer.
type RepositoryProvider struct {
	UserRepo       UserRepository
	GroupRepo      GroupRepository
	ExpenseRepo    ExpenseRepository
	SettlementRepo SettlementRepositoryWithTx
	FriendshipRepo FriendshipRepository
}
