package services

// ServiceContainer holds all the services facades
type ServiceContainer struct {
	UserSvc       UserSvcFacade
	GroupSvc      GroupSvcFacade
	ExpenseSvc    ExpenseSvcFacade
	SettlementSvc SettlementSvcFacade
	FriendSvc     FriendSvcFacade
}
