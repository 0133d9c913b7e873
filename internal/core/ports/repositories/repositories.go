package repositories

// RepositoryProvider bundles every repository the service container needs.
type RepositoryProvider struct {
	UserRepo         UserRepositoryWithTx
	CustomerRepo     CustomerRepositoryFacade
	CompanyRepo      CompanyRepositoryFacade
	PaymentRepo      PaymentRepositoryWithTx
	NotificationRepo NotificationRepositoryFacade
	TelegramChatRepo TelegramChatRepositoryFacade
}
