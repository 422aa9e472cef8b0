package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Accounts  AccountRepository
	Journal   JournalRepository
	Documents DocumentRepository
	Invoices  InvoiceRepository
	Payments  PaymentRepository
	Parties   PartyRepository
	Products  ProductRepository
}
