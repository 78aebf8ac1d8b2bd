package domain

// Store is the storage abstraction injected into the service layer. The
// production backend wraps Postgres; tests use an in-memory implementation.
type Store interface {
	Users() UserRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository

	// WithTransaction executes fn within a single atomic unit. Every
	// repository operation performed through the Store handed to fn is
	// committed together, or not at all when fn returns an error.
	WithTransaction(fn func(Store) error) error
}
