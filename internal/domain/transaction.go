package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable balance adjustment on an account. A positive
// amount is a credit, a negative amount a debit.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TransactionRepository interface {
	// CreateTransaction persists the transaction and fills in its CreatedAt.
	CreateTransaction(tx *Transaction) error
	// GetTransactionsByAccountID returns the account's transactions ordered
	// by creation time descending.
	GetTransactionsByAccountID(accountID int64) ([]Transaction, error)
}
