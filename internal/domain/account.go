package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Balance         decimal.Decimal `json:"balance"`
	UserID          int64           `json:"user_id"`
	ParentAccountID *int64          `json:"parent_account_id,omitempty"`
	IsParentAccount bool            `json:"is_parent_account"`
	CreatedAt       time.Time       `json:"created_at"`
}

type AccountRepository interface {
	// CreateAccount persists the account and fills in its ID and CreatedAt.
	CreateAccount(account *Account) error
	GetAccountByID(id int64) (*Account, error)
	// GetAccountByIDForUpdate locks the account row for the duration of the
	// enclosing store transaction.
	GetAccountByIDForUpdate(id int64) (*Account, error)
	// GetAccountsByUserID returns the accounts owned by the user, ordered by id.
	GetAccountsByUserID(userID int64) ([]Account, error)
	// GetAccountsByUserOrChildren returns the accounts owned by the user plus
	// the accounts owned by any user whose parent is that user, ordered by id.
	GetAccountsByUserOrChildren(userID int64) ([]Account, error)
	// GetFirstAccountByUserID returns the user's earliest-created account,
	// or (nil, nil) when the user has none.
	GetFirstAccountByUserID(userID int64) (*Account, error)
	UpdateAccountBalance(id int64, newBalance decimal.Decimal) error
}
