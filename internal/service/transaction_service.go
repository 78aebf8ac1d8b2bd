package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"familynest/internal/domain"
)

type TransactionService struct {
	store    domain.Store
	accounts *AccountService
	logger   *slog.Logger
}

func NewTransactionService(store domain.Store, accounts *AccountService, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:    store,
		accounts: accounts,
		logger:   logger,
	}
}

// GetTransactionsByAccountID returns the account's transactions, most
// recent first.
func (s *TransactionService) GetTransactionsByAccountID(accountID int64) ([]domain.Transaction, error) {
	if _, err := s.accounts.GetAccountByID(accountID); err != nil {
		return nil, err
	}
	return s.store.Transactions().GetTransactionsByAccountID(accountID)
}

type CreateTransactionRequest struct {
	AccountID   int64
	Amount      decimal.Decimal
	Description string
}

// CreateTransaction adjusts the account balance by the amount and records
// the transaction. Both effects commit as one atomic unit, so a failure
// leaves neither behind.
func (s *TransactionService) CreateTransaction(req *CreateTransactionRequest) (*domain.Transaction, error) {
	s.logger.Info("Creating transaction",
		"account_id", req.AccountID,
		"amount", req.Amount,
		"description", req.Description)

	transaction := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
	}

	err := s.store.WithTransaction(func(tx domain.Store) error {
		if _, err := s.accounts.applyBalanceDelta(tx, req.AccountID, req.Amount); err != nil {
			return err
		}
		return tx.Transactions().CreateTransaction(transaction)
	})
	if err != nil {
		s.logger.Error("Transaction creation failed", "account_id", req.AccountID, "error", err)
		return nil, err
	}

	s.logger.Info("Transaction created", "transaction_id", transaction.ID)
	return transaction, nil
}
