package repository

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"familynest/internal/domain"
	"familynest/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	now := time.Now()
	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.AccountID,
		tx.Amount.String(),
		tx.Description,
		now,
	)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction created successfully", "transaction_id", tx.ID, "account_id", tx.AccountID)
	return nil
}

func (r *transactionRepository) GetTransactionsByAccountID(accountID int64) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, amount, description, created_at
		FROM transactions WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var transaction domain.Transaction
		var amountStr string

		err := rows.Scan(
			&transaction.ID,
			&transaction.AccountID,
			&amountStr,
			&transaction.Description,
			&transaction.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
		}
		transaction.Amount = amount

		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}

	return transactions, nil
}
