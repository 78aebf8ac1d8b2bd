package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"familynest/internal/domain"
	"familynest/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, balance, user_id, parent_account_id, is_parent_account, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	var parentAccountID interface{}
	if account.ParentAccountID != nil {
		parentAccountID = *account.ParentAccountID
	}

	err := r.db.QueryRow(
		query,
		account.Name,
		account.Balance.String(),
		account.UserID,
		parentAccountID,
		account.IsParentAccount,
		now,
	).Scan(&account.ID)

	if err != nil {
		r.logger.Error("Failed to create account", "user_id", account.UserID, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	account.CreatedAt = now
	r.logger.Info("Account created successfully", "account_id", account.ID, "user_id", account.UserID)
	return nil
}

func (r *accountRepository) GetAccountByID(id int64) (*domain.Account, error) {
	query := `
		SELECT id, name, balance, user_id, parent_account_id, is_parent_account, created_at
		FROM accounts WHERE id = $1
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) GetAccountByIDForUpdate(id int64) (*domain.Account, error) {
	query := `
		SELECT id, name, balance, user_id, parent_account_id, is_parent_account, created_at
		FROM accounts WHERE id = $1 FOR UPDATE
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) scanAccount(query string, id int64) (*domain.Account, error) {
	account, err := scanAccountRow(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", id)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "account_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}
	return account, nil
}

func (r *accountRepository) GetAccountsByUserID(userID int64) ([]domain.Account, error) {
	query := `
		SELECT id, name, balance, user_id, parent_account_id, is_parent_account, created_at
		FROM accounts WHERE user_id = $1
		ORDER BY id
	`

	return r.queryAccounts(query, userID)
}

func (r *accountRepository) GetAccountsByUserOrChildren(userID int64) ([]domain.Account, error) {
	query := `
		SELECT a.id, a.name, a.balance, a.user_id, a.parent_account_id, a.is_parent_account, a.created_at
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1 OR u.parent_id = $1
		ORDER BY a.id
	`

	return r.queryAccounts(query, userID)
}

func (r *accountRepository) GetFirstAccountByUserID(userID int64) (*domain.Account, error) {
	query := `
		SELECT id, name, balance, user_id, parent_account_id, is_parent_account, created_at
		FROM accounts WHERE user_id = $1
		ORDER BY id LIMIT 1
	`

	account, err := scanAccountRow(r.db.QueryRow(query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get first account", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}
	return account, nil
}

func (r *accountRepository) queryAccounts(query string, arg interface{}) ([]domain.Account, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, errors.NewAppError(errors.InternalError, "failed to scan account").WithDetails(err.Error())
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}

	return accounts, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string
	var parentAccountID sql.NullInt64

	err := row.Scan(
		&account.ID,
		&account.Name,
		&balanceStr,
		&account.UserID,
		&parentAccountID,
		&account.IsParentAccount,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, err
	}
	account.Balance = balance

	if parentAccountID.Valid {
		account.ParentAccountID = &parentAccountID.Int64
	}

	return &account, nil
}

func (r *accountRepository) UpdateAccountBalance(id int64, newBalance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(query, newBalance.String(), id)
	if err != nil {
		r.logger.Error("Failed to update account balance", "account_id", id, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update account balance").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", id)
		return errors.ErrAccountNotFound
	}

	r.logger.Info("Account balance updated", "account_id", id, "new_balance", newBalance)
	return nil
}
