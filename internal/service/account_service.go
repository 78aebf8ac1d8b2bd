package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"familynest/internal/domain"
	"familynest/internal/errors"
)

type AccountService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewAccountService(store domain.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

// GetAccountsByUserID returns the accounts visible to the user: parents see
// their own accounts plus every direct child's, children only their own.
func (s *AccountService) GetAccountsByUserID(userID int64) ([]domain.Account, error) {
	user, err := s.store.Users().GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.Role == domain.RoleParent {
		return s.store.Accounts().GetAccountsByUserOrChildren(userID)
	}
	return s.store.Accounts().GetAccountsByUserID(userID)
}

func (s *AccountService) GetAccountByID(id int64) (*domain.Account, error) {
	return s.store.Accounts().GetAccountByID(id)
}

type CreateAccountRequest struct {
	UserID          int64
	Name            string
	IsParentAccount bool
}

func (s *AccountService) CreateAccount(req *CreateAccountRequest) (*domain.Account, error) {
	s.logger.Info("Creating account", "user_id", req.UserID, "name", req.Name, "is_parent_account", req.IsParentAccount)

	if req.Name == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "account name is required")
	}

	user, err := s.store.Users().GetUserByID(req.UserID)
	if err != nil {
		return nil, err
	}

	if req.IsParentAccount && user.Role != domain.RoleParent {
		return nil, errors.NewAppError(errors.ValidationFailed, "only parent users can create parent accounts")
	}

	account := &domain.Account{
		Name:            req.Name,
		Balance:         decimal.Zero,
		UserID:          req.UserID,
		IsParentAccount: req.IsParentAccount,
	}

	// A child's account links to the parent's earliest account.
	if !req.IsParentAccount && user.ParentID != nil {
		parentAccount, err := s.store.Accounts().GetFirstAccountByUserID(*user.ParentID)
		if err != nil {
			return nil, err
		}
		if parentAccount != nil {
			account.ParentAccountID = &parentAccount.ID
		}
	}

	if err := s.store.Accounts().CreateAccount(account); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccountBalance adds delta (signed) to the account balance. Negative
// balances are permitted.
func (s *AccountService) UpdateAccountBalance(accountID int64, delta decimal.Decimal) (*domain.Account, error) {
	var updated *domain.Account
	err := s.store.WithTransaction(func(tx domain.Store) error {
		account, err := s.applyBalanceDelta(tx, accountID, delta)
		if err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyBalanceDelta performs the read-modify-write balance update inside an
// already open store transaction, locking the account row so concurrent
// updates on the same account cannot lose a write.
func (s *AccountService) applyBalanceDelta(tx domain.Store, accountID int64, delta decimal.Decimal) (*domain.Account, error) {
	account, err := tx.Accounts().GetAccountByIDForUpdate(accountID)
	if err != nil {
		return nil, err
	}

	account.Balance = account.Balance.Add(delta)
	if err := tx.Accounts().UpdateAccountBalance(accountID, account.Balance); err != nil {
		return nil, err
	}

	return account, nil
}
