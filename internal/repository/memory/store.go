// Package memory provides an in-memory implementation of domain.Store,
// used as the test backend in place of Postgres.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"familynest/internal/domain"
	"familynest/internal/errors"
)

type data struct {
	users         map[int64]domain.User
	accounts      map[int64]domain.Account
	transactions  []domain.Transaction
	nextUserID    int64
	nextAccountID int64
}

func (d *data) clone() *data {
	users := make(map[int64]domain.User, len(d.users))
	for id, u := range d.users {
		users[id] = u
	}
	accounts := make(map[int64]domain.Account, len(d.accounts))
	for id, a := range d.accounts {
		accounts[id] = a
	}
	transactions := make([]domain.Transaction, len(d.transactions))
	copy(transactions, d.transactions)

	return &data{
		users:         users,
		accounts:      accounts,
		transactions:  transactions,
		nextUserID:    d.nextUserID,
		nextAccountID: d.nextAccountID,
	}
}

// Store keeps all state behind a single mutex. WithTransaction works on a
// snapshot that replaces the live data only on success, so a failed unit
// leaves nothing behind, and commits are fully serialized.
type Store struct {
	mu   *sync.Mutex
	data *data
	inTx bool
}

var _ domain.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		data: &data{
			users:         make(map[int64]domain.User),
			accounts:      make(map[int64]domain.Account),
			nextUserID:    1,
			nextAccountID: 1,
		},
	}
}

func (s *Store) Users() domain.UserRepository {
	return &userRepo{s}
}

func (s *Store) Accounts() domain.AccountRepository {
	return &accountRepo{s}
}

func (s *Store) Transactions() domain.TransactionRepository {
	return &transactionRepo{s}
}

func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	if s.inTx {
		// Already inside a unit; just run in it.
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txStore := &Store{mu: s.mu, data: snapshot, inTx: true}

	if err := fn(txStore); err != nil {
		return err
	}

	s.data = snapshot
	return nil
}

// lock is a no-op inside a transaction, where the commit mutex is already held.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type userRepo struct {
	s *Store
}

func (r *userRepo) CreateUser(user *domain.User) error {
	unlock := r.s.lock()
	defer unlock()

	for _, existing := range r.s.data.users {
		if existing.Username == user.Username {
			return errors.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return errors.ErrEmailTaken
		}
	}

	user.ID = r.s.data.nextUserID
	r.s.data.nextUserID++
	user.CreatedAt = time.Now()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetUserByID(id int64) (*domain.User, error) {
	unlock := r.s.lock()
	defer unlock()

	user, ok := r.s.data.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepo) GetUserByUsername(username string) (*domain.User, error) {
	unlock := r.s.lock()
	defer unlock()

	for _, user := range r.s.data.users {
		if user.Username == username {
			user := user
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepo) ExistsByUsername(username string) (bool, error) {
	unlock := r.s.lock()
	defer unlock()

	for _, user := range r.s.data.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) ExistsByEmail(email string) (bool, error) {
	unlock := r.s.lock()
	defer unlock()

	for _, user := range r.s.data.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type accountRepo struct {
	s *Store
}

func (r *accountRepo) CreateAccount(account *domain.Account) error {
	unlock := r.s.lock()
	defer unlock()

	account.ID = r.s.data.nextAccountID
	r.s.data.nextAccountID++
	account.CreatedAt = time.Now()
	r.s.data.accounts[account.ID] = *account
	return nil
}

func (r *accountRepo) GetAccountByID(id int64) (*domain.Account, error) {
	unlock := r.s.lock()
	defer unlock()

	return r.getAccount(id)
}

func (r *accountRepo) GetAccountByIDForUpdate(id int64) (*domain.Account, error) {
	// Serialization comes from the commit mutex held by WithTransaction.
	unlock := r.s.lock()
	defer unlock()

	return r.getAccount(id)
}

func (r *accountRepo) getAccount(id int64) (*domain.Account, error) {
	account, ok := r.s.data.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return &account, nil
}

func (r *accountRepo) GetAccountsByUserID(userID int64) ([]domain.Account, error) {
	unlock := r.s.lock()
	defer unlock()

	return r.collect(func(a domain.Account) bool {
		return a.UserID == userID
	}), nil
}

func (r *accountRepo) GetAccountsByUserOrChildren(userID int64) ([]domain.Account, error) {
	unlock := r.s.lock()
	defer unlock()

	return r.collect(func(a domain.Account) bool {
		if a.UserID == userID {
			return true
		}
		owner, ok := r.s.data.users[a.UserID]
		return ok && owner.ParentID != nil && *owner.ParentID == userID
	}), nil
}

func (r *accountRepo) GetFirstAccountByUserID(userID int64) (*domain.Account, error) {
	unlock := r.s.lock()
	defer unlock()

	accounts := r.collect(func(a domain.Account) bool {
		return a.UserID == userID
	})
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

func (r *accountRepo) collect(match func(domain.Account) bool) []domain.Account {
	accounts := []domain.Account{}
	for _, account := range r.s.data.accounts {
		if match(account) {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
	return accounts
}

func (r *accountRepo) UpdateAccountBalance(id int64, newBalance decimal.Decimal) error {
	unlock := r.s.lock()
	defer unlock()

	account, ok := r.s.data.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	account.Balance = newBalance
	r.s.data.accounts[id] = account
	return nil
}

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) CreateTransaction(tx *domain.Transaction) error {
	unlock := r.s.lock()
	defer unlock()

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	r.s.data.transactions = append(r.s.data.transactions, *tx)
	return nil
}

func (r *transactionRepo) GetTransactionsByAccountID(accountID int64) ([]domain.Transaction, error) {
	unlock := r.s.lock()
	defer unlock()

	// Insertion order is creation order; walk it backwards so equal
	// timestamps still come back newest-first.
	transactions := []domain.Transaction{}
	for i := len(r.s.data.transactions) - 1; i >= 0; i-- {
		if r.s.data.transactions[i].AccountID == accountID {
			transactions = append(transactions, r.s.data.transactions[i])
		}
	}
	return transactions, nil
}
