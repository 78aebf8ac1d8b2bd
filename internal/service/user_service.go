package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"familynest/internal/auth"
	"familynest/internal/domain"
	"familynest/internal/errors"
)

type UserService struct {
	store  domain.Store
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewUserService(store domain.Store, tokens *auth.TokenManager, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	ParentID *int64
}

// Register creates the user together with their default account: parents get
// a "Main Account", children an "Allowance Account" linked to the parent's
// earliest account. Both inserts share one store transaction.
func (s *UserService) Register(req *RegisterRequest) (*domain.PublicUser, error) {
	s.logger.Info("Registering user", "username", req.Username, "role", req.Role)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "username, email and password are required")
	}
	if !req.Role.Valid() {
		return nil, errors.NewAppErrorf(errors.ValidationFailed, "unknown role %q", req.Role)
	}

	taken, err := s.store.Users().ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.ErrUsernameTaken
	}

	taken, err = s.store.Users().ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.ErrEmailTaken
	}

	// A parentId is only meaningful for children; parents never get one.
	var parent *domain.User
	if req.Role == domain.RoleChild && req.ParentID != nil {
		parent, err = s.store.Users().GetUserByID(*req.ParentID)
		if err != nil {
			if err == errors.ErrUserNotFound {
				return nil, errors.ErrParentNotFound
			}
			return nil, err
		}
		if parent.Role != domain.RoleParent {
			return nil, errors.NewAppError(errors.ValidationFailed, "the specified parent is not a parent user")
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to hash password")
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
	}
	if parent != nil {
		user.ParentID = &parent.ID
	}

	err = s.store.WithTransaction(func(tx domain.Store) error {
		if err := tx.Users().CreateUser(user); err != nil {
			return err
		}

		account := &domain.Account{
			Name:            defaultAccountName(req.Role),
			Balance:         decimal.Zero,
			UserID:          user.ID,
			IsParentAccount: req.Role == domain.RoleParent,
		}
		if parent != nil {
			parentAccount, err := tx.Accounts().GetFirstAccountByUserID(parent.ID)
			if err != nil {
				return err
			}
			if parentAccount != nil {
				account.ParentAccountID = &parentAccount.ID
			}
		}

		return tx.Accounts().CreateAccount(account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "role", user.Role)
	public := user.Public()
	return &public, nil
}

func defaultAccountName(role domain.Role) string {
	if role == domain.RoleParent {
		return "Main Account"
	}
	return "Allowance Account"
}

// Login authenticates the credentials and issues a session token.
func (s *UserService) Login(username, password string) (string, *domain.PublicUser, error) {
	s.logger.Info("Login attempt", "username", username)

	user, err := s.store.Users().GetUserByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("Login failed", "username", username)
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return "", nil, errors.NewAppError(errors.InternalError, "failed to issue token")
	}

	s.logger.Info("Login successful", "user_id", user.ID)
	public := user.Public()
	return token, &public, nil
}

func (s *UserService) GetUserByID(id int64) (*domain.PublicUser, error) {
	user, err := s.store.Users().GetUserByID(id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}
