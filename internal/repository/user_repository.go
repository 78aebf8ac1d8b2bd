package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"familynest/internal/domain"
	"familynest/internal/errors"
)

type userRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewUserRepository(db SQLExecutor, logger *slog.Logger) domain.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	var parentID interface{}
	if user.ParentID != nil {
		parentID = *user.ParentID
	}

	err := r.db.QueryRow(
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		parentID,
		now,
	).Scan(&user.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				// The service checks first, but concurrent registrations can
				// still collide on the unique indexes.
				switch pqErr.Constraint {
				case "users_username_key":
					r.logger.Warn("Duplicate username", "username", user.Username)
					return errors.ErrUsernameTaken
				case "users_email_key":
					r.logger.Warn("Duplicate email", "email", user.Email)
					return errors.ErrEmailTaken
				}
			}
		}
		r.logger.Error("Failed to create user", "username", user.Username, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create user").WithDetails(err.Error())
	}

	user.CreatedAt = now
	r.logger.Info("User created successfully", "user_id", user.ID, "role", user.Role)
	return nil
}

func (r *userRepository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, parent_id, created_at
		FROM users WHERE id = $1
	`

	user, err := r.scanUser(query, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		r.logger.Warn("User not found", "user_id", id)
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, parent_id, created_at
		FROM users WHERE username = $1
	`

	return r.scanUser(query, username)
}

func (r *userRepository) scanUser(query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	var role string
	var parentID sql.NullInt64

	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&parentID,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get user", "arg", arg, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get user").WithDetails(err.Error())
	}

	user.Role = domain.Role(role)
	if parentID.Valid {
		user.ParentID = &parentID.Int64
	}

	return &user, nil
}

func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	return r.exists(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *userRepository) exists(query string, arg interface{}) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(query, arg).Scan(&exists); err != nil {
		r.logger.Error("Failed to check user existence", "error", err)
		return false, errors.NewAppError(errors.InternalError, "failed to check user existence").WithDetails(err.Error())
	}
	return exists, nil
}
