package domain

import (
	"time"
)

type Role string

const (
	RoleParent Role = "PARENT"
	RoleChild  Role = "CHILD"
)

func (r Role) Valid() bool {
	return r == RoleParent || r == RoleChild
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ParentID     *int64    `json:"parent_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the representation returned to clients. It never carries
// the password hash.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		ParentID: u.ParentID,
	}
}

type UserRepository interface {
	// CreateUser persists the user and fills in its ID.
	CreateUser(user *User) error
	GetUserByID(id int64) (*User, error)
	// GetUserByUsername returns (nil, nil) when no such user exists.
	GetUserByUsername(username string) (*User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
}
