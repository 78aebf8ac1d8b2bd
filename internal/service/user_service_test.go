package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familynest/internal/domain"
	apperrors "familynest/internal/errors"
)

func TestRegisterParentCreatesDefaultAccount(t *testing.T) {
	users, accounts, _ := newTestServices(t)

	user := registerParent(t, users, "alice")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleParent, user.Role)
	assert.Nil(t, user.ParentID)

	owned, err := accounts.GetAccountsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Main Account", owned[0].Name)
	assert.True(t, owned[0].Balance.IsZero())
	assert.True(t, owned[0].IsParentAccount)
	assert.Nil(t, owned[0].ParentAccountID)
}

func TestRegisterChildLinksParentAccount(t *testing.T) {
	users, accounts, _ := newTestServices(t)

	parent := registerParent(t, users, "alice")
	parentAccounts, err := accounts.GetAccountsByUserID(parent.ID)
	require.NoError(t, err)
	require.Len(t, parentAccounts, 1)

	child := registerChild(t, users, "bob", parent.ID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	childAccounts, err := accounts.GetAccountsByUserID(child.ID)
	require.NoError(t, err)
	require.Len(t, childAccounts, 1)
	assert.Equal(t, "Allowance Account", childAccounts[0].Name)
	assert.False(t, childAccounts[0].IsParentAccount)
	require.NotNil(t, childAccounts[0].ParentAccountID)
	assert.Equal(t, parentAccounts[0].ID, *childAccounts[0].ParentAccountID)
}

func TestRegisterChildLinksEarliestParentAccount(t *testing.T) {
	users, accounts, _ := newTestServices(t)

	parent := registerParent(t, users, "alice")
	_, err := accounts.CreateAccount(&CreateAccountRequest{
		UserID: parent.ID,
		Name:   "Savings",
	})
	require.NoError(t, err)

	child := registerChild(t, users, "bob", parent.ID)

	parentAccounts, err := accounts.GetAccountsByUserID(parent.ID)
	require.NoError(t, err)

	childAccounts, err := accounts.GetAccountsByUserID(child.ID)
	require.NoError(t, err)
	require.Len(t, childAccounts, 1)
	require.NotNil(t, childAccounts[0].ParentAccountID)
	assert.Equal(t, parentAccounts[0].ID, *childAccounts[0].ParentAccountID,
		"child account should link to the parent's earliest account")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users, _, _ := newTestServices(t)

	registerParent(t, users, "alice")

	_, err := users.Register(&RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password",
		Role:     domain.RoleParent,
	})
	requireAppError(t, err, apperrors.UsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users, _, _ := newTestServices(t)

	registerParent(t, users, "alice")

	_, err := users.Register(&RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password",
		Role:     domain.RoleParent,
	})
	requireAppError(t, err, apperrors.EmailTaken)
}

func TestRegisterChildWithUnknownParent(t *testing.T) {
	users, _, _ := newTestServices(t)

	missing := int64(999)
	_, err := users.Register(&RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password",
		Role:     domain.RoleChild,
		ParentID: &missing,
	})
	requireAppError(t, err, apperrors.ParentNotFound)
}

func TestRegisterChildWithChildParent(t *testing.T) {
	users, _, _ := newTestServices(t)

	parent := registerParent(t, users, "alice")
	child := registerChild(t, users, "bob", parent.ID)

	_, err := users.Register(&RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "password",
		Role:     domain.RoleChild,
		ParentID: &child.ID,
	})
	requireAppError(t, err, apperrors.ValidationFailed)
}

func TestRegisterParentIgnoresParentID(t *testing.T) {
	users, _, _ := newTestServices(t)

	other := registerParent(t, users, "alice")

	user, err := users.Register(&RegisterRequest{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "password",
		Role:     domain.RoleParent,
		ParentID: &other.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, user.ParentID)
}

func TestRegisterInvalidRole(t *testing.T) {
	users, _, _ := newTestServices(t)

	_, err := users.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password",
		Role:     "ADMIN",
	})
	requireAppError(t, err, apperrors.ValidationFailed)
}

func TestLoginSuccess(t *testing.T) {
	users, _, _ := newTestServices(t)

	registered := registerParent(t, users, "alice")

	token, user, err := users.Login("alice", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	// The token identifies the same user as getUserById.
	fetched, err := users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, fetched.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	users, _, _ := newTestServices(t)

	registerParent(t, users, "alice")

	token, _, err := users.Login("alice", "wrong")
	requireAppError(t, err, apperrors.InvalidCredentials)
	assert.Empty(t, token)
}

func TestLoginUnknownUsername(t *testing.T) {
	users, _, _ := newTestServices(t)

	token, _, err := users.Login("nobody", "password")
	requireAppError(t, err, apperrors.InvalidCredentials)
	assert.Empty(t, token)
}

func TestGetUserByIDNotFound(t *testing.T) {
	users, _, _ := newTestServices(t)

	_, err := users.GetUserByID(42)
	requireAppError(t, err, apperrors.UserNotFound)
}
