package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"familynest/internal/auth"
	"familynest/internal/domain"
	apperrors "familynest/internal/errors"
	"familynest/internal/repository/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(t *testing.T) (*UserService, *AccountService, *TransactionService) {
	t.Helper()

	store := memory.NewStore()
	logger := testLogger()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	users := NewUserService(store, tokens, logger)
	accounts := NewAccountService(store, logger)
	transactions := NewTransactionService(store, accounts, logger)
	return users, accounts, transactions
}

func registerParent(t *testing.T, users *UserService, username string) *domain.PublicUser {
	t.Helper()

	user, err := users.Register(&RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
		Role:     domain.RoleParent,
	})
	require.NoError(t, err)
	return user
}

func registerChild(t *testing.T, users *UserService, username string, parentID int64) *domain.PublicUser {
	t.Helper()

	user, err := users.Register(&RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
		Role:     domain.RoleChild,
		ParentID: &parentID,
	})
	require.NoError(t, err)
	return user
}

func requireAppError(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
}
