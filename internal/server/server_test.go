package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familynest/internal/auth"
	"familynest/internal/repository/memory"
)

// newTestServer runs the full router against the in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *auth.TokenManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := NewRouter(memory.NewStore(), tokens, logger, nil)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, tokens
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func data(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "response should have a data object: %v", response)
	return d
}

func dataList(t *testing.T, response map[string]interface{}) []interface{} {
	t.Helper()
	d, ok := response["data"].([]interface{})
	require.True(t, ok, "response should have a data list: %v", response)
	return d
}

func errorCode(t *testing.T, response map[string]interface{}) string {
	t.Helper()
	e, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "response should have an error object: %v", response)
	return e["code"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := doJSON(t, ts.Client(), "GET", ts.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterLoginAndTransactionFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	client := ts.Client()

	// Register a parent.
	status, body := doJSON(t, client, "POST", ts.URL+"/api/auth/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password",
		"role":     "PARENT",
	})
	require.Equal(t, http.StatusCreated, status)
	parent := data(t, body)
	parentID := int64(parent["id"].(float64))
	assert.Equal(t, "PARENT", parent["role"])
	assert.NotContains(t, parent, "password")

	// Login.
	status, body = doJSON(t, client, "POST", ts.URL+"/api/auth/login", "", map[string]interface{}{
		"username": "alice",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, status)
	login := data(t, body)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	// The token identifies the registered user.
	status, body = doJSON(t, client, "GET", ts.URL+"/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(parentID), data(t, body)["id"])

	// Registration created exactly one default account.
	status, body = doJSON(t, client, "GET", ts.URL+"/api/accounts/user/1", token, nil)
	require.Equal(t, http.StatusOK, status)
	accounts := dataList(t, body)
	require.Len(t, accounts, 1)
	defaultAccount := accounts[0].(map[string]interface{})
	assert.Equal(t, "Main Account", defaultAccount["name"])
	assert.Equal(t, "0", defaultAccount["balance"])
	accountID := int64(defaultAccount["id"].(float64))

	// Create transactions and verify the balance.
	for _, amount := range []string{"10", "-5", "20"} {
		status, body = doJSON(t, client, "POST", ts.URL+"/api/transactions", token, map[string]interface{}{
			"account_id":  accountID,
			"amount":      amount,
			"description": "allowance",
		})
		require.Equal(t, http.StatusCreated, status, "body: %v", body)
	}

	status, body = doJSON(t, client, "GET", ts.URL+"/api/accounts/1", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "25", data(t, body)["balance"])

	// Newest first.
	status, body = doJSON(t, client, "GET", ts.URL+"/api/transactions/account/1", token, nil)
	require.Equal(t, http.StatusOK, status)
	transactions := dataList(t, body)
	require.Len(t, transactions, 3)
	want := []string{"20", "-5", "10"}
	for i, raw := range transactions {
		tx := raw.(map[string]interface{})
		assert.Equal(t, want[i], tx["amount"])
	}
}

func TestAccountEndpointsRequireToken(t *testing.T) {
	ts, _ := newTestServer(t)
	client := ts.Client()

	status, body := doJSON(t, client, "GET", ts.URL+"/api/accounts/user/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", errorCode(t, body))

	status, body = doJSON(t, client, "POST", ts.URL+"/api/transactions", "garbage-token", map[string]interface{}{
		"account_id": 1,
		"amount":     "10",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", errorCode(t, body))
}

func TestRegisterConflictAndBadLogin(t *testing.T) {
	ts, _ := newTestServer(t)
	client := ts.Client()

	register := map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password",
		"role":     "PARENT",
	}
	status, _ := doJSON(t, client, "POST", ts.URL+"/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, client, "POST", ts.URL+"/api/auth/register", "", register)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "username_taken", errorCode(t, body))

	status, body = doJSON(t, client, "POST", ts.URL+"/api/auth/login", "", map[string]interface{}{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", errorCode(t, body))
}

func TestChildRegistrationValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	client := ts.Client()

	status, body := doJSON(t, client, "POST", ts.URL+"/api/auth/register", "", map[string]interface{}{
		"username":  "bob",
		"email":     "bob@example.com",
		"password":  "password",
		"role":      "CHILD",
		"parent_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "parent_not_found", errorCode(t, body))
}

func TestUnknownAccountReturns404(t *testing.T) {
	ts, _ := newTestServer(t)
	client := ts.Client()

	status, _ := doJSON(t, client, "POST", ts.URL+"/api/auth/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password",
		"role":     "PARENT",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, client, "POST", ts.URL+"/api/auth/login", "", map[string]interface{}{
		"username": "alice",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, status)
	token := data(t, body)["token"].(string)

	status, body = doJSON(t, client, "GET", ts.URL+"/api/accounts/999", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "account_not_found", errorCode(t, body))
}
