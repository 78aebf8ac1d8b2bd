package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"familynest/internal/domain"
	"familynest/internal/errors"
	"familynest/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	UserID          int64  `json:"user_id"`
	Name            string `json:"name"`
	IsParentAccount bool   `json:"is_parent_account"`
}

type AccountResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Balance         string    `json:"balance"`
	UserID          int64     `json:"user_id"`
	ParentAccountID *int64    `json:"parent_account_id,omitempty"`
	IsParentAccount bool      `json:"is_parent_account"`
	CreatedAt       time.Time `json:"created_at"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:              account.ID,
		Name:            account.Name,
		Balance:         account.Balance.String(),
		UserID:          account.UserID,
		ParentAccountID: account.ParentAccountID,
		IsParentAccount: account.IsParentAccount,
		CreatedAt:       account.CreatedAt,
	}
}

func (h *AccountHandler) GetAccountsByUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["user_id"], 10, 64)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid user id"))
		return
	}

	accounts, err := h.accountService.GetAccountsByUserID(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		response = append(response, toAccountResponse(&accounts[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID, err := strconv.ParseInt(vars["account_id"], 10, 64)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid account id"))
		return
	}

	account, err := h.accountService.GetAccountByID(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	account, err := h.accountService.CreateAccount(&service.CreateAccountRequest{
		UserID:          req.UserID,
		Name:            req.Name,
		IsParentAccount: req.IsParentAccount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}
