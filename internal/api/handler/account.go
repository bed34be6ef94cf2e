package handler

import (
	"net/http"
	"strings"

	"github.com/esuka/transfer-backend/internal/api/respond"
	"github.com/esuka/transfer-backend/internal/service"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GetBalance returns the current balance for the given email.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		respond.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	balance, err := h.accounts.GetBalanceByEmail(r.Context(), email)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"balance": balance})
}
