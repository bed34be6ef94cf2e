package handler

import (
	"encoding/json"
	"net/http"

	"github.com/esuka/transfer-backend/internal/api/respond"
	"github.com/esuka/transfer-backend/internal/service"
)

type TransferHandler struct {
	settlement *service.SettlementService
	accounts   *service.AccountService
}

func NewTransferHandler(settlement *service.SettlementService, accounts *service.AccountService) *TransferHandler {
	return &TransferHandler{settlement: settlement, accounts: accounts}
}

type transferRequest struct {
	BeneficiaryName   string      `json:"beneficiary_name"`
	BeneficiaryNumber string      `json:"beneficiary_number"`
	Country           string      `json:"country"`
	Method            string      `json:"method"`
	Amount            json.Number `json:"amount"`
	Currency          string      `json:"currency"`
	SenderEmail       string      `json:"sender_email"`
}

// CreateTransfer settles one outbound transfer.
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.settlement.Settle(r.Context(), service.SettlementRequest{
		BeneficiaryName:   req.BeneficiaryName,
		BeneficiaryNumber: req.BeneficiaryNumber,
		Country:           req.Country,
		Method:            req.Method,
		Amount:            req.Amount.String(),
		Currency:          req.Currency,
		SenderEmail:       req.SenderEmail,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, receipt)
}

// ListTransfers returns the authenticated user's transfers, newest first.
func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	actorID, err := requestActor(r)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transfers, err := h.accounts.ListTransfers(r.Context(), actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}
