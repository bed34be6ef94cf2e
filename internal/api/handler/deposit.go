package handler

import (
	"encoding/json"
	"net/http"

	"github.com/esuka/transfer-backend/internal/api/respond"
	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/service"
)

type DepositHandler struct {
	reference *service.ReferenceService
}

func NewDepositHandler(reference *service.ReferenceService) *DepositHandler {
	return &DepositHandler{reference: reference}
}

// CreateIntent records a deposit intent. The balance is credited out of band
// once the deposit is confirmed.
func (h *DepositHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string      `json:"first_name"`
		Email     string      `json:"email"`
		Country   string      `json:"country"`
		Method    string      `json:"method"`
		Amount    json.Number `json:"amount"`
		Phone     string      `json:"phone"`
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intent := &models.DepositIntent{
		FirstName: req.FirstName,
		Email:     req.Email,
		Country:   req.Country,
		Method:    req.Method,
		Amount:    req.Amount.String(),
		Phone:     req.Phone,
	}
	if err := h.reference.CreateDepositIntent(r.Context(), intent); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":   "deposit intent recorded",
		"intent_id": intent.ID,
	})
}
