package handler

import (
	"encoding/json"
	"net/http"

	"github.com/esuka/transfer-backend/internal/api/respond"
	"github.com/esuka/transfer-backend/internal/service"
	"github.com/shopspring/decimal"
)

// AdminHandler manages the fee and exchange-rate reference tables.
type AdminHandler struct {
	reference *service.ReferenceService
}

func NewAdminHandler(reference *service.ReferenceService) *AdminHandler {
	return &AdminHandler{reference: reference}
}

func (h *AdminHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	fees, err := h.reference.ListFees(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, fees)
}

func (h *AdminHandler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country string          `json:"country"`
		FeeRate decimal.Decimal `json:"fee_rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Country == "" {
		respond.Error(w, http.StatusBadRequest, "country is required")
		return
	}

	if err := h.reference.UpdateFeeRate(r.Context(), req.Country, req.FeeRate); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "fee updated"})
}

func (h *AdminHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.reference.ListRates(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, rates)
}

func (h *AdminHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceCurrency string          `json:"source_currency"`
		TargetCurrency string          `json:"target_currency"`
		Rate           decimal.Decimal `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SourceCurrency == "" || req.TargetCurrency == "" {
		respond.Error(w, http.StatusBadRequest, "source_currency and target_currency are required")
		return
	}

	if err := h.reference.UpdateRate(r.Context(), req.SourceCurrency, req.TargetCurrency, req.Rate); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "rate updated"})
}
