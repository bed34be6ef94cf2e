package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/notifier"
)

func TestUpdateRate_InvalidatesCache(t *testing.T) {
	store := new(MockReferenceStore)
	invalidator := new(MockInvalidator)

	rate := decimal.RequireFromString("660.5")
	store.On("UpdateRate", mock.Anything, "EUR", "FCFA", rate).Return(nil)
	invalidator.On("Invalidate", mock.Anything, "EUR", "FCFA").Return()

	svc := NewReferenceService(store, invalidator, nil)

	require.NoError(t, svc.UpdateRate(context.Background(), "EUR", "FCFA", rate))
	store.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestUpdateRate_RejectsNonPositive(t *testing.T) {
	store := new(MockReferenceStore)
	invalidator := new(MockInvalidator)
	svc := NewReferenceService(store, invalidator, nil)

	for _, rate := range []string{"0", "-1"} {
		err := svc.UpdateRate(context.Background(), "EUR", "FCFA", decimal.RequireFromString(rate))
		require.ErrorIs(t, err, models.ErrInvalidAmount, "rate %s", rate)
	}
	store.AssertNotCalled(t, "UpdateRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRate_UnknownPair(t *testing.T) {
	store := new(MockReferenceStore)
	rate := decimal.RequireFromString("1.1")
	store.On("UpdateRate", mock.Anything, "EUR", "ZZZ", rate).Return(models.ErrRateNotFound)

	svc := NewReferenceService(store, new(MockInvalidator), nil)

	err := svc.UpdateRate(context.Background(), "EUR", "ZZZ", rate)
	require.ErrorIs(t, err, models.ErrRateNotFound)
}

func TestUpdateFeeRate(t *testing.T) {
	store := new(MockReferenceStore)
	feeRate := decimal.RequireFromString("0.015")
	store.On("UpdateFeeRate", mock.Anything, "Ghana", feeRate).Return(nil)

	svc := NewReferenceService(store, nil, nil)
	require.NoError(t, svc.UpdateFeeRate(context.Background(), "Ghana", feeRate))

	err := svc.UpdateFeeRate(context.Background(), "Ghana", decimal.RequireFromString("-0.01"))
	require.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestCreateDepositIntent(t *testing.T) {
	store := new(MockReferenceStore)
	sink := &recordingSink{}
	store.On("CreateDepositIntent", mock.Anything, mock.AnythingOfType("*models.DepositIntent")).Return(nil)

	svc := NewReferenceService(store, nil, sink)

	intent := &models.DepositIntent{
		FirstName: "Moussa",
		Email:     "moussa@example.com",
		Country:   "Senegal",
		Method:    "Wave",
		Amount:    "50",
		Phone:     "+221770000001",
	}
	require.NoError(t, svc.CreateDepositIntent(context.Background(), intent))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notifier.EventDepositIntent, events[0].Type)
	assert.Equal(t, "Wave", events[0].Payload["method"])
}

func TestCreateDepositIntent_MissingFields(t *testing.T) {
	store := new(MockReferenceStore)
	svc := NewReferenceService(store, nil, nil)

	err := svc.CreateDepositIntent(context.Background(), &models.DepositIntent{Email: "x@example.com"})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "first_name")
	assert.Contains(t, validationErr.Fields, "amount")
	store.AssertNotCalled(t, "CreateDepositIntent", mock.Anything, mock.Anything)
}
