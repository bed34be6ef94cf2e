package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/esuka/transfer-backend/internal/models"
)

func TestGetBalanceByEmail(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByEmail", mock.Anything, "sender@example.com").
		Return(testSender("42.50"), nil)

	svc := NewAccountService(users, new(MockTransferStore))

	balance, err := svc.GetBalanceByEmail(context.Background(), "sender@example.com")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("42.50")))
}

func TestGetBalanceByEmail_UnknownUser(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, models.ErrUserNotFound)

	svc := NewAccountService(users, new(MockTransferStore))

	_, err := svc.GetBalanceByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestListTransfers(t *testing.T) {
	users := new(MockUserStore)
	transfers := new(MockTransferStore)

	userID := uuid.New()
	users.On("GetUserByID", mock.Anything, userID).Return(&models.User{ID: userID}, nil)
	transfers.On("ListTransfersByUser", mock.Anything, userID).Return([]models.Transfer{
		{ID: uuid.New(), UserID: userID, Country: "Mali"},
		{ID: uuid.New(), UserID: userID, Country: "Ghana"},
	}, nil)

	svc := NewAccountService(users, transfers)

	got, err := svc.ListTransfers(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListTransfers_UnknownUser(t *testing.T) {
	users := new(MockUserStore)
	transfers := new(MockTransferStore)

	userID := uuid.New()
	users.On("GetUserByID", mock.Anything, userID).Return(nil, models.ErrUserNotFound)

	svc := NewAccountService(users, transfers)

	_, err := svc.ListTransfers(context.Background(), userID)
	require.ErrorIs(t, err, models.ErrUserNotFound)
	transfers.AssertNotCalled(t, "ListTransfersByUser", mock.Anything, mock.Anything)
}
