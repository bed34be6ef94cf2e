package service

import (
	"context"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService serves read-only balance and transfer-history queries.
type AccountService struct {
	users     UserStore
	transfers TransferStore
}

func NewAccountService(users UserStore, transfers TransferStore) *AccountService {
	return &AccountService{users: users, transfers: transfers}
}

func (s *AccountService) GetBalanceByEmail(ctx context.Context, email string) (decimal.Decimal, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

// ListTransfers returns the user's transfers newest-first.
func (s *AccountService) ListTransfers(ctx context.Context, userID uuid.UUID) ([]models.Transfer, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.transfers.ListTransfersByUser(ctx, userID)
}
