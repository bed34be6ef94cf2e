package service

import (
	"context"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/notifier"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TxRunner scopes a unit of work to one database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// UserStore is the persistence contract for users and their balances.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	BalanceForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (decimal.Decimal, error)
	UpdateBalanceTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance decimal.Decimal) error
}

// TransferStore persists and reads immutable transfer records.
type TransferStore interface {
	CreateTransferTx(ctx context.Context, tx pgx.Tx, t *models.Transfer) error
	ListTransfersByUser(ctx context.Context, userID uuid.UUID) ([]models.Transfer, error)
}

// ReferenceStore covers the read-mostly fee and rate tables plus deposit
// intents. Administrative writes are last-writer-wins.
type ReferenceStore interface {
	ListRates(ctx context.Context) ([]models.ExchangeRate, error)
	UpdateRate(ctx context.Context, source, target string, rate decimal.Decimal) error
	ListFees(ctx context.Context) ([]models.Fee, error)
	UpdateFeeRate(ctx context.Context, country string, feeRate decimal.Decimal) error
	CreateDepositIntent(ctx context.Context, intent *models.DepositIntent) error
}

// EventSink accepts best-effort notification events.
type EventSink interface {
	Enqueue(event notifier.Event)
}
