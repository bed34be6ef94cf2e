package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/notifier"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) BalanceForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserStore) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance decimal.Decimal) error {
	args := m.Called(ctx, tx, userID, balance)
	return args.Error(0)
}

type MockTransferStore struct {
	mock.Mock
}

func (m *MockTransferStore) CreateTransferTx(ctx context.Context, tx pgx.Tx, t *models.Transfer) error {
	args := m.Called(ctx, tx, t)
	return args.Error(0)
}

func (m *MockTransferStore) ListTransfersByUser(ctx context.Context, userID uuid.UUID) ([]models.Transfer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transfer), args.Error(1)
}

type MockReferenceStore struct {
	mock.Mock
}

func (m *MockReferenceStore) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

func (m *MockReferenceStore) UpdateRate(ctx context.Context, source, target string, rate decimal.Decimal) error {
	args := m.Called(ctx, source, target, rate)
	return args.Error(0)
}

func (m *MockReferenceStore) ListFees(ctx context.Context) ([]models.Fee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fee), args.Error(1)
}

func (m *MockReferenceStore) UpdateFeeRate(ctx context.Context, country string, feeRate decimal.Decimal) error {
	args := m.Called(ctx, country, feeRate)
	return args.Error(0)
}

func (m *MockReferenceStore) CreateDepositIntent(ctx context.Context, intent *models.DepositIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FindRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	args := m.Called(ctx, source, target)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, source, target string) {
	m.Called(ctx, source, target)
}

// passthroughTxRunner invokes the unit of work with a nil transaction so that
// service logic can be exercised without a database.
type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// recordingSink captures enqueued events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (r *recordingSink) Enqueue(event notifier.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) Events() []notifier.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notifier.Event, len(r.events))
	copy(out, r.events)
	return out
}
