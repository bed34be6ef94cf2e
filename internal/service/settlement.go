package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/esuka/transfer-backend/internal/domain"
	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/notifier"
	"github.com/esuka/transfer-backend/internal/observability"
	"github.com/esuka/transfer-backend/internal/rates"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementService is the transfer settlement engine. One call to Settle
// validates the request, resolves currencies and rate, debits the sender and
// records the transfer as a single transaction.
type SettlementService struct {
	users     UserStore
	transfers TransferStore
	rates     rates.Source
	tx        TxRunner
	events    EventSink

	maxAttempts  int
	retryBackoff time.Duration
}

func NewSettlementService(users UserStore, transfers TransferStore, rateSource rates.Source, tx TxRunner, events EventSink) *SettlementService {
	return &SettlementService{
		users:        users,
		transfers:    transfers,
		rates:        rateSource,
		tx:           tx,
		events:       events,
		maxAttempts:  3,
		retryBackoff: 50 * time.Millisecond,
	}
}

// SettlementRequest is the inbound transfer payload. Amount arrives as a
// string because clients send either a JSON number or a string.
type SettlementRequest struct {
	BeneficiaryName   string
	BeneficiaryNumber string
	Country           string
	Method            string
	Amount            string
	Currency          string
	SenderEmail       string
}

// Receipt is the structured success result of a settlement.
type Receipt struct {
	TransferID       uuid.UUID       `json:"transfer_id"`
	SentAmount       decimal.Decimal `json:"sent_amount"`
	ReceivedAmount   decimal.Decimal `json:"received_amount"`
	Currency         string          `json:"currency"`
	Country          string          `json:"country"`
	Timestamp        time.Time       `json:"timestamp"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Settle runs the settlement steps in order; each step is an exit point.
// Two identical requests produce two transfers and two debits: there is no
// deduplication by design.
func (s *SettlementService) Settle(ctx context.Context, req SettlementRequest) (*Receipt, error) {
	receipt, err := s.settle(ctx, req)
	observability.IncrementSettlement(settlementOutcome(err))
	return receipt, err
}

func (s *SettlementService) settle(ctx context.Context, req SettlementRequest) (*Receipt, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	sender, err := s.users.GetUserByEmail(ctx, req.SenderEmail)
	if err != nil {
		return nil, err
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	sourceCurrency := domain.NormalizeCurrency(req.Currency)
	targetCurrency := domain.ResolveTargetCurrency(req.Country, req.Currency)

	rate, err := s.rates.FindRate(ctx, sourceCurrency, targetCurrency)
	if err != nil {
		return nil, err
	}

	received := domain.ConvertAmount(amount, rate)

	transfer := &models.Transfer{
		ID:                uuid.New(),
		BeneficiaryName:   req.BeneficiaryName,
		BeneficiaryNumber: req.BeneficiaryNumber,
		Country:           req.Country,
		Method:            req.Method,
		Amount:            amount,
		Currency:          req.Currency,
		ReceivedAmount:    received,
		UserID:            sender.ID,
		CreatedAt:         time.Now().UTC(),
	}

	var remaining decimal.Decimal
	err = s.runDebitTx(ctx, func(tx pgx.Tx) error {
		// Re-read the live balance under the row lock: the balance seen at
		// request arrival may already be stale.
		balance, err := s.users.BalanceForUpdateTx(ctx, tx, sender.ID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return models.ErrInsufficientFunds
		}

		remaining = balance.Sub(amount)
		if err := s.users.UpdateBalanceTx(ctx, tx, sender.ID, remaining); err != nil {
			return err
		}
		return s.transfers.CreateTransferTx(ctx, tx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.notifySettled(transfer, targetCurrency)

	return &Receipt{
		TransferID:       transfer.ID,
		SentAmount:       transfer.Amount,
		ReceivedAmount:   transfer.ReceivedAmount,
		Currency:         transfer.Currency,
		Country:          transfer.Country,
		Timestamp:        transfer.CreatedAt,
		RemainingBalance: remaining,
	}, nil
}

// runDebitTx retries the settlement transaction on storage contention
// (serialization failure or deadlock) before surfacing ErrTransient.
func (s *SettlementService) runDebitTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.tx.RunInTx(ctx, fn)
		if err == nil || !isTransient(err) {
			return err
		}

		observability.IncrementSettlementRetry()
		zap.L().Warn("settlement transaction contention, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryBackoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("%w: %v", models.ErrTransient, err)
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 40001 serialization_failure, 40P01 deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// notifySettled is fire-and-forget: the funds are committed, so a notifier
// failure must never surface to the caller.
func (s *SettlementService) notifySettled(t *models.Transfer, targetCurrency string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(notifier.Event{
		Type:       notifier.EventTransferSettled,
		OccurredAt: t.CreatedAt,
		Payload: map[string]any{
			"transfer_id":       t.ID.String(),
			"beneficiary_name":  t.BeneficiaryName,
			"beneficiary_phone": t.BeneficiaryNumber,
			"country":           t.Country,
			"method":            t.Method,
			"sent_amount":       domain.FormatAmount(t.Amount),
			"sent_currency":     t.Currency,
			"received_amount":   domain.FormatAmount(t.ReceivedAmount),
			"received_currency": targetCurrency,
		},
	})
}

func (r SettlementRequest) validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"beneficiary_name", r.BeneficiaryName},
		{"beneficiary_number", r.BeneficiaryNumber},
		{"country", r.Country},
		{"method", r.Method},
		{"amount", r.Amount},
		{"currency", r.Currency},
		{"sender_email", r.SenderEmail},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return models.NewValidationError(missing)
}

func settlementOutcome(err error) string {
	switch {
	case err == nil:
		return "settled"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrRateNotFound):
		return "rate_not_found"
	case errors.Is(err, models.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, models.ErrTransient):
		return "transient"
	default:
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			return "validation_failed"
		}
		return "error"
	}
}
