package service

import (
	"context"
	"strings"
	"time"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/notifier"
	"github.com/esuka/transfer-backend/internal/rates"
	"github.com/shopspring/decimal"
)

// ReferenceService manages the fee and exchange-rate tables and records
// deposit intents. Fee rates are configuration only: settlement does not
// apply them to the received amount.
type ReferenceService struct {
	store       ReferenceStore
	invalidator rates.Invalidator
	events      EventSink
}

func NewReferenceService(store ReferenceStore, invalidator rates.Invalidator, events EventSink) *ReferenceService {
	return &ReferenceService{store: store, invalidator: invalidator, events: events}
}

func (s *ReferenceService) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	return s.store.ListRates(ctx)
}

// UpdateRate is last-writer-wins and drops the cached entry so the new rate
// is used by the next settlement.
func (s *ReferenceService) UpdateRate(ctx context.Context, source, target string, rate decimal.Decimal) error {
	if rate.Sign() <= 0 {
		return models.ErrInvalidAmount
	}
	if err := s.store.UpdateRate(ctx, source, target, rate); err != nil {
		return err
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, source, target)
	}
	return nil
}

func (s *ReferenceService) ListFees(ctx context.Context) ([]models.Fee, error) {
	return s.store.ListFees(ctx)
}

func (s *ReferenceService) UpdateFeeRate(ctx context.Context, country string, feeRate decimal.Decimal) error {
	if feeRate.Sign() < 0 {
		return models.ErrInvalidAmount
	}
	return s.store.UpdateFeeRate(ctx, country, feeRate)
}

// CreateDepositIntent records the intent and notifies operations. It never
// touches the balance; crediting happens out of band.
func (s *ReferenceService) CreateDepositIntent(ctx context.Context, intent *models.DepositIntent) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"first_name", intent.FirstName},
		{"email", intent.Email},
		{"country", intent.Country},
		{"method", intent.Method},
		{"amount", intent.Amount},
		{"phone", intent.Phone},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if err := models.NewValidationError(missing); err != nil {
		return err
	}

	if err := s.store.CreateDepositIntent(ctx, intent); err != nil {
		return err
	}

	if s.events != nil {
		s.events.Enqueue(notifier.Event{
			Type:       notifier.EventDepositIntent,
			OccurredAt: time.Now().UTC(),
			Payload: map[string]any{
				"first_name": intent.FirstName,
				"email":      intent.Email,
				"country":    intent.Country,
				"method":     intent.Method,
				"amount":     intent.Amount,
				"phone":      intent.Phone,
			},
		})
	}
	return nil
}
