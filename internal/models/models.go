package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID       `json:"id"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	PasswordHash string          `json:"-"`
	Country      string          `json:"country"`
	Role         string          `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Transfer is the immutable record of one settlement. Rows are only ever
// inserted, never updated or deleted.
type Transfer struct {
	ID                uuid.UUID       `json:"id"`
	BeneficiaryName   string          `json:"beneficiary_name"`
	BeneficiaryNumber string          `json:"beneficiary_number"`
	Country           string          `json:"country"`
	Method            string          `json:"method"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ReceivedAmount    decimal.Decimal `json:"received_amount"`
	UserID            uuid.UUID       `json:"user_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ExchangeRate is a directed (source, target) -> rate row. There is no
// implicit inverse and no identity rate: source == target still needs a row.
type ExchangeRate struct {
	ID             int64           `json:"id"`
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
	Rate           decimal.Decimal `json:"rate"`
}

type Fee struct {
	ID       int64           `json:"id"`
	Country  string          `json:"country"`
	Currency string          `json:"currency"`
	Methods  []string        `json:"methods"`
	FeeRate  decimal.Decimal `json:"fee_rate"`
}

// DepositIntent records a user's intention to top up their balance. It is an
// inbound lead for the operations team and never credits the balance itself.
type DepositIntent struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Country   string    `json:"country"`
	Method    string    `json:"method"`
	Amount    string    `json:"amount"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
