package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, first_name, last_name, email, phone, password_hash, country, role, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()) RETURNING created_at`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone,
		user.PasswordHash, user.Country, user.Role, user.Balance,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(ctx, `SELECT id, first_name, last_name, email, phone, password_hash, country, role, balance, created_at
		FROM users WHERE email = $1`, email)
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanUser(ctx, `SELECT id, first_name, last_name, email, phone, password_hash, country, role, balance, created_at
		FROM users WHERE id = $1`, id)
}

func (r *Repository) scanUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Phone,
		&user.PasswordHash, &user.Country, &user.Role, &user.Balance, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// BalanceForUpdateTx takes the row-level lock that serializes all debits
// against one user. Transfers for different users never contend here.
func (r *Repository) BalanceForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, models.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock user balance: %w", err)
	}
	return balance, nil
}

func (r *Repository) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance decimal.Decimal) error {
	tag, err := tx.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, balance, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update balance affected %d rows", tag.RowsAffected())
	}
	return nil
}

func (r *Repository) CreateTransferTx(ctx context.Context, tx pgx.Tx, t *models.Transfer) error {
	query := `INSERT INTO transfers (id, beneficiary_name, beneficiary_number, country, method, amount, currency, received_amount, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := tx.Exec(ctx, query,
		t.ID, t.BeneficiaryName, t.BeneficiaryNumber, t.Country, t.Method,
		t.Amount, t.Currency, t.ReceivedAmount, t.UserID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *Repository) ListTransfersByUser(ctx context.Context, userID uuid.UUID) ([]models.Transfer, error) {
	query := `
		SELECT id, beneficiary_name, beneficiary_number, country, method, amount, currency, received_amount, user_id, created_at
		FROM transfers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.ID, &t.BeneficiaryName, &t.BeneficiaryNumber, &t.Country, &t.Method,
			&t.Amount, &t.Currency, &t.ReceivedAmount, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// FindRate is an exact, case-sensitive match on (source, target). Absence is
// a valid state and maps to models.ErrRateNotFound; there is no fallback.
func (r *Repository) FindRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT rate FROM exchange_rates WHERE source_currency = $1 AND target_currency = $2`,
		source, target,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, models.ErrRateNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to find rate: %w", err)
	}
	return rate, nil
}

func (r *Repository) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, source_currency, target_currency, rate FROM exchange_rates ORDER BY source_currency, target_currency`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var er models.ExchangeRate
		if err := rows.Scan(&er.ID, &er.SourceCurrency, &er.TargetCurrency, &er.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, er)
	}
	return rates, rows.Err()
}

// UpdateRate is admin-only, last-writer-wins. Updating a pair that has no row
// is a configuration mistake and reported as ErrRateNotFound.
func (r *Repository) UpdateRate(ctx context.Context, source, target string, rate decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE exchange_rates SET rate = $1 WHERE source_currency = $2 AND target_currency = $3`,
		rate, source, target)
	if err != nil {
		return fmt.Errorf("failed to update rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrRateNotFound
	}
	return nil
}

func (r *Repository) ListFees(ctx context.Context) ([]models.Fee, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, country, currency, methods, fee_rate FROM fees ORDER BY country`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}
	defer rows.Close()

	var fees []models.Fee
	for rows.Next() {
		var f models.Fee
		if err := rows.Scan(&f.ID, &f.Country, &f.Currency, &f.Methods, &f.FeeRate); err != nil {
			return nil, fmt.Errorf("failed to scan fee: %w", err)
		}
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

func (r *Repository) UpdateFeeRate(ctx context.Context, country string, feeRate decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `UPDATE fees SET fee_rate = $1 WHERE country = $2`, feeRate, country)
	if err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrFeeNotFound
	}
	return nil
}

func (r *Repository) CreateDepositIntent(ctx context.Context, intent *models.DepositIntent) error {
	query := `INSERT INTO deposit_intents (first_name, email, country, method, amount, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		intent.FirstName, intent.Email, intent.Country, intent.Method, intent.Amount, intent.Phone,
	).Scan(&intent.ID, &intent.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit intent: %w", err)
	}
	return nil
}
