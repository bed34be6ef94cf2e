package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/esuka/transfer-backend/internal/models"
	"github.com/esuka/transfer-backend/internal/notifier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and credential checks. Token issuance
// stays at the HTTP layer.
type AuthService struct {
	users  UserStore
	events EventSink
}

func NewAuthService(users UserStore, events EventSink) *AuthService {
	return &AuthService{users: users, events: events}
}

type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Country   string
}

func (r RegisterRequest) validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"email", r.Email},
		{"phone", r.Phone},
		{"password", r.Password},
		{"country", r.Country},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return models.NewValidationError(missing)
}

// Register creates a user with a zero balance and a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Country:      req.Country,
		Role:         "user",
		Balance:      decimal.Zero,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Enqueue(notifier.Event{
			Type:       notifier.EventUserRegistered,
			OccurredAt: time.Now().UTC(),
			Payload: map[string]any{
				"user_id":    user.ID.String(),
				"first_name": user.FirstName,
				"email":      user.Email,
				"country":    user.Country,
			},
		})
	}
	return user, nil
}

// Authenticate verifies the email/password pair. A missing user and a wrong
// password return the same error so the response does not reveal which.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
