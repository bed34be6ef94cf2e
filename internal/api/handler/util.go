package handler

import (
	"errors"
	"net/http"

	"github.com/esuka/transfer-backend/internal/api/middleware"
	"github.com/esuka/transfer-backend/internal/api/respond"
	"github.com/esuka/transfer-backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func requestActor(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, errors.New("missing user in auth context")
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, errors.New("invalid user_id in auth context")
	}
	return actorID, nil
}

// respondServiceError maps the error taxonomy onto HTTP statuses. Business
// failures keep their message; anything unexpected gets a generic body and a
// server-side log so internals never leak.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respond.Error(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, models.ErrInvalidAmount):
		respond.Error(w, http.StatusBadRequest, models.ErrInvalidAmount.Error())
	case errors.Is(err, models.ErrInsufficientFunds):
		respond.Error(w, http.StatusBadRequest, models.ErrInsufficientFunds.Error())
	case errors.Is(err, models.ErrEmailTaken):
		respond.Error(w, http.StatusBadRequest, models.ErrEmailTaken.Error())
	case errors.Is(err, models.ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, models.ErrUserNotFound.Error())
	case errors.Is(err, models.ErrRateNotFound):
		respond.Error(w, http.StatusNotFound, models.ErrRateNotFound.Error())
	case errors.Is(err, models.ErrFeeNotFound):
		respond.Error(w, http.StatusNotFound, models.ErrFeeNotFound.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrTransient):
		respond.Error(w, http.StatusServiceUnavailable, "temporary storage contention, please retry")
	default:
		zap.L().Error("request failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("trace_id", middleware.TraceIDFromContext(r.Context())),
		)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
