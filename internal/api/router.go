package api

import (
	"github.com/esuka/transfer-backend/internal/api/handler"
	"github.com/esuka/transfer-backend/internal/api/middleware"
	"github.com/esuka/transfer-backend/internal/api/spec"
	"github.com/esuka/transfer-backend/internal/config"
	"github.com/esuka/transfer-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Router struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *pgxpool.Pool
	redis      redis.Cmdable
	auth       *service.AuthService
	settlement *service.SettlementService
	accounts   *service.AccountService
	reference  *service.ReferenceService
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *pgxpool.Pool,
	rdb redis.Cmdable,
	auth *service.AuthService,
	settlement *service.SettlementService,
	accounts *service.AccountService,
	reference *service.ReferenceService,
) *Router {
	return &Router{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		redis:      rdb,
		auth:       auth,
		settlement: settlement,
		accounts:   accounts,
		reference:  reference,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))

	authHandler := handler.NewAuthHandler(api.auth)
	transferHandler := handler.NewTransferHandler(api.settlement, api.accounts)
	accountHandler := handler.NewAccountHandler(api.accounts)
	adminHandler := handler.NewAdminHandler(api.reference)
	depositHandler := handler.NewDepositHandler(api.reference)
	healthHandler := handler.NewHealthHandler(api.db, api.redis)

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

		r.Post("/v1/auth/register", authHandler.Register)
		r.Post("/v1/auth/login", authHandler.Login)
		r.Get("/v1/balance", accountHandler.GetBalance)
		r.Post("/v1/deposit-intents", depositHandler.CreateIntent)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		r.Post("/v1/transfers", transferHandler.CreateTransfer)
		r.Get("/v1/transfers", transferHandler.ListTransfers)
	})

	// Admin reference data
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.RequireRole("admin"))

		r.Get("/v1/admin/fees", adminHandler.ListFees)
		r.Post("/v1/admin/fees", adminHandler.UpdateFee)
		r.Get("/v1/admin/exchange-rates", adminHandler.ListRates)
		r.Post("/v1/admin/exchange-rates", adminHandler.UpdateRate)
	})

	return r
}
