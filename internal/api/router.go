package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pr-poehali-dev/vds-server-api/internal/api/handler"
	"github.com/pr-poehali-dev/vds-server-api/internal/api/middleware"
	"github.com/pr-poehali-dev/vds-server-api/internal/core/service"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/config"
	mongostore "github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/db/mongo"
	redisstore "github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/db/redis"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/email"
	"github.com/pr-poehali-dev/vds-server-api/internal/infrastructure/payment"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, mail *email.Dispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
	}))
	e.Use(echoprometheus.NewMiddleware("vds_hosting"))

	// --- Dependencies ---
	credStore := mongostore.NewCredentialStore(db)
	sessionStore := redisstore.NewSessionStore(rdb, cfg.SessionTTL)
	tokenGuard := redisstore.NewTokenGuard(rdb)

	authService := service.NewAuthService(credStore, sessionStore, mail, cfg.JWTSecret, cfg.SessionTTL, log)
	verificationService := service.NewVerificationService(credStore, tokenGuard, mail, log)
	availabilityLookup := service.NewStoreLookup(credStore)
	paymentService := service.NewPaymentService(payment.NewStubGateway(cfg.Payment.GatewayURL, log), log)

	authHandler := handler.NewAuthHandler(authService, sessionStore)
	verifyHandler := handler.NewVerifyHandler(verificationService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityLookup)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	plansHandler := handler.NewPlansHandler()
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/forgot", authHandler.Forgot)
	e.GET("/auth/check-username", availabilityHandler.Check)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/session", authHandler.Session, authMiddleware)

	// --- Email verification (function-style method dispatch) ---
	e.Any("/verify-email", verifyHandler.Handle)

	// --- Catalogue & payments ---
	e.GET("/plans", plansHandler.List)
	e.POST("/payments", paymentHandler.Initiate)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
