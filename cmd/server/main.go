package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/config"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/repositories"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/handlers"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
	"github.com/ParvPasricha/loyalty-system/internal/usecases"
	"github.com/ParvPasricha/loyalty-system/pkg/jwt"
	"github.com/ParvPasricha/loyalty-system/pkg/logger"
	"github.com/ParvPasricha/loyalty-system/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
		})
	}
	newClaimStore = redis.NewClaimStore
	newServer     = func(handler http.Handler, port string) *http.Server {
		return &http.Server{Addr: ":" + port, Handler: handler}
	}
	notifySignals = func(ch chan<- os.Signal) {
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	}
	runServer = serveUntilSignal
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

const shutdownTimeout = 10 * time.Second

// serveUntilSignal runs the server until SIGINT/SIGTERM arrives, then drains
// in-flight requests before returning. A listen failure returns immediately.
func serveUntilSignal(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	notifySignals(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info(context.Background(), "Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(context.Background(), "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(context.Background(), "Connected to PostgreSQL")
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	ruleRepo := repositories.NewRuleVersionRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	rewardRepo := repositories.NewRewardRepository(db)
	redemptionRepo := repositories.NewRedemptionRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	uow := repositories.NewUnitOfWork(db)

	claimStore, err := newClaimStore(cfg.Security.ClaimEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize claim store: %w", err)
	}

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	rulesUsecase := usecases.NewRulesUsecase(ruleRepo, auditRepo, uow)
	ledgerUsecase := usecases.NewLedgerUsecase(ledgerRepo, customerRepo, auditRepo, rulesUsecase, uow)
	redemptionUsecase := usecases.NewRedemptionUsecase(ledgerUsecase, ledgerRepo, customerRepo, rewardRepo, redemptionRepo, auditRepo, uow)
	tokenUsecase := usecases.NewTokenUsecase(tokenRepo, customerRepo, ledgerRepo, auditRepo, claimStore, cfg.Loyalty.WalletClaimTTL, uow)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	tokenHandler := handlers.NewTokenHandler(tokenUsecase)
	loyaltyHandler := handlers.NewLoyaltyHandler(ledgerUsecase)
	rulesHandler := handlers.NewRulesHandler(rulesUsecase)
	rewardHandler := handlers.NewRewardHandler(redemptionUsecase)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		tokenHandler:   tokenHandler,
		loyaltyHandler: loyaltyHandler,
		rulesHandler:   rulesHandler,
		rewardHandler:  rewardHandler,
		auditHandler:   auditHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService),
	})

	logger.Info(context.Background(), "Server starting", zap.String("port", cfg.Server.Port))

	if err := runServer(newServer(r, cfg.Server.Port)); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
