package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/repositories"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
	"github.com/ParvPasricha/loyalty-system/internal/usecases"
	"github.com/ParvPasricha/loyalty-system/pkg/jwt"
	"github.com/ParvPasricha/loyalty-system/pkg/redis"
)

const testClaimKeyHex = "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"

// testServer runs the full HTTP stack against in-memory backends.
type testServer struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwt.JWTService
	merchantID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Merchant{},
		&models.Customer{},
		&models.Token{},
		&models.RuleVersion{},
		&models.LedgerEntry{},
		&models.Reward{},
		&models.Redemption{},
		&models.AuditLog{},
		&models.User{},
	))

	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	claimStore, err := redis.NewClaimStore(testClaimKeyHex)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService("test-secret", time.Minute, time.Hour)

	userRepo := repositories.NewUserRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	ruleRepo := repositories.NewRuleVersionRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	rewardRepo := repositories.NewRewardRepository(db)
	redemptionRepo := repositories.NewRedemptionRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	uow := repositories.NewUnitOfWork(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	rulesUsecase := usecases.NewRulesUsecase(ruleRepo, auditRepo, uow)
	ledgerUsecase := usecases.NewLedgerUsecase(ledgerRepo, customerRepo, auditRepo, rulesUsecase, uow)
	redemptionUsecase := usecases.NewRedemptionUsecase(ledgerUsecase, ledgerRepo, customerRepo, rewardRepo, redemptionRepo, auditRepo, uow)
	tokenUsecase := usecases.NewTokenUsecase(tokenRepo, customerRepo, ledgerRepo, auditRepo, claimStore, time.Minute, uow)

	r := gin.New()
	authMW := middleware.AuthMiddleware(jwtService)

	v1 := r.Group("/api/v1")
	auth := v1.Group("/auth")
	authHandler := NewAuthHandler(authUsecase)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	staff := v1.Group("/staff")
	staff.Use(authMW, middleware.RequireOwner())
	staff.POST("", authHandler.CreateStaff)

	tokenHandler := NewTokenHandler(tokenUsecase)
	tokens := v1.Group("/tokens")
	tokens.Use(authMW)
	tokens.POST("", tokenHandler.Issue)
	tokens.POST("/resolve", tokenHandler.Resolve)
	tokens.POST("/wallet-claim", tokenHandler.ClaimWalletPass)
	tokens.POST("/:id/revoke", middleware.RequireManager(), tokenHandler.Revoke)

	loyaltyHandler := NewLoyaltyHandler(ledgerUsecase)
	rewardHandler := NewRewardHandler(redemptionUsecase)
	customers := v1.Group("/customers")
	customers.Use(authMW)
	customers.GET("/:id/balance", loyaltyHandler.Balance)
	customers.GET("/:id/ledger", loyaltyHandler.Ledger)
	customers.GET("/:id/tokens", tokenHandler.ListByCustomer)
	customers.POST("/:id/wallet-claim", tokenHandler.CreateWalletClaim)

	loyalty := v1.Group("/loyalty")
	loyalty.Use(authMW)
	loyalty.POST("/earn", loyaltyHandler.Earn)
	loyalty.POST("/redeem", rewardHandler.Redeem)
	loyalty.POST("/adjust", middleware.RequireOwner(), loyaltyHandler.Adjust)

	rulesHandler := NewRulesHandler(rulesUsecase)
	rules := v1.Group("/rules")
	rules.Use(authMW)
	rules.GET("", middleware.RequireManager(), rulesHandler.List)
	rules.GET("/active", rulesHandler.Active)
	rules.POST("", middleware.RequireOwner(), rulesHandler.Create)

	rewards := v1.Group("/rewards")
	rewards.Use(authMW)
	rewards.GET("", rewardHandler.List)
	rewards.POST("", middleware.RequireManager(), rewardHandler.Create)
	rewards.POST("/:id/deactivate", middleware.RequireManager(), rewardHandler.Deactivate)

	redemptions := v1.Group("/redemptions")
	redemptions.Use(authMW, middleware.RequireManager())
	redemptions.POST("/:id/reverse", rewardHandler.Reverse)

	auditHandler := NewAuditHandler(auditRepo)
	audit := v1.Group("/audit-logs")
	audit.Use(authMW, middleware.RequireOwner())
	audit.GET("", auditHandler.List)

	return &testServer{
		router:     r,
		db:         db,
		jwtService: jwtService,
		merchantID: uuid.New(),
	}
}

func (s *testServer) bearerFor(t *testing.T, role string) string {
	t.Helper()
	pair, err := s.jwtService.GenerateTokenPair(uuid.New(), s.merchantID, role+"@shop.test", role)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createCustomer(t *testing.T) uuid.UUID {
	t.Helper()
	customer := &entities.Customer{MerchantID: s.merchantID, Status: entities.CustomerStatusActive}
	require.NoError(t, repositories.NewCustomerRepository(s.db).Create(context.Background(), customer))
	return customer.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
