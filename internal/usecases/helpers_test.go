package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainRepos "github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/repositories"
)

// testEnv wires the full usecase stack against an in-memory database.
type testEnv struct {
	db             *gorm.DB
	customerRepo   domainRepos.CustomerRepository
	ledgerRepo     domainRepos.LedgerRepository
	ruleRepo       domainRepos.RuleVersionRepository
	tokenRepo      domainRepos.TokenRepository
	rewardRepo     domainRepos.RewardRepository
	redemptionRepo domainRepos.RedemptionRepository
	auditRepo      domainRepos.AuditLogRepository
	uow            domainRepos.UnitOfWork

	rules      *RulesUsecase
	ledger     *LedgerUsecase
	redemption *RedemptionUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")

	// sqlite shared-cache is not safe for concurrent writers on separate
	// connections; a single connection serializes transactions the way the
	// postgres row lock does in production
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

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

	env := &testEnv{
		db:             db,
		customerRepo:   repositories.NewCustomerRepository(db),
		ledgerRepo:     repositories.NewLedgerRepository(db),
		ruleRepo:       repositories.NewRuleVersionRepository(db),
		tokenRepo:      repositories.NewTokenRepository(db),
		rewardRepo:     repositories.NewRewardRepository(db),
		redemptionRepo: repositories.NewRedemptionRepository(db),
		auditRepo:      repositories.NewAuditLogRepository(db),
		uow:            repositories.NewUnitOfWork(db),
	}
	env.rules = NewRulesUsecase(env.ruleRepo, env.auditRepo, env.uow)
	env.ledger = NewLedgerUsecase(env.ledgerRepo, env.customerRepo, env.auditRepo, env.rules, env.uow)
	env.redemption = NewRedemptionUsecase(env.ledger, env.ledgerRepo, env.customerRepo, env.rewardRepo, env.redemptionRepo, env.auditRepo, env.uow)
	return env
}

func (e *testEnv) createCustomer(t *testing.T, merchantID uuid.UUID) uuid.UUID {
	t.Helper()
	customer := &entities.Customer{MerchantID: merchantID, Status: entities.CustomerStatusActive}
	require.NoError(t, e.customerRepo.Create(context.Background(), customer))
	return customer.ID
}

func (e *testEnv) createRule(t *testing.T, merchantID uuid.UUID, ppu string, rounding entities.RoundingMode, multiplier string, effectiveFrom time.Time) *entities.RuleVersion {
	t.Helper()
	rv, err := e.rules.CreateRuleVersion(context.Background(), merchantID, nil, &entities.RuleVersionCreateInput{
		PointsPerUnit:   decimal.RequireFromString(ppu),
		Rounding:        rounding,
		PromoMultiplier: decimal.RequireFromString(multiplier),
		EffectiveFrom:   effectiveFrom,
	})
	require.NoError(t, err)
	return rv
}

func (e *testEnv) createReward(t *testing.T, merchantID uuid.UUID, name string, cost int64) *entities.Reward {
	t.Helper()
	reward := &entities.Reward{MerchantID: merchantID, Name: name, PointsCost: cost, IsActive: true}
	require.NoError(t, e.rewardRepo.Create(context.Background(), reward))
	return reward
}

func (e *testEnv) auditCount(t *testing.T, merchantID uuid.UUID) int {
	t.Helper()
	logs, err := e.auditRepo.ListByMerchant(context.Background(), merchantID, 100, 0)
	require.NoError(t, err)
	return len(logs)
}
