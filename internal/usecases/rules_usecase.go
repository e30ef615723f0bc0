package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
)

// createVersionRetries bounds how often a concurrent version append is retried
// before giving up.
const createVersionRetries = 3

// RulesUsecase handles rule-version business logic
type RulesUsecase struct {
	ruleRepo  repositories.RuleVersionRepository
	auditRepo repositories.AuditLogRepository
	uow       repositories.UnitOfWork
	now       func() time.Time
}

// NewRulesUsecase creates a new rules usecase
func NewRulesUsecase(
	ruleRepo repositories.RuleVersionRepository,
	auditRepo repositories.AuditLogRepository,
	uow repositories.UnitOfWork,
) *RulesUsecase {
	return &RulesUsecase{
		ruleRepo:  ruleRepo,
		auditRepo: auditRepo,
		uow:       uow,
		now:       time.Now,
	}
}

// ResolveActiveRule returns the rule version that governs points computation
// at asOf: the highest version whose effective-from timestamp is at or before
// asOf. A merchant with no effective version cannot earn points yet.
func (u *RulesUsecase) ResolveActiveRule(ctx context.Context, merchantID uuid.UUID, asOf time.Time) (*entities.RuleVersion, error) {
	rule, err := u.ruleRepo.GetActive(ctx, merchantID, asOf)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrRulesMissing
		}
		return nil, err
	}
	return rule, nil
}

// CreateRuleVersion appends a new rule version for the merchant. Versions are
// assigned max+1 inside the transaction; a concurrent append loses the unique
// (merchant, version) race and is retried with a fresh number.
func (u *RulesUsecase) CreateRuleVersion(ctx context.Context, merchantID uuid.UUID, actorID *uuid.UUID, input *entities.RuleVersionCreateInput) (*entities.RuleVersion, error) {
	if input.PointsPerUnit.Sign() <= 0 {
		return nil, domainerrors.BadRequest("pointsPerUnit must be positive")
	}
	if input.Rounding != entities.RoundingFloor && input.Rounding != entities.RoundingNearest {
		return nil, domainerrors.BadRequest("rounding must be floor or nearest")
	}

	multiplier := input.PromoMultiplier
	if multiplier.IsZero() {
		multiplier = decimal.NewFromInt(1)
	}
	if multiplier.Sign() <= 0 {
		return nil, domainerrors.BadRequest("promoMultiplier must be positive")
	}

	effectiveFrom := input.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = u.now()
	}

	var created *entities.RuleVersion
	var lastErr error
	for attempt := 0; attempt < createVersionRetries; attempt++ {
		err := u.uow.Do(ctx, func(txCtx context.Context) error {
			max, err := u.ruleRepo.MaxVersion(txCtx, merchantID)
			if err != nil {
				return err
			}

			rule := &entities.RuleVersion{
				MerchantID:      merchantID,
				Version:         max + 1,
				PointsPerUnit:   input.PointsPerUnit,
				Rounding:        input.Rounding,
				PromoMultiplier: multiplier,
				EffectiveFrom:   effectiveFrom,
			}
			if err := u.ruleRepo.Create(txCtx, rule); err != nil {
				return err
			}

			if err := u.auditRepo.Create(txCtx, &entities.AuditLog{
				MerchantID: merchantID,
				ActorID:    actorID,
				Action:     "rule_version.create",
				TargetType: "rule_version",
				TargetID:   rule.ID,
			}); err != nil {
				return err
			}

			created = rule
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create rule version: %w", lastErr)
}

// ListRuleVersions returns every version for the merchant, newest first.
func (u *RulesUsecase) ListRuleVersions(ctx context.Context, merchantID uuid.UUID) ([]*entities.RuleVersion, error) {
	return u.ruleRepo.ListByMerchant(ctx, merchantID)
}
