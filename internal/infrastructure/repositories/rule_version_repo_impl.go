package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
)

// RuleVersionRepository implements rule-version data operations. Versions are
// append-only; there is no update or delete.
type RuleVersionRepository struct {
	db *gorm.DB
}

// NewRuleVersionRepository creates a new rule version repository
func NewRuleVersionRepository(db *gorm.DB) *RuleVersionRepository {
	return &RuleVersionRepository{db: db}
}

// Create inserts a new version row. A collision on (merchant_id, version) is
// reported as ErrAlreadyExists so the caller can re-read the max and retry.
func (r *RuleVersionRepository) Create(ctx context.Context, rule *entities.RuleVersion) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	m := &models.RuleVersion{
		ID:              rule.ID,
		MerchantID:      rule.MerchantID,
		Version:         rule.Version,
		PointsPerUnit:   rule.PointsPerUnit,
		Rounding:        string(rule.Rounding),
		PromoMultiplier: rule.PromoMultiplier,
		EffectiveFrom:   rule.EffectiveFrom,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	rule.CreatedAt = m.CreatedAt
	return nil
}

// GetActive returns the highest version effective at or before asOf
func (r *RuleVersionRepository) GetActive(ctx context.Context, merchantID uuid.UUID, asOf time.Time) (*entities.RuleVersion, error) {
	var m models.RuleVersion
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND effective_from <= ?", merchantID, asOf).
		Order("version DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return ruleVersionToEntity(&m), nil
}

// MaxVersion returns the highest assigned version number, 0 when none exist
func (r *RuleVersionRepository) MaxVersion(ctx context.Context, merchantID uuid.UUID) (int, error) {
	var max int
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.RuleVersion{}).
		Where("merchant_id = ?", merchantID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// ListByMerchant lists all versions for a merchant, newest version first
func (r *RuleVersionRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.RuleVersion, error) {
	var ms []models.RuleVersion
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ?", merchantID).Order("version DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	rules := make([]*entities.RuleVersion, 0, len(ms))
	for i := range ms {
		rules = append(rules, ruleVersionToEntity(&ms[i]))
	}
	return rules, nil
}

func ruleVersionToEntity(m *models.RuleVersion) *entities.RuleVersion {
	return &entities.RuleVersion{
		ID:              m.ID,
		MerchantID:      m.MerchantID,
		Version:         m.Version,
		PointsPerUnit:   m.PointsPerUnit,
		Rounding:        entities.RoundingMode(m.Rounding),
		PromoMultiplier: m.PromoMultiplier,
		EffectiveFrom:   m.EffectiveFrom,
		CreatedAt:       m.CreatedAt,
	}
}
