package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
)

// RewardRepository implements reward data operations
type RewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates a new reward repository
func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// Create creates a new reward
func (r *RewardRepository) Create(ctx context.Context, reward *entities.Reward) error {
	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}
	m := &models.Reward{
		ID:         reward.ID,
		MerchantID: reward.MerchantID,
		Name:       reward.Name,
		PointsCost: reward.PointsCost,
		IsActive:   reward.IsActive,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	reward.CreatedAt = m.CreatedAt
	reward.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a reward by ID
func (r *RewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Reward, error) {
	var m models.Reward
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return rewardToEntity(&m), nil
}

// ListByMerchant lists a merchant's rewards
func (r *RewardRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, activeOnly bool) ([]*entities.Reward, error) {
	var ms []models.Reward
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Where("merchant_id = ?", merchantID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("created_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	rewards := make([]*entities.Reward, 0, len(ms))
	for i := range ms {
		rewards = append(rewards, rewardToEntity(&ms[i]))
	}
	return rewards, nil
}

// Deactivate marks a reward inactive
func (r *RewardRepository) Deactivate(ctx context.Context, merchantID, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Reward{}).
		Where("merchant_id = ? AND id = ?", merchantID, id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func rewardToEntity(m *models.Reward) *entities.Reward {
	e := &entities.Reward{
		ID:         m.ID,
		MerchantID: m.MerchantID,
		Name:       m.Name,
		PointsCost: m.PointsCost,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		e.DeletedAt = null.TimeFrom(m.DeletedAt.Time)
	}
	return e
}
