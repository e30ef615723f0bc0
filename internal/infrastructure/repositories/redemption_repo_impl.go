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

// RedemptionRepository implements redemption data operations
type RedemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository creates a new redemption repository
func NewRedemptionRepository(db *gorm.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

// Create creates a new redemption record
func (r *RedemptionRepository) Create(ctx context.Context, redemption *entities.Redemption) error {
	if redemption.ID == uuid.Nil {
		redemption.ID = uuid.New()
	}
	m := &models.Redemption{
		ID:            redemption.ID,
		MerchantID:    redemption.MerchantID,
		CustomerID:    redemption.CustomerID,
		RewardID:      redemption.RewardID,
		LedgerEntryID: redemption.LedgerEntryID,
		PointsCost:    redemption.PointsCost,
		Status:        string(redemption.Status),
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	redemption.CreatedAt = m.CreatedAt
	redemption.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a redemption by ID within a merchant
func (r *RedemptionRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.Redemption, error) {
	var m models.Redemption
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND id = ?", merchantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return redemptionToEntity(&m), nil
}

// GetByLedgerEntryID gets the redemption paired with a redeem ledger entry.
// Used on idempotent replays to return the original redemption.
func (r *RedemptionRepository) GetByLedgerEntryID(ctx context.Context, merchantID, entryID uuid.UUID) (*entities.Redemption, error) {
	var m models.Redemption
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND ledger_entry_id = ?", merchantID, entryID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return redemptionToEntity(&m), nil
}

// UpdateStatus transitions a redemption between approved and reversed
func (r *RedemptionRepository) UpdateStatus(ctx context.Context, merchantID, id uuid.UUID, status entities.RedemptionStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Redemption{}).
		Where("merchant_id = ? AND id = ?", merchantID, id).
		Updates(map[string]interface{}{
			"status":     string(status),
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

// ListByCustomer lists a customer's redemptions, newest first
func (r *RedemptionRepository) ListByCustomer(ctx context.Context, merchantID, customerID uuid.UUID, limit int) ([]*entities.Redemption, error) {
	var ms []models.Redemption
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).
		Where("merchant_id = ? AND customer_id = ?", merchantID, customerID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	redemptions := make([]*entities.Redemption, 0, len(ms))
	for i := range ms {
		redemptions = append(redemptions, redemptionToEntity(&ms[i]))
	}
	return redemptions, nil
}

func redemptionToEntity(m *models.Redemption) *entities.Redemption {
	return &entities.Redemption{
		ID:            m.ID,
		MerchantID:    m.MerchantID,
		CustomerID:    m.CustomerID,
		RewardID:      m.RewardID,
		LedgerEntryID: m.LedgerEntryID,
		PointsCost:    m.PointsCost,
		Status:        entities.RedemptionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
