package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
)

// MerchantRepository implements merchant data operations
type MerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// Create creates a new merchant
func (r *MerchantRepository) Create(ctx context.Context, merchant *entities.Merchant) error {
	if merchant.ID == uuid.Nil {
		merchant.ID = uuid.New()
	}
	m := &models.Merchant{
		ID:          merchant.ID,
		Slug:        merchant.Slug,
		DisplayName: merchant.DisplayName,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	merchant.CreatedAt = m.CreatedAt
	merchant.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a merchant by ID
func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	var m models.Merchant
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return merchantToEntity(&m), nil
}

// GetBySlug gets a merchant by its URL-safe slug
func (r *MerchantRepository) GetBySlug(ctx context.Context, slug string) (*entities.Merchant, error) {
	var m models.Merchant
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return merchantToEntity(&m), nil
}

// List lists all merchants
func (r *MerchantRepository) List(ctx context.Context) ([]*entities.Merchant, error) {
	var ms []models.Merchant
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Order("created_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	merchants := make([]*entities.Merchant, 0, len(ms))
	for i := range ms {
		merchants = append(merchants, merchantToEntity(&ms[i]))
	}
	return merchants, nil
}

func merchantToEntity(m *models.Merchant) *entities.Merchant {
	e := &entities.Merchant{
		ID:          m.ID,
		Slug:        m.Slug,
		DisplayName: m.DisplayName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		e.DeletedAt = null.TimeFrom(m.DeletedAt.Time)
	}
	return e
}
