package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
)

// CustomerRepository implements customer data operations
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.Status == "" {
		customer.Status = entities.CustomerStatusActive
	}
	m := &models.Customer{
		ID:         customer.ID,
		MerchantID: customer.MerchantID,
		Status:     string(customer.Status),
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	customer.CreatedAt = m.CreatedAt
	customer.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a customer by ID within a merchant
func (r *CustomerRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.Customer, error) {
	return r.get(ctx, merchantID, id, false)
}

// LockForUpdate loads the customer row under SELECT ... FOR UPDATE. The row
// lock serializes all balance-affecting operations for this customer until
// the surrounding transaction ends.
func (r *CustomerRepository) LockForUpdate(ctx context.Context, merchantID, id uuid.UUID) (*entities.Customer, error) {
	return r.get(ctx, merchantID, id, true)
}

func (r *CustomerRepository) get(ctx context.Context, merchantID, id uuid.UUID, lock bool) (*entities.Customer, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx)
	// SQLite has no row-level locks; its single writer serializes transactions.
	if lock && db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m models.Customer
	if err := q.Where("merchant_id = ? AND id = ?", merchantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return customerToEntity(&m), nil
}

// UpdateStatus updates a customer's status (active/blocked)
func (r *CustomerRepository) UpdateStatus(ctx context.Context, merchantID, id uuid.UUID, status entities.CustomerStatus) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Customer{}).
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

func customerToEntity(m *models.Customer) *entities.Customer {
	return &entities.Customer{
		ID:         m.ID,
		MerchantID: m.MerchantID,
		Status:     entities.CustomerStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
