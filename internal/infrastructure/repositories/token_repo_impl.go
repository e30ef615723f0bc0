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

// TokenRepository implements token data operations
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create creates a new token. A collision on (merchant_id, public_value) is
// reported as ErrAlreadyExists; the caller regenerates the value and retries.
func (r *TokenRepository) Create(ctx context.Context, token *entities.Token) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.IssuedAt.IsZero() {
		token.IssuedAt = time.Now()
	}
	m := &models.Token{
		ID:          token.ID,
		MerchantID:  token.MerchantID,
		CustomerID:  token.CustomerID,
		Type:        string(token.Type),
		PublicValue: token.PublicValue,
		Status:      string(token.Status),
		IssuedAt:    token.IssuedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a token by ID within a merchant
func (r *TokenRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.Token, error) {
	var m models.Token
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND id = ?", merchantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return tokenToEntity(&m), nil
}

// GetByPublicValue resolves a presented credential value
func (r *TokenRepository) GetByPublicValue(ctx context.Context, merchantID uuid.UUID, publicValue string) (*entities.Token, error) {
	var m models.Token
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND public_value = ?", merchantID, publicValue).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return tokenToEntity(&m), nil
}

// ListByCustomer lists a customer's tokens
func (r *TokenRepository) ListByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]*entities.Token, error) {
	var ms []models.Token
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND customer_id = ?", merchantID, customerID).Order("issued_at").Find(&ms).Error; err != nil {
		return nil, err
	}
	tokens := make([]*entities.Token, 0, len(ms))
	for i := range ms {
		tokens = append(tokens, tokenToEntity(&ms[i]))
	}
	return tokens, nil
}

// Revoke marks a token revoked. Revocation is terminal; a revoked token is
// never reactivated.
func (r *TokenRepository) Revoke(ctx context.Context, merchantID, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Token{}).
		Where("merchant_id = ? AND id = ? AND status = ?", merchantID, id, string(entities.TokenStatusActive)).
		Updates(map[string]interface{}{
			"status":     string(entities.TokenStatusRevoked),
			"revoked_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func tokenToEntity(m *models.Token) *entities.Token {
	return &entities.Token{
		ID:          m.ID,
		MerchantID:  m.MerchantID,
		CustomerID:  m.CustomerID,
		Type:        entities.TokenType(m.Type),
		PublicValue: m.PublicValue,
		Status:      entities.TokenStatus(m.Status),
		IssuedAt:    m.IssuedAt,
		RevokedAt:   null.TimeFromPtr(m.RevokedAt),
	}
}
