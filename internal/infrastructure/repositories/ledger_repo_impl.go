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

// LedgerRepository implements ledger data operations. The ledger is
// append-only: this type exposes no update or delete, and nothing else in the
// codebase writes to the ledger table.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Insert appends one entry. A rejection by the (merchant_id, idempotency_key)
// uniqueness index is reported as ErrAlreadyExists so the caller can take the
// replay path; any other constraint failure is a genuine data error.
func (r *LedgerRepository) Insert(ctx context.Context, entry *entities.LedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m := &models.LedgerEntry{
		ID:             entry.ID,
		MerchantID:     entry.MerchantID,
		CustomerID:     entry.CustomerID,
		Type:           string(entry.Type),
		PointsDelta:    entry.PointsDelta,
		Source:         string(entry.Source),
		ExternalID:     entry.ExternalID.Ptr(),
		RuleVersionID:  entry.RuleVersionID,
		IdempotencyKey: entry.IdempotencyKey,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	entry.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets an entry by ID within a merchant
func (r *LedgerRepository) GetByID(ctx context.Context, merchantID, id uuid.UUID) (*entities.LedgerEntry, error) {
	var m models.LedgerEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND id = ?", merchantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return ledgerEntryToEntity(&m), nil
}

// GetByIdempotencyKey gets the entry previously written for a key
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, merchantID uuid.UUID, key string) (*entities.LedgerEntry, error) {
	var m models.LedgerEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ? AND idempotency_key = ?", merchantID, key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return ledgerEntryToEntity(&m), nil
}

// SumDeltas derives the customer's balance from the ledger
func (r *LedgerRepository) SumDeltas(ctx context.Context, merchantID, customerID uuid.UUID) (int64, error) {
	var sum int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("merchant_id = ? AND customer_id = ?", merchantID, customerID).
		Select("COALESCE(SUM(points_delta), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// List returns a customer's entries, newest first
func (r *LedgerRepository) List(ctx context.Context, merchantID, customerID uuid.UUID, limit int) ([]*entities.LedgerEntry, error) {
	var ms []models.LedgerEntry
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
	entries := make([]*entities.LedgerEntry, 0, len(ms))
	for i := range ms {
		entries = append(entries, ledgerEntryToEntity(&ms[i]))
	}
	return entries, nil
}

func ledgerEntryToEntity(m *models.LedgerEntry) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		ID:             m.ID,
		MerchantID:     m.MerchantID,
		CustomerID:     m.CustomerID,
		Type:           entities.EntryType(m.Type),
		PointsDelta:    m.PointsDelta,
		Source:         entities.EntrySource(m.Source),
		ExternalID:     null.StringFromPtr(m.ExternalID),
		RuleVersionID:  m.RuleVersionID,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
	}
}
