package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/models"
)

// AuditLogRepository implements audit-log data operations
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends one audit record. Called inside the same transaction as the
// mutation it describes.
func (r *AuditLogRepository) Create(ctx context.Context, log *entities.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	m := &models.AuditLog{
		ID:         log.ID,
		MerchantID: log.MerchantID,
		ActorID:    log.ActorID,
		Action:     log.Action,
		TargetType: log.TargetType,
		TargetID:   log.TargetID,
	}
	if log.Metadata.Valid {
		m.Metadata = string(log.Metadata.JSON)
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.CreatedAt = m.CreatedAt
	return nil
}

// ListByMerchant lists a merchant's audit records, newest first
func (r *AuditLogRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*entities.AuditLog, error) {
	var ms []models.AuditLog
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Where("merchant_id = ?", merchantID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	logs := make([]*entities.AuditLog, 0, len(ms))
	for i := range ms {
		m := ms[i]
		e := &entities.AuditLog{
			ID:         m.ID,
			MerchantID: m.MerchantID,
			ActorID:    m.ActorID,
			Action:     m.Action,
			TargetType: m.TargetType,
			TargetID:   m.TargetID,
			CreatedAt:  m.CreatedAt,
		}
		if m.Metadata != "" {
			e.Metadata = null.JSONFrom([]byte(m.Metadata))
		}
		logs = append(logs, e)
	}
	return logs, nil
}

// CountByMerchant counts a merchant's audit records
func (r *AuditLogRepository) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int64, error) {
	var count int64
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).Model(&models.AuditLog{}).Where("merchant_id = ?", merchantID).Count(&count).Error
	return count, err
}
