package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk-api/internal/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return storeErr("creating audit entry", err)
	}
	return nil
}
