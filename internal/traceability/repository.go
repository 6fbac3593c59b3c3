package traceability

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// Repository wraps the traceability event queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, event *models.TraceabilityEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByProduct returns the full custody chain in chronological order.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.TraceabilityEvent, error) {
	var events []models.TraceabilityEvent
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}
