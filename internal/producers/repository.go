package producer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
)

// Repository wraps the producer profile queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Find returns a profile with its published products preloaded.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (*models.ProducerProfile, error) {
	var profile models.ProducerProfile
	err := r.db.WithContext(ctx).
		Preload("Products", "status = ?", enums.ProductStatusPublished).
		First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns profiles ordered by name.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.ProducerProfile, error) {
	var profiles []models.ProducerProfile
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	return profiles, err
}

func (r *Repository) Create(ctx context.Context, profile *models.ProducerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *Repository) Update(ctx context.Context, profile *models.ProducerProfile) error {
	return r.db.WithContext(ctx).
		Model(&models.ProducerProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"name":              profile.Name,
			"location_region":   profile.LocationRegion,
			"location_district": profile.LocationDistrict,
			"bio":               profile.Bio,
			"photo_url":         profile.PhotoURL,
			"badges":            profile.Badges,
		}).Error
}
