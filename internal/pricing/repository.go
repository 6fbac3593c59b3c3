package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// Repository wires together all pricing-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindProductWithPricing loads a product with its tiers and template eagerly,
// ordered the way the resolver expects. Single query scope so base price and
// tiers come from one consistent read.
func (r *Repository) FindProductWithPricing(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("PriceTemplate.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("PriceTemplate").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProductPricing persists the pricing columns of a product.
func (r *Repository) UpdateProductPricing(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("pricing_mode", "template_id", "price_fob", "moq_kg", "updated_at").
		Updates(map[string]any{
			"pricing_mode": product.PricingMode,
			"template_id":  product.TemplateID,
			"price_fob":    product.PriceFOB,
			"moq_kg":       product.MOQKg,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// ReplacePriceTiers replaces all custom tiers for the product.
func (r *Repository) ReplacePriceTiers(ctx context.Context, productID uuid.UUID, tiers []models.ProductPriceTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductPriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}

// DeletePriceTiers removes every custom tier of the product.
func (r *Repository) DeletePriceTiers(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductPriceTier{}).Error
}

// FindTemplate loads a template with its tiers.
func (r *Repository) FindTemplate(ctx context.Context, id uuid.UUID) (*models.PriceTierTemplate, error) {
	var template models.PriceTierTemplate
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// FindDefaultTemplate loads the producer's default template, if any.
func (r *Repository) FindDefaultTemplate(ctx context.Context, producerID uuid.UUID) (*models.PriceTierTemplate, error) {
	var template models.PriceTierTemplate
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&template, "producer_id = ? AND is_default", producerID).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates returns all templates of a producer, default first.
func (r *Repository) ListTemplates(ctx context.Context, producerID uuid.UUID) ([]models.PriceTierTemplate, error) {
	var templates []models.PriceTierTemplate
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("producer_id = ?", producerID).
		Order("is_default DESC, created_at ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate inserts a template with its tiers.
func (r *Repository) CreateTemplate(ctx context.Context, template *models.PriceTierTemplate) (*models.PriceTierTemplate, error) {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// UpdateTemplate persists template fields.
func (r *Repository) UpdateTemplate(ctx context.Context, template *models.PriceTierTemplate) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceTierTemplate{}).
		Where("id = ?", template.ID).
		Updates(map[string]any{
			"name":        template.Name,
			"description": template.Description,
			"is_default":  template.IsDefault,
			"updated_at":  time.Now().UTC(),
		}).Error
}

// ReplaceTemplateTiers replaces the discount steps of a template.
func (r *Repository) ReplaceTemplateTiers(ctx context.Context, templateID uuid.UUID, tiers []models.TemplateTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("template_id = ?", templateID).Delete(&models.TemplateTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}

// DeleteTemplate removes a template; template tiers go with it via FK cascade.
func (r *Repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PriceTierTemplate{}).Error
}

// ClearDefaultTemplates unsets is_default on every template of the producer.
// Runs inside the caller's transaction so the flip stays atomic.
func (r *Repository) ClearDefaultTemplates(ctx context.Context, producerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceTierTemplate{}).
		Where("producer_id = ? AND is_default", producerID).
		Update("is_default", false).Error
}

// CountProductsUsingTemplate returns how many products reference the template.
func (r *Repository) CountProductsUsingTemplate(ctx context.Context, templateID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("template_id = ?", templateID).
		Count(&count).Error
	return count, err
}

// ListProductsUsingTemplate loads all products linked to the template with
// their pricing data, for cascade snapshots on template edits.
func (r *Repository) ListProductsUsingTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("PriceTemplate.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("PriceTemplate").
		Where("template_id = ?", templateID).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// InsertSnapshot writes an immutable history row.
func (r *Repository) InsertSnapshot(ctx context.Context, snapshot *models.PriceTierHistory) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// ListSnapshots returns history rows for the product, newest first.
func (r *Repository) ListSnapshots(ctx context.Context, productID uuid.UUID, limit int) ([]models.PriceTierHistory, error) {
	var snapshots []models.PriceTierHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("changed_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// LatestSnapshot returns the most recent history row, if one exists.
func (r *Repository) LatestSnapshot(ctx context.Context, productID uuid.UUID) (*models.PriceTierHistory, error) {
	var snapshot models.PriceTierHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("changed_at DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// LatestSnapshotAtOrBefore returns the newest snapshot not after the given time.
func (r *Repository) LatestSnapshotAtOrBefore(ctx context.Context, productID uuid.UUID, asOf time.Time) (*models.PriceTierHistory, error) {
	var snapshot models.PriceTierHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND changed_at <= ?", productID, asOf).
		Order("changed_at DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindProducerProductByType returns the producer's most recently listed
// published product whose name matches the requested product type.
func (r *Repository) FindProducerProductByType(ctx context.Context, producerID uuid.UUID, productType string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("PriceTemplate.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("PriceTemplate").
		Where("producer_id = ? AND status = ? AND name ILIKE ?", producerID, "PUBLISHED", "%"+productType+"%").
		Order("created_at DESC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
