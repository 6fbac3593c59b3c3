package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTierTemplate is a producer-owned reusable discount schedule. At most one
// template per producer carries IsDefault; setting a new default clears the flag
// on the siblings in the same transaction.
type PriceTierTemplate struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProducerID  uuid.UUID      `gorm:"column:producer_id;type:uuid;not null"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	IsDefault   bool           `gorm:"column:is_default;not null;default:false"`
	Tiers       []TemplateTier `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TemplateTier is one discount step inside a template. The final unit price is
// base_price * (1 - discount_percent/100) against the product it is applied to.
type TemplateTier struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TemplateID      uuid.UUID        `gorm:"column:template_id;type:uuid;not null"`
	MinQuantityKg   decimal.Decimal  `gorm:"column:min_quantity_kg;type:numeric(12,2);not null"`
	MaxQuantityKg   *decimal.Decimal `gorm:"column:max_quantity_kg;type:numeric(12,2)"`
	DiscountPercent decimal.Decimal  `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	Position        int              `gorm:"column:position;not null;default:0"`
}
