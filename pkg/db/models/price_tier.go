package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPriceTier is one custom quantity tier owned by a single product.
// Position is a dense 0-based rank assigned by ascending min_quantity_kg at
// write time; tiers are always replaced wholesale, never patched.
type ProductPriceTier struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	MinQuantityKg decimal.Decimal  `gorm:"column:min_quantity_kg;type:numeric(12,2);not null"`
	MaxQuantityKg *decimal.Decimal `gorm:"column:max_quantity_kg;type:numeric(12,2)"`
	PricePerKg    decimal.Decimal  `gorm:"column:price_per_kg;type:numeric(12,2);not null"`
	Position      int              `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
