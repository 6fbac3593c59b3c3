package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a priced purchase of a single lot. PricePerKg and Total are frozen
// from the tier engine at creation time.
type Order struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID    uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	QuantityKg decimal.Decimal `gorm:"column:quantity_kg;type:numeric(12,2);not null"`
	PricePerKg decimal.Decimal `gorm:"column:price_per_kg;type:numeric(12,2);not null"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
	Status     string          `gorm:"column:status;not null;default:PENDING"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
