package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/enums"
	"github.com/teravoo/teravoo-backend/pkg/types"
)

// PriceTierHistory is an immutable snapshot of a product's effective pricing
// configuration, written inside the same transaction as the mutation it
// precedes.
type PriceTierHistory struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID              `gorm:"column:product_id;type:uuid;not null;index"`
	PricingMode        enums.PricingMode      `gorm:"column:pricing_mode;not null"`
	BasePriceFOB       decimal.Decimal        `gorm:"column:base_price_fob;type:numeric(12,2);not null"`
	TiersSnapshot      types.TierSnapshotList `gorm:"column:tiers_snapshot;type:jsonb"`
	TemplateIDSnapshot *uuid.UUID             `gorm:"column:template_id_snapshot;type:uuid"`
	ChangeReason       *string                `gorm:"column:change_reason"`
	ChangedBy          *string                `gorm:"column:changed_by"`
	ChangedAt          time.Time              `gorm:"column:changed_at;autoCreateTime"`
}
