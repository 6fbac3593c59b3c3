package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/enums"
)

// Product is a priced lot listed by a producer. The pricing columns drive the
// tier resolution engine: exactly one of PriceTiers (TIERED) or TemplateID
// (TEMPLATE) is populated outside SINGLE mode.
type Product struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProducerID      *uuid.UUID          `gorm:"column:producer_id;type:uuid"`
	Name            string              `gorm:"column:name;not null"`
	Description     *string             `gorm:"column:description"`
	Origin          *string             `gorm:"column:origin"`
	FarmerName      *string             `gorm:"column:farmer_name"`
	Grade           enums.ProductGrade  `gorm:"column:grade;not null;default:A"`
	Status          enums.ProductStatus `gorm:"column:status;not null;default:DRAFT"`
	HarvestDate     *string             `gorm:"column:harvest_date"`
	MoistureContent *decimal.Decimal    `gorm:"column:moisture_content;type:numeric(5,2)"`
	VanillinContent *decimal.Decimal    `gorm:"column:vanillin_content;type:numeric(5,2)"`
	QuantityKg      decimal.Decimal     `gorm:"column:quantity_kg;type:numeric(12,2);not null;default:0"`
	ImageURLRaw     *string             `gorm:"column:image_url_raw"`
	ImageURLAI      *string             `gorm:"column:image_url_ai"`

	PriceFOB      decimal.Decimal   `gorm:"column:price_fob;type:numeric(12,2);not null"`
	MOQKg         decimal.Decimal   `gorm:"column:moq_kg;type:numeric(12,2);not null;default:1"`
	PricingMode   enums.PricingMode `gorm:"column:pricing_mode;not null;default:SINGLE"`
	TemplateID    *uuid.UUID        `gorm:"column:template_id;type:uuid"`
	PriceTemplate *PriceTierTemplate `gorm:"foreignKey:TemplateID"`
	PriceTiers    []ProductPriceTier `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PriceHistory  []PriceTierHistory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
