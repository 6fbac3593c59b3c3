package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/types"
)

// EffectiveTierDTO is the serialized form of one resolved tier.
type EffectiveTierDTO struct {
	MinQuantityKg   decimal.Decimal  `json:"min_quantity_kg"`
	MaxQuantityKg   *decimal.Decimal `json:"max_quantity_kg,omitempty"`
	PricePerKg      decimal.Decimal  `json:"price_per_kg"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	Position        int              `json:"position"`
}

// EffectiveTiersDTO is the full pricing view of a product.
type EffectiveTiersDTO struct {
	ProductID  uuid.UUID          `json:"product_id"`
	Mode       string             `json:"mode"`
	BasePrice  decimal.Decimal    `json:"base_price"`
	MOQKg      decimal.Decimal    `json:"moq_kg"`
	TemplateID *uuid.UUID         `json:"template_id,omitempty"`
	Tiers      []EffectiveTierDTO `json:"tiers"`
}

// SavingsDTO reports what the applied tier saves against the FOB price.
type SavingsDTO struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// NextTierDTO is the upsell hint toward the next quantity threshold.
type NextTierDTO struct {
	MinQuantityKg decimal.Decimal `json:"min_quantity_kg"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	ExtraSavings  decimal.Decimal `json:"extra_savings"`
}

// TrendDTO reports base price movement since the latest snapshot.
type TrendDTO struct {
	Direction string          `json:"direction"`
	Percent   decimal.Decimal `json:"percent"`
}

// CalculatedPriceDTO is the result of a price calculation at a quantity.
type CalculatedPriceDTO struct {
	ProductID     uuid.UUID         `json:"product_id"`
	QuantityKg    decimal.Decimal   `json:"quantity_kg"`
	PricePerKg    decimal.Decimal   `json:"price_per_kg"`
	Total         decimal.Decimal   `json:"total"`
	AppliedTier   *EffectiveTierDTO `json:"applied_tier,omitempty"`
	SavingsVsBase *SavingsDTO       `json:"savings_vs_base,omitempty"`
	NextTier      *NextTierDTO      `json:"next_tier,omitempty"`
	Trend         *TrendDTO         `json:"trend,omitempty"`
}

// PricingModeDTO is the result of a mode switch.
type PricingModeDTO struct {
	ProductID  uuid.UUID          `json:"product_id"`
	Mode       string             `json:"mode"`
	TemplateID *uuid.UUID         `json:"template_id,omitempty"`
	Tiers      []EffectiveTierDTO `json:"effective_tiers"`
}

// TemplateTierDTO is one discount step of a template.
type TemplateTierDTO struct {
	MinQuantityKg   decimal.Decimal  `json:"min_quantity_kg"`
	MaxQuantityKg   *decimal.Decimal `json:"max_quantity_kg,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	Position        int              `json:"position"`
}

// TemplateDTO is the client view of a producer discount template.
type TemplateDTO struct {
	ID          uuid.UUID         `json:"id"`
	ProducerID  uuid.UUID         `json:"producer_id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	IsDefault   bool              `json:"is_default"`
	Tiers       []TemplateTierDTO `json:"tiers"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SnapshotDTO is one historical pricing configuration record.
type SnapshotDTO struct {
	ID           uuid.UUID              `json:"id"`
	ProductID    uuid.UUID              `json:"product_id"`
	PricingMode  string                 `json:"pricing_mode"`
	BasePriceFOB decimal.Decimal        `json:"base_price_fob"`
	Tiers        types.TierSnapshotList `json:"tiers,omitempty"`
	TemplateID   *uuid.UUID             `json:"template_id,omitempty"`
	ChangeReason *string                `json:"change_reason,omitempty"`
	ChangedBy    *string                `json:"changed_by,omitempty"`
	ChangedAt    time.Time              `json:"changed_at"`
}

// ComparisonDTO answers "what did this cost on date X versus now". Percent is
// omitted when the historical base price was zero.
type ComparisonDTO struct {
	ProductID     uuid.UUID        `json:"product_id"`
	AsOfDate      time.Time        `json:"as_of_date"`
	SnapshotBase  decimal.Decimal  `json:"snapshot_base_price"`
	CurrentBase   decimal.Decimal  `json:"current_base_price"`
	PercentChange *decimal.Decimal `json:"percent_change,omitempty"`
	SnapshotAt    time.Time        `json:"snapshot_at"`
}

// SuggestionDTO is the producer-side price suggestion for a sourcing request.
type SuggestionDTO struct {
	RequestID       uuid.UUID          `json:"request_id"`
	ProducerID      uuid.UUID          `json:"producer_id"`
	HasPricingTiers bool               `json:"has_pricing_tiers"`
	Source          string             `json:"source,omitempty"`
	ProductID       *uuid.UUID         `json:"product_id,omitempty"`
	BasePrice       *decimal.Decimal   `json:"base_price,omitempty"`
	PricePerKg      *decimal.Decimal   `json:"price_per_kg,omitempty"`
	Total           *decimal.Decimal   `json:"total,omitempty"`
	Tiers           []EffectiveTierDTO `json:"tiers,omitempty"`
}

func newEffectiveTierDTO(tier EffectiveTier) EffectiveTierDTO {
	return EffectiveTierDTO{
		MinQuantityKg:   tier.MinQuantityKg,
		MaxQuantityKg:   tier.MaxQuantityKg,
		PricePerKg:      tier.PricePerKg,
		DiscountPercent: tier.DiscountPercent,
		Position:        tier.Position,
	}
}

func newEffectiveTierDTOs(tiers []EffectiveTier) []EffectiveTierDTO {
	out := make([]EffectiveTierDTO, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, newEffectiveTierDTO(tier))
	}
	return out
}

// NewTemplateDTO builds a DTO from the persisted template.
func NewTemplateDTO(template *models.PriceTierTemplate) *TemplateDTO {
	dto := &TemplateDTO{
		ID:          template.ID,
		ProducerID:  template.ProducerID,
		Name:        template.Name,
		Description: template.Description,
		IsDefault:   template.IsDefault,
		Tiers:       make([]TemplateTierDTO, 0, len(template.Tiers)),
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
	for _, tier := range template.Tiers {
		dto.Tiers = append(dto.Tiers, TemplateTierDTO{
			MinQuantityKg:   tier.MinQuantityKg,
			MaxQuantityKg:   tier.MaxQuantityKg,
			DiscountPercent: tier.DiscountPercent,
			Position:        tier.Position,
		})
	}
	return dto
}

// NewSnapshotDTO builds a DTO from a persisted history row.
func NewSnapshotDTO(snapshot *models.PriceTierHistory) SnapshotDTO {
	return SnapshotDTO{
		ID:           snapshot.ID,
		ProductID:    snapshot.ProductID,
		PricingMode:  snapshot.PricingMode.String(),
		BasePriceFOB: snapshot.BasePriceFOB,
		Tiers:        snapshot.TiersSnapshot,
		TemplateID:   snapshot.TemplateIDSnapshot,
		ChangeReason: snapshot.ChangeReason,
		ChangedBy:    snapshot.ChangedBy,
		ChangedAt:    snapshot.ChangedAt,
	}
}
