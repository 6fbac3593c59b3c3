package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// ProductDTO is the catalog shape of a lot.
type ProductDTO struct {
	ID              uuid.UUID        `json:"id"`
	ProducerID      *uuid.UUID       `json:"producer_id,omitempty"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Origin          *string          `json:"origin,omitempty"`
	FarmerName      *string          `json:"farmer_name,omitempty"`
	Grade           string           `json:"grade"`
	Status          string           `json:"status"`
	HarvestDate     *string          `json:"harvest_date,omitempty"`
	MoistureContent *decimal.Decimal `json:"moisture_content,omitempty"`
	VanillinContent *decimal.Decimal `json:"vanillin_content,omitempty"`
	QuantityKg      decimal.Decimal  `json:"quantity_kg"`
	ImageURLRaw     *string          `json:"image_url_raw,omitempty"`
	ImageURLAI      *string          `json:"image_url_ai,omitempty"`
	PriceFOB        decimal.Decimal  `json:"price_fob"`
	MOQKg           decimal.Decimal  `json:"moq_kg"`
	PricingMode     string           `json:"pricing_mode"`
	TemplateID      *uuid.UUID       `json:"template_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewProductDTO maps a product row to its API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:              product.ID,
		ProducerID:      product.ProducerID,
		Name:            product.Name,
		Description:     product.Description,
		Origin:          product.Origin,
		FarmerName:      product.FarmerName,
		Grade:           product.Grade.String(),
		Status:          product.Status.String(),
		HarvestDate:     product.HarvestDate,
		MoistureContent: product.MoistureContent,
		VanillinContent: product.VanillinContent,
		QuantityKg:      product.QuantityKg,
		ImageURLRaw:     product.ImageURLRaw,
		ImageURLAI:      product.ImageURLAI,
		PriceFOB:        product.PriceFOB,
		MOQKg:           product.MOQKg,
		PricingMode:     product.PricingMode.String(),
		TemplateID:      product.TemplateID,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}
