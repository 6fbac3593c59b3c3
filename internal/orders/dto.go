package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// OrderDTO is the API shape of a purchase.
type OrderDTO struct {
	ID         uuid.UUID       `json:"id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewOrderDTO maps an order row to its API shape.
func NewOrderDTO(row *models.Order) *OrderDTO {
	if row == nil {
		return nil
	}
	return &OrderDTO{
		ID:         row.ID,
		BuyerID:    row.BuyerID,
		ProductID:  row.ProductID,
		QuantityKg: row.QuantityKg,
		PricePerKg: row.PricePerKg,
		Total:      row.Total,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}
}
