package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/internal/pricing"
	"github.com/teravoo/teravoo-backend/pkg/db"
	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

// Service exposes buyer order operations.
type Service interface {
	CreateOrder(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]OrderDTO, error)
}

// CreateOrderInput holds the payload to place an order.
type CreateOrderInput struct {
	ProductID  uuid.UUID
	QuantityKg decimal.Decimal
}

type priceQuoter interface {
	CalculatePrice(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*pricing.CalculatedPriceDTO, error)
}

type productLoader interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	pricing     priceQuoter
	productRepo productLoader
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client, pricingSvc priceQuoter, productRepo productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		pricing:     pricingSvc,
		productRepo: productRepo,
	}, nil
}

// CreateOrder quotes the quantity through the tier engine and freezes the
// resulting unit price and total on the order row. Stock is reserved in the
// same transaction.
func (s *service) CreateOrder(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if input.QuantityKg.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_kg must be positive")
	}

	product, err := s.productRepo.Find(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status != enums.ProductStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available for purchase")
	}

	quote, err := s.pricing.CalculatePrice(ctx, input.ProductID, input.QuantityKg)
	if err != nil {
		return nil, err
	}

	row := &models.Order{
		BuyerID:    buyerID,
		ProductID:  input.ProductID,
		QuantityKg: input.QuantityKg,
		PricePerKg: quote.PricePerKg,
		Total:      quote.Total,
		Status:     "PENDING",
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		reserved, err := txRepo.DecrementStock(ctx, input.ProductID, input.QuantityKg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserve stock")
		}
		if !reserved {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("insufficient stock for %s kg", input.QuantityKg)).
				WithDetails(map[string]any{"available_kg": product.QuantityKg})
		}
		if err := txRepo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return NewOrderDTO(row), nil
}

func (s *service) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderDTO, error) {
	row, err := s.repo.Find(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if row.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(row), nil
}

func (s *service) ListOrders(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.repo.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewOrderDTO(&rows[i]))
	}
	return out, nil
}
