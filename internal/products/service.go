package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

// Service exposes catalog operations for lots.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, producerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, producerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	PublishProduct(ctx context.Context, producerID, productID uuid.UUID) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, producerID, productID uuid.UUID) error
}

// CreateProductInput holds the payload to list a new lot. Pricing starts in
// SINGLE mode; tiers and templates are attached through the pricing endpoints.
type CreateProductInput struct {
	Name            string
	Description     *string
	Origin          *string
	FarmerName      *string
	Grade           enums.ProductGrade
	HarvestDate     *string
	MoistureContent *decimal.Decimal
	VanillinContent *decimal.Decimal
	QuantityKg      decimal.Decimal
	ImageURLRaw     *string
	PriceFOB        decimal.Decimal
	MOQKg           *decimal.Decimal
}

// UpdateProductInput holds optional mutation values for a lot.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Origin          *string
	FarmerName      *string
	Grade           *enums.ProductGrade
	HarvestDate     *string
	MoistureContent *decimal.Decimal
	VanillinContent *decimal.Decimal
	QuantityKg      *decimal.Decimal
	ImageURLRaw     *string
	PriceFOB        *decimal.Decimal
	MOQKg           *decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, producerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Grade.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid grade %q", input.Grade))
	}
	if input.PriceFOB.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_fob must be positive")
	}
	if input.QuantityKg.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_kg cannot be negative")
	}

	moq := decimal.NewFromInt(1)
	if input.MOQKg != nil {
		if input.MOQKg.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "moq_kg must be positive")
		}
		moq = *input.MOQKg
	}

	product := &models.Product{
		ProducerID:      &producerID,
		Name:            name,
		Description:     input.Description,
		Origin:          input.Origin,
		FarmerName:      input.FarmerName,
		Grade:           input.Grade,
		Status:          enums.ProductStatusDraft,
		HarvestDate:     input.HarvestDate,
		MoistureContent: input.MoistureContent,
		VanillinContent: input.VanillinContent,
		QuantityKg:      input.QuantityKg,
		ImageURLRaw:     input.ImageURLRaw,
		PriceFOB:        input.PriceFOB,
		MOQKg:           moq,
		PricingMode:     enums.PricingModeSingle,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return NewProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, producerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, producerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = trimmed
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Origin != nil {
		product.Origin = input.Origin
	}
	if input.FarmerName != nil {
		product.FarmerName = input.FarmerName
	}
	if input.Grade != nil {
		if !input.Grade.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid grade %q", *input.Grade))
		}
		product.Grade = *input.Grade
	}
	if input.HarvestDate != nil {
		product.HarvestDate = input.HarvestDate
	}
	if input.MoistureContent != nil {
		product.MoistureContent = input.MoistureContent
	}
	if input.VanillinContent != nil {
		product.VanillinContent = input.VanillinContent
	}
	if input.QuantityKg != nil {
		if input.QuantityKg.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_kg cannot be negative")
		}
		product.QuantityKg = *input.QuantityKg
	}
	if input.ImageURLRaw != nil {
		product.ImageURLRaw = input.ImageURLRaw
	}
	if input.PriceFOB != nil {
		if input.PriceFOB.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_fob must be positive")
		}
		product.PriceFOB = *input.PriceFOB
	}
	if input.MOQKg != nil {
		if input.MOQKg.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "moq_kg must be positive")
		}
		product.MOQKg = *input.MOQKg
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(product), nil
}

func (s *service) PublishProduct(ctx context.Context, producerID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, producerID, productID)
	if err != nil {
		return nil, err
	}
	if product.Status == enums.ProductStatusPublished {
		return NewProductDTO(product), nil
	}

	product.Status = enums.ProductStatusPublished
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish product")
	}
	return NewProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, producerID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, producerID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) loadOwned(ctx context.Context, producerID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.ProducerID == nil || *product.ProducerID != producerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
