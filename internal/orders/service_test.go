package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/internal/pricing"
	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type fakeQuoter struct {
	quote *pricing.CalculatedPriceDTO
	err   error
}

func (f *fakeQuoter) CalculatePrice(_ context.Context, _ uuid.UUID, _ decimal.Decimal) (*pricing.CalculatedPriceDTO, error) {
	return f.quote, f.err
}

type fakeProductLoader struct {
	product *models.Product
	err     error
}

func (f *fakeProductLoader) Find(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	return f.product, f.err
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	svc := &service{repo: &Repository{}, pricing: &fakeQuoter{}, productRepo: &fakeProductLoader{}}

	for _, qty := range []string{"0", "-3"} {
		_, err := svc.CreateOrder(context.Background(), uuid.New(), CreateOrderInput{
			ProductID:  uuid.New(),
			QuantityKg: dec(qty),
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("quantity %s: expected validation error, got %v", qty, err)
		}
	}
}

func TestCreateOrderMissingProduct(t *testing.T) {
	svc := &service{
		repo:        &Repository{},
		pricing:     &fakeQuoter{},
		productRepo: &fakeProductLoader{err: gorm.ErrRecordNotFound},
	}

	_, err := svc.CreateOrder(context.Background(), uuid.New(), CreateOrderInput{
		ProductID:  uuid.New(),
		QuantityKg: dec("10"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOrderRejectsUnpublishedProduct(t *testing.T) {
	svc := &service{
		repo:    &Repository{},
		pricing: &fakeQuoter{},
		productRepo: &fakeProductLoader{product: &models.Product{
			Status: enums.ProductStatusDraft,
		}},
	}

	_, err := svc.CreateOrder(context.Background(), uuid.New(), CreateOrderInput{
		ProductID:  uuid.New(),
		QuantityKg: dec("10"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCreateOrderPropagatesQuoteErrors(t *testing.T) {
	quoteErr := pkgerrors.New(pkgerrors.CodeBelowMinimumOrder, "quantity is below the minimum order")
	svc := &service{
		repo:    &Repository{},
		pricing: &fakeQuoter{err: quoteErr},
		productRepo: &fakeProductLoader{product: &models.Product{
			Status: enums.ProductStatusPublished,
		}},
	}

	_, err := svc.CreateOrder(context.Background(), uuid.New(), CreateOrderInput{
		ProductID:  uuid.New(),
		QuantityKg: dec("2"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBelowMinimumOrder {
		t.Fatalf("expected below minimum order error, got %v", err)
	}
}
