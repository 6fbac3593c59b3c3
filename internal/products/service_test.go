package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func TestCreateProductValidation(t *testing.T) {
	svc := &service{repo: &Repository{}}

	valid := CreateProductInput{
		Name:       "Vanilla Beans Grade A",
		Grade:      enums.ProductGradeA,
		QuantityKg: dec("500"),
		PriceFOB:   dec("250"),
	}

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"blank name", func(in *CreateProductInput) { in.Name = "   " }},
		{"unknown grade", func(in *CreateProductInput) { in.Grade = enums.ProductGrade("Z") }},
		{"zero price", func(in *CreateProductInput) { in.PriceFOB = dec("0") }},
		{"negative quantity", func(in *CreateProductInput) { in.QuantityKg = dec("-1") }},
		{"zero moq", func(in *CreateProductInput) { in.MOQKg = decPtr("0") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := svc.CreateProduct(context.Background(), uuid.New(), input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
