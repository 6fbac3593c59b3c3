package sourcing

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

func TestCreateRequestValidation(t *testing.T) {
	svc := &service{repo: &Repository{}}
	badGrade := enums.ProductGrade("Z")

	cases := []struct {
		name  string
		input CreateRequestInput
	}{
		{"empty product type", CreateRequestInput{ProductType: "  ", VolumeTargetKg: dec("100")}},
		{"zero volume", CreateRequestInput{ProductType: "vanilla beans", VolumeTargetKg: dec("0")}},
		{"negative volume", CreateRequestInput{ProductType: "vanilla beans", VolumeTargetKg: dec("-5")}},
		{"invalid grade", CreateRequestInput{ProductType: "vanilla beans", VolumeTargetKg: dec("100"), GradeTarget: &badGrade}},
		{"zero price target", CreateRequestInput{ProductType: "vanilla beans", VolumeTargetKg: dec("100"), PriceTargetUSD: decPtr("0")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(context.Background(), uuid.New(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitOfferValidation(t *testing.T) {
	svc := &service{repo: &Repository{}}

	cases := []struct {
		name  string
		input SubmitOfferInput
	}{
		{"zero volume", SubmitOfferInput{VolumeOfferedKg: dec("0"), PriceOfferedUSD: dec("200")}},
		{"zero price", SubmitOfferInput{VolumeOfferedKg: dec("100"), PriceOfferedUSD: dec("0")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitOffer(context.Background(), uuid.New(), uuid.New(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateLogisticsStatusRejectsUnknownStage(t *testing.T) {
	svc := &service{repo: &Repository{}}

	_, err := svc.UpdateLogisticsStatus(context.Background(), uuid.New(), uuid.New(), enums.LogisticsStatus("TELEPORTED"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogisticsRankOrdersStages(t *testing.T) {
	stages := []enums.LogisticsStatus{
		enums.LogisticsStatusPreparing,
		enums.LogisticsStatusTransit,
		enums.LogisticsStatusCustoms,
		enums.LogisticsStatusDelivered,
	}
	for i := 1; i < len(stages); i++ {
		if logisticsRank(stages[i]) <= logisticsRank(stages[i-1]) {
			t.Fatalf("expected %s to rank above %s", stages[i], stages[i-1])
		}
	}
	if logisticsRank(enums.LogisticsStatus("BOGUS")) != -1 {
		t.Fatal("expected unknown stage to rank -1")
	}
}

func TestClampPageDefaults(t *testing.T) {
	limit, offset := clampPage(0, -5)
	if limit != 20 || offset != 0 {
		t.Fatalf("expected defaults 20/0, got %d/%d", limit, offset)
	}
	limit, offset = clampPage(500, 40)
	if limit != 20 || offset != 40 {
		t.Fatalf("expected oversize limit clamped to 20, got %d/%d", limit, offset)
	}
}
