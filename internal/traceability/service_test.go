package traceability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

type fakeProductLoader struct {
	product *models.Product
	err     error
}

func (f *fakeProductLoader) Find(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	return f.product, f.err
}

func TestAppendEventValidation(t *testing.T) {
	svc := &service{repo: &Repository{}, productRepo: &fakeProductLoader{}}

	cases := []struct {
		name  string
		input AppendEventInput
	}{
		{"unknown event type", AppendEventInput{EventType: enums.TraceEventType("TELEPORT"), OccurredAt: time.Now()}},
		{"zero occurred_at", AppendEventInput{EventType: enums.TraceEventTypeHarvest}},
		{"future occurred_at", AppendEventInput{EventType: enums.TraceEventTypeHarvest, OccurredAt: time.Now().Add(48 * time.Hour)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AppendEvent(context.Background(), uuid.New(), uuid.New(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAppendEventHidesForeignProducts(t *testing.T) {
	owner := uuid.New()
	svc := &service{
		repo:        &Repository{},
		productRepo: &fakeProductLoader{product: &models.Product{ProducerID: &owner}},
	}

	_, err := svc.AppendEvent(context.Background(), uuid.New(), uuid.New(), AppendEventInput{
		EventType:  enums.TraceEventTypeCuring,
		OccurredAt: time.Now(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign product, got %v", err)
	}
}
