package traceability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

// Service exposes the chain-of-custody operations. Events are append-only.
type Service interface {
	AppendEvent(ctx context.Context, producerID, productID uuid.UUID, input AppendEventInput) (*EventDTO, error)
	ListEvents(ctx context.Context, productID uuid.UUID) ([]EventDTO, error)
}

// AppendEventInput holds the payload for one custody record.
type AppendEventInput struct {
	EventType   enums.TraceEventType
	Description *string
	Location    *string
	RecordedBy  *string
	OccurredAt  time.Time
}

type productLoader interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo        *Repository
	productRepo productLoader
}

// NewService constructs a traceability service instance.
func NewService(repo *Repository, productRepo productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("traceability repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, productRepo: productRepo}, nil
}

func (s *service) AppendEvent(ctx context.Context, producerID, productID uuid.UUID, input AppendEventInput) (*EventDTO, error) {
	if !input.EventType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid event type %q", input.EventType))
	}
	if input.OccurredAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "occurred_at is required")
	}
	if input.OccurredAt.After(time.Now().Add(time.Hour)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "occurred_at cannot be in the future")
	}

	product, err := s.productRepo.Find(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.ProducerID == nil || *product.ProducerID != producerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	event := &models.TraceabilityEvent{
		ProductID:   productID,
		EventType:   input.EventType,
		Description: input.Description,
		Location:    input.Location,
		RecordedBy:  input.RecordedBy,
		OccurredAt:  input.OccurredAt,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append event")
	}
	return NewEventDTO(event), nil
}

func (s *service) ListEvents(ctx context.Context, productID uuid.UUID) ([]EventDTO, error) {
	if _, err := s.productRepo.Find(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	events, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	out := make([]EventDTO, 0, len(events))
	for i := range events {
		out = append(out, *NewEventDTO(&events[i]))
	}
	return out, nil
}
