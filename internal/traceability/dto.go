package traceability

import (
	"time"

	"github.com/google/uuid"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// EventDTO is the API shape of a chain-of-custody record.
type EventDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	EventType   string    `json:"event_type"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	RecordedBy  *string   `json:"recorded_by,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEventDTO maps an event row to its API shape.
func NewEventDTO(event *models.TraceabilityEvent) *EventDTO {
	if event == nil {
		return nil
	}
	return &EventDTO{
		ID:          event.ID,
		ProductID:   event.ProductID,
		EventType:   event.EventType.String(),
		Description: event.Description,
		Location:    event.Location,
		RecordedBy:  event.RecordedBy,
		OccurredAt:  event.OccurredAt,
		CreatedAt:   event.CreatedAt,
	}
}
