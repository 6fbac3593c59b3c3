package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/teravoo/teravoo-backend/pkg/enums"
)

// TraceabilityEvent is an append-only chain-of-custody record for a lot.
type TraceabilityEvent struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index"`
	EventType   enums.TraceEventType `gorm:"column:event_type;not null"`
	Description *string              `gorm:"column:description"`
	Location    *string              `gorm:"column:location"`
	RecordedBy  *string              `gorm:"column:recorded_by"`
	OccurredAt  time.Time            `gorm:"column:occurred_at;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
