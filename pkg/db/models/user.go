package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/teravoo/teravoo-backend/pkg/enums"
)

// User is a marketplace account authenticated through the mock OTP flow.
type User struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone      string         `gorm:"column:phone;not null;uniqueIndex"`
	FullName   *string        `gorm:"column:full_name"`
	Role       enums.UserRole `gorm:"column:role;not null;default:buyer"`
	ProducerID *uuid.UUID     `gorm:"column:producer_id;type:uuid"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
