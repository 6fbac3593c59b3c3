package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProducerProfile is the public identity of a producing operation.
type ProducerProfile struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string              `gorm:"column:name;not null"`
	LocationRegion   *string             `gorm:"column:location_region"`
	LocationDistrict *string             `gorm:"column:location_district"`
	Bio              *string             `gorm:"column:bio"`
	PhotoURL         *string             `gorm:"column:photo_url"`
	Badges           pq.StringArray      `gorm:"column:badges;type:text[];not null;default:ARRAY[]::text[]"`
	Products         []Product           `gorm:"foreignKey:ProducerID"`
	PriceTemplates   []PriceTierTemplate `gorm:"foreignKey:ProducerID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
