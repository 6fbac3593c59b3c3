package producer

import (
	"time"

	"github.com/google/uuid"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// ProfileDTO is the public shape of a producer profile.
type ProfileDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	LocationRegion   *string   `json:"location_region,omitempty"`
	LocationDistrict *string   `json:"location_district,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	PhotoURL         *string   `json:"photo_url,omitempty"`
	Badges           []string  `json:"badges"`
	ProductCount     int       `json:"product_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewProfileDTO maps a profile row to its API shape.
func NewProfileDTO(profile *models.ProducerProfile) *ProfileDTO {
	if profile == nil {
		return nil
	}
	badges := make([]string, 0, len(profile.Badges))
	badges = append(badges, profile.Badges...)
	return &ProfileDTO{
		ID:               profile.ID,
		Name:             profile.Name,
		LocationRegion:   profile.LocationRegion,
		LocationDistrict: profile.LocationDistrict,
		Bio:              profile.Bio,
		PhotoURL:         profile.PhotoURL,
		Badges:           badges,
		ProductCount:     len(profile.Products),
		CreatedAt:        profile.CreatedAt,
	}
}
