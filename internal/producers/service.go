package producer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

// Service exposes producer profile operations.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]ProfileDTO, error)
	CreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
}

// CreateProfileInput holds the payload to register a producer.
type CreateProfileInput struct {
	Name             string
	LocationRegion   *string
	LocationDistrict *string
	Bio              *string
	PhotoURL         *string
	Badges           []string
}

// UpdateProfileInput holds optional mutation values for a profile.
type UpdateProfileInput struct {
	Name             *string
	LocationRegion   *string
	LocationDistrict *string
	Bio              *string
	PhotoURL         *string
	Badges           *[]string
}

type service struct {
	repo *Repository
}

// NewService constructs a producer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("producer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producer")
	}
	return NewProfileDTO(profile), nil
}

func (s *service) ListProfiles(ctx context.Context, limit, offset int) ([]ProfileDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	profiles, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list producers")
	}
	out := make([]ProfileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, *NewProfileDTO(&profiles[i]))
	}
	return out, nil
}

func (s *service) CreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "producer name is required")
	}

	profile := &models.ProducerProfile{
		Name:             name,
		LocationRegion:   input.LocationRegion,
		LocationDistrict: input.LocationDistrict,
		Bio:              input.Bio,
		PhotoURL:         input.PhotoURL,
		Badges:           input.Badges,
	}
	if profile.Badges == nil {
		profile.Badges = []string{}
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create producer")
	}
	return NewProfileDTO(profile), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producer")
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "producer name cannot be empty")
		}
		profile.Name = trimmed
	}
	if input.LocationRegion != nil {
		profile.LocationRegion = input.LocationRegion
	}
	if input.LocationDistrict != nil {
		profile.LocationDistrict = input.LocationDistrict
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.PhotoURL != nil {
		profile.PhotoURL = input.PhotoURL
	}
	if input.Badges != nil {
		profile.Badges = *input.Badges
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update producer")
	}

	updated, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload producer")
	}
	return NewProfileDTO(updated), nil
}
