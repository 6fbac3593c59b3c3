package controllers

import (
	"net/http"

	"github.com/teravoo/teravoo-backend/api/responses"
	"github.com/teravoo/teravoo-backend/api/validators"
	producersvc "github.com/teravoo/teravoo-backend/internal/producers"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	"github.com/teravoo/teravoo-backend/pkg/logger"
)

// ProducerList returns the producer directory.
func ProducerList(svc producersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profiles, err := svc.ListProfiles(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profiles)
	}
}

// ProducerDetail returns one producer profile with its published product count.
func ProducerDetail(svc producersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "producerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// ProducerMyProfile returns the authenticated producer's own profile.
func ProducerMyProfile(svc producersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), producerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type updateProfileRequest struct {
	Name             *string   `json:"name,omitempty"`
	LocationRegion   *string   `json:"location_region,omitempty"`
	LocationDistrict *string   `json:"location_district,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	PhotoURL         *string   `json:"photo_url,omitempty"`
	Badges           *[]string `json:"badges,omitempty"`
}

// ProducerUpdateProfile mutates the authenticated producer's own profile.
func ProducerUpdateProfile(svc producersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), producerID, producersvc.UpdateProfileInput{
			Name:             payload.Name,
			LocationRegion:   payload.LocationRegion,
			LocationDistrict: payload.LocationDistrict,
			Bio:              payload.Bio,
			PhotoURL:         payload.PhotoURL,
			Badges:           payload.Badges,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type createProfileRequest struct {
	Name             string   `json:"name" validate:"required"`
	LocationRegion   *string  `json:"location_region,omitempty"`
	LocationDistrict *string  `json:"location_district,omitempty"`
	Bio              *string  `json:"bio,omitempty"`
	PhotoURL         *string  `json:"photo_url,omitempty"`
	Badges           []string `json:"badges,omitempty"`
}

// AdminCreateProducer registers a producer profile. Onboarding is manual
// while the supply side stays curated.
func AdminCreateProducer(svc producersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "producer service unavailable"))
			return
		}

		var payload createProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.CreateProfile(r.Context(), producersvc.CreateProfileInput{
			Name:             payload.Name,
			LocationRegion:   payload.LocationRegion,
			LocationDistrict: payload.LocationDistrict,
			Bio:              payload.Bio,
			PhotoURL:         payload.PhotoURL,
			Badges:           payload.Badges,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}
