package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/api/responses"
	"github.com/teravoo/teravoo-backend/api/validators"
	productsvc "github.com/teravoo/teravoo-backend/internal/products"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	"github.com/teravoo/teravoo-backend/pkg/logger"
)

// ProductList returns the public catalog of published lots.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		published := enums.ProductStatusPublished
		filter := productsvc.ListFilter{
			Status: &published,
			Limit:  limit,
			Offset: offset,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("grade")); raw != "" {
			grade, err := enums.ParseProductGrade(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grade"))
				return
			}
			filter.Grade = &grade
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("origin")); raw != "" {
			filter.Origin = &raw
		}

		products, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductDetail returns one lot.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name            string           `json:"name" validate:"required"`
	Description     *string          `json:"description,omitempty"`
	Origin          *string          `json:"origin,omitempty"`
	FarmerName      *string          `json:"farmer_name,omitempty"`
	Grade           string           `json:"grade" validate:"required"`
	HarvestDate     *string          `json:"harvest_date,omitempty"`
	MoistureContent *decimal.Decimal `json:"moisture_content,omitempty"`
	VanillinContent *decimal.Decimal `json:"vanillin_content,omitempty"`
	QuantityKg      decimal.Decimal  `json:"quantity_kg"`
	ImageURLRaw     *string          `json:"image_url_raw,omitempty"`
	PriceFOB        decimal.Decimal  `json:"price_fob"`
	MOQKg           *decimal.Decimal `json:"moq_kg,omitempty"`
}

// ProducerCreateProduct lists a new lot for the authenticated producer.
func ProducerCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grade, err := enums.ParseProductGrade(strings.TrimSpace(payload.Grade))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grade"))
			return
		}

		product, err := svc.CreateProduct(r.Context(), producerID, productsvc.CreateProductInput{
			Name:            payload.Name,
			Description:     payload.Description,
			Origin:          payload.Origin,
			FarmerName:      payload.FarmerName,
			Grade:           grade,
			HarvestDate:     payload.HarvestDate,
			MoistureContent: payload.MoistureContent,
			VanillinContent: payload.VanillinContent,
			QuantityKg:      payload.QuantityKg,
			ImageURLRaw:     payload.ImageURLRaw,
			PriceFOB:        payload.PriceFOB,
			MOQKg:           payload.MOQKg,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Origin          *string          `json:"origin,omitempty"`
	FarmerName      *string          `json:"farmer_name,omitempty"`
	Grade           *string          `json:"grade,omitempty"`
	HarvestDate     *string          `json:"harvest_date,omitempty"`
	MoistureContent *decimal.Decimal `json:"moisture_content,omitempty"`
	VanillinContent *decimal.Decimal `json:"vanillin_content,omitempty"`
	QuantityKg      *decimal.Decimal `json:"quantity_kg,omitempty"`
	ImageURLRaw     *string          `json:"image_url_raw,omitempty"`
	PriceFOB        *decimal.Decimal `json:"price_fob,omitempty"`
	MOQKg           *decimal.Decimal `json:"moq_kg,omitempty"`
}

// ProducerUpdateProduct mutates a lot owned by the authenticated producer.
func ProducerUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:            payload.Name,
			Description:     payload.Description,
			Origin:          payload.Origin,
			FarmerName:      payload.FarmerName,
			HarvestDate:     payload.HarvestDate,
			MoistureContent: payload.MoistureContent,
			VanillinContent: payload.VanillinContent,
			QuantityKg:      payload.QuantityKg,
			ImageURLRaw:     payload.ImageURLRaw,
			PriceFOB:        payload.PriceFOB,
			MOQKg:           payload.MOQKg,
		}
		if payload.Grade != nil {
			grade, err := enums.ParseProductGrade(strings.TrimSpace(*payload.Grade))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grade"))
				return
			}
			input.Grade = &grade
		}

		product, err := svc.UpdateProduct(r.Context(), producerID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProducerPublishProduct makes a draft lot visible in the catalog.
func ProducerPublishProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.PublishProduct(r.Context(), producerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProducerDeleteProduct removes a lot owned by the authenticated producer.
func ProducerDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), producerID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
