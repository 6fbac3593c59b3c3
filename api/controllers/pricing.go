package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/api/middleware"
	"github.com/teravoo/teravoo-backend/api/responses"
	"github.com/teravoo/teravoo-backend/api/validators"
	pricingsvc "github.com/teravoo/teravoo-backend/internal/pricing"
	productsvc "github.com/teravoo/teravoo-backend/internal/products"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	"github.com/teravoo/teravoo-backend/pkg/logger"
)

// EffectiveTiers returns the resolved tier schedule for a lot.
func EffectiveTiers(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tiers, err := svc.GetEffectiveTiers(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tiers)
	}
}

// CalculatePrice quotes a quantity against the lot's tier schedule.
func CalculatePrice(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := queryDecimal(r, "quantity_kg")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if quantity.LessThanOrEqual(decimal.Zero) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "quantity_kg must be positive"))
			return
		}

		quote, err := svc.CalculatePrice(r.Context(), productID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// PriceHistory returns the newest pricing snapshots for a lot.
func PriceHistory(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.GetPriceHistory(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// ComparePrice compares the current base price against a historical snapshot.
func ComparePrice(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		asOf, err := validators.ParseQueryDate(r, "as_of_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comparison, err := svc.ComparePrice(r.Context(), productID, asOf)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, comparison)
	}
}

type tierRequest struct {
	MinQuantityKg decimal.Decimal  `json:"min_quantity_kg"`
	MaxQuantityKg *decimal.Decimal `json:"max_quantity_kg,omitempty"`
	PricePerKg    decimal.Decimal  `json:"price_per_kg"`
}

type setTiersRequest struct {
	Tiers  []tierRequest `json:"tiers" validate:"required,min=1,max=5"`
	Reason *string       `json:"reason,omitempty"`
}

// ProducerSetTiers replaces a lot's custom tiers and switches it to TIERED mode.
func ProducerSetTiers(svc pricingsvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, actor, err := ownedProduct(r, products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tiers := make([]pricingsvc.TierInput, 0, len(payload.Tiers))
		for _, tier := range payload.Tiers {
			tiers = append(tiers, pricingsvc.TierInput{
				MinQuantityKg: tier.MinQuantityKg,
				MaxQuantityKg: tier.MaxQuantityKg,
				PricePerKg:    tier.PricePerKg,
			})
		}

		result, err := svc.SetCustomTiers(r.Context(), productID, actor, pricingsvc.SetCustomTiersInput{
			Tiers:  tiers,
			Reason: payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProducerDeleteTiers clears the custom tiers and reverts the lot to SINGLE mode.
func ProducerDeleteTiers(svc pricingsvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, actor, err := ownedProduct(r, products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DeleteCustomTiers(r.Context(), productID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type setPricingModeRequest struct {
	Mode       string  `json:"mode" validate:"required"`
	TemplateID *string `json:"template_id,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

// ProducerSetPricingMode switches the pricing strategy of a lot.
func ProducerSetPricingMode(svc pricingsvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, actor, err := ownedProduct(r, products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setPricingModeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParsePricingMode(strings.TrimSpace(payload.Mode))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing mode"))
			return
		}

		input := pricingsvc.SetPricingModeInput{Mode: mode, Reason: payload.Reason}
		if payload.TemplateID != nil {
			templateID, err := uuid.Parse(strings.TrimSpace(*payload.TemplateID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid template id"))
				return
			}
			input.TemplateID = &templateID
		}

		result, err := svc.SetPricingMode(r.Context(), productID, actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type templateTierRequest struct {
	MinQuantityKg   decimal.Decimal  `json:"min_quantity_kg"`
	MaxQuantityKg   *decimal.Decimal `json:"max_quantity_kg,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

type createTemplateRequest struct {
	Name        string                `json:"name" validate:"required"`
	Description *string               `json:"description,omitempty"`
	IsDefault   bool                  `json:"is_default"`
	Tiers       []templateTierRequest `json:"tiers" validate:"required,min=1,max=5"`
}

// ProducerCreateTemplate creates a reusable discount template.
func ProducerCreateTemplate(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createTemplateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		template, err := svc.CreateTemplate(r.Context(), producerID, pricingsvc.CreateTemplateInput{
			Name:        payload.Name,
			Description: payload.Description,
			IsDefault:   payload.IsDefault,
			Tiers:       toTemplateTierInputs(payload.Tiers),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, template)
	}
}

// ProducerListTemplates returns the producer's templates, default first.
func ProducerListTemplates(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		templates, err := svc.ListTemplates(r.Context(), producerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, templates)
	}
}

type updateTemplateRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	IsDefault   *bool                  `json:"is_default,omitempty"`
	Tiers       *[]templateTierRequest `json:"tiers,omitempty" validate:"omitempty,min=1,max=5"`
}

// ProducerUpdateTemplate mutates a template, snapshotting every linked lot.
func ProducerUpdateTemplate(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		templateID, err := pathUUID(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTemplateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := pricingsvc.UpdateTemplateInput{
			Name:        payload.Name,
			Description: payload.Description,
			IsDefault:   payload.IsDefault,
		}
		if payload.Tiers != nil {
			tiers := toTemplateTierInputs(*payload.Tiers)
			input.Tiers = &tiers
		}

		actor := middleware.UserIDFromContext(r.Context())
		template, err := svc.UpdateTemplate(r.Context(), producerID, templateID, actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

// ProducerDeleteTemplate removes an unused template.
func ProducerDeleteTemplate(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		templateID, err := pathUUID(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTemplate(r.Context(), producerID, templateID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type priceSuggestionRequest struct {
	ReferencePrice *decimal.Decimal `json:"reference_price,omitempty"`
}

// ProducerSuggestPrice quotes an RFQ volume from the producer's own pricing.
func ProducerSuggestPrice(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		producerID, err := producerUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload priceSuggestionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		suggestion, err := svc.SuggestPriceForSourcingRequest(r.Context(), requestID, producerID, payload.ReferencePrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestion)
	}
}

// ownedProduct resolves the product path param and verifies it belongs to the
// authenticated producer. The returned actor is the user id for snapshots.
func ownedProduct(r *http.Request, products productsvc.Service) (uuid.UUID, string, error) {
	producerID, err := producerUUIDFromContext(r)
	if err != nil {
		return uuid.Nil, "", err
	}
	productID, err := pathUUID(r, "productId")
	if err != nil {
		return uuid.Nil, "", err
	}

	product, err := products.GetProduct(r.Context(), productID)
	if err != nil {
		return uuid.Nil, "", err
	}
	if product.ProducerID == nil || *product.ProducerID != producerID {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	return productID, middleware.UserIDFromContext(r.Context()), nil
}

func toTemplateTierInputs(tiers []templateTierRequest) []pricingsvc.TemplateTierInput {
	out := make([]pricingsvc.TemplateTierInput, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, pricingsvc.TemplateTierInput{
			MinQuantityKg:   tier.MinQuantityKg,
			MaxQuantityKg:   tier.MaxQuantityKg,
			DiscountPercent: tier.DiscountPercent,
		})
	}
	return out
}
