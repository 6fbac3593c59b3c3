package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/api/responses"
	"github.com/teravoo/teravoo-backend/api/validators"
	sourcingsvc "github.com/teravoo/teravoo-backend/internal/sourcing"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	"github.com/teravoo/teravoo-backend/pkg/logger"
)

type createSourcingRequestRequest struct {
	ProductType    string           `json:"product_type" validate:"required"`
	GradeTarget    *string          `json:"grade_target,omitempty"`
	VolumeTargetKg decimal.Decimal  `json:"volume_target_kg"`
	PriceTargetUSD *decimal.Decimal `json:"price_target_usd,omitempty"`
	RequiredCerts  []string         `json:"required_certs,omitempty"`
}

// SourcingCreateRequest opens a new RFQ for the authenticated buyer.
func SourcingCreateRequest(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := userUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createSourcingRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sourcingsvc.CreateRequestInput{
			ProductType:    payload.ProductType,
			VolumeTargetKg: payload.VolumeTargetKg,
			PriceTargetUSD: payload.PriceTargetUSD,
			RequiredCerts:  payload.RequiredCerts,
		}
		if payload.GradeTarget != nil {
			grade, err := enums.ParseProductGrade(strings.TrimSpace(*payload.GradeTarget))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid grade"))
				return
			}
			input.GradeTarget = &grade
		}

		request, err := svc.CreateRequest(r.Context(), buyerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// SourcingListOpen returns the open RFQ board visible to producers.
func SourcingListOpen(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		requests, err := svc.ListOpenRequests(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}

// SourcingListMine returns the authenticated buyer's own RFQs.
func SourcingListMine(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := userUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
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

		requests, err := svc.ListBuyerRequests(r.Context(), buyerID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}

// SourcingGetRequest returns one RFQ with its offers.
func SourcingGetRequest(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.GetRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// SourcingCloseRequest closes an RFQ to further offers.
func SourcingCloseRequest(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := userUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.CloseRequest(r.Context(), buyerID, requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type updateLogisticsRequest struct {
	Status string `json:"status" validate:"required"`
}

// SourcingUpdateLogistics advances the supply chain stage of an RFQ.
func SourcingUpdateLogistics(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := userUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateLogisticsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseLogisticsStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid logistics status"))
			return
		}

		request, err := svc.UpdateLogisticsStatus(r.Context(), buyerID, requestID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

type submitOfferRequest struct {
	VolumeOfferedKg    decimal.Decimal  `json:"volume_offered_kg"`
	PriceOfferedUSD    decimal.Decimal  `json:"price_offered_usd"`
	CertProofURLs      []string         `json:"cert_proof_urls,omitempty"`
	TrustScoreSnapshot *decimal.Decimal `json:"trust_score_snapshot,omitempty"`
}

// ProducerSubmitOffer answers an open RFQ on behalf of the producer.
func ProducerSubmitOffer(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload submitOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.SubmitOffer(r.Context(), producerID, requestID, sourcingsvc.SubmitOfferInput{
			VolumeOfferedKg:    payload.VolumeOfferedKg,
			PriceOfferedUSD:    payload.PriceOfferedUSD,
			CertProofURLs:      payload.CertProofURLs,
			TrustScoreSnapshot: payload.TrustScoreSnapshot,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// SourcingListOffers returns the offers on the buyer's own RFQ.
func SourcingListOffers(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := userUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offers, err := svc.ListOffers(r.Context(), buyerID, requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offers)
	}
}

type decideOfferRequest struct {
	Accept bool `json:"accept"`
}

// SourcingDecideOffer records the buyer's accept or reject decision.
func SourcingDecideOffer(svc sourcingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := userUUIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requestID, err := pathUUID(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offerID, err := pathUUID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload decideOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.DecideOffer(r.Context(), buyerID, requestID, offerID, payload.Accept)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}
