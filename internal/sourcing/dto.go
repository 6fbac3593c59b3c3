package sourcing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
)

// RequestDTO is the API shape of a buyer RFQ.
type RequestDTO struct {
	ID              uuid.UUID        `json:"id"`
	BuyerID         uuid.UUID        `json:"buyer_id"`
	ProductType     string           `json:"product_type"`
	GradeTarget     *string          `json:"grade_target,omitempty"`
	VolumeTargetKg  decimal.Decimal  `json:"volume_target_kg"`
	PriceTargetUSD  *decimal.Decimal `json:"price_target_usd,omitempty"`
	RequiredCerts   []string         `json:"required_certs"`
	Status          string           `json:"status"`
	LogisticsStatus string           `json:"logistics_status"`
	OfferCount      int              `json:"offer_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

// OfferDTO is the API shape of a producer answer to a request.
type OfferDTO struct {
	ID                 uuid.UUID        `json:"id"`
	RequestID          uuid.UUID        `json:"request_id"`
	ProducerID         uuid.UUID        `json:"producer_id"`
	VolumeOfferedKg    decimal.Decimal  `json:"volume_offered_kg"`
	PriceOfferedUSD    decimal.Decimal  `json:"price_offered_usd"`
	CertProofURLs      []string         `json:"cert_proof_urls"`
	TrustScoreSnapshot *decimal.Decimal `json:"trust_score_snapshot,omitempty"`
	Status             string           `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
}

// NewRequestDTO maps a request row to its API shape.
func NewRequestDTO(request *models.SourcingRequest) *RequestDTO {
	if request == nil {
		return nil
	}
	dto := &RequestDTO{
		ID:              request.ID,
		BuyerID:         request.BuyerID,
		ProductType:     request.ProductType,
		VolumeTargetKg:  request.VolumeTargetKg,
		PriceTargetUSD:  request.PriceTargetUSD,
		RequiredCerts:   append([]string{}, request.RequiredCerts...),
		Status:          request.Status.String(),
		LogisticsStatus: request.LogisticsStatus.String(),
		OfferCount:      len(request.Offers),
		CreatedAt:       request.CreatedAt,
	}
	if request.GradeTarget != nil {
		grade := request.GradeTarget.String()
		dto.GradeTarget = &grade
	}
	return dto
}

// NewOfferDTO maps an offer row to its API shape.
func NewOfferDTO(offer *models.SourcingOffer) *OfferDTO {
	if offer == nil {
		return nil
	}
	return &OfferDTO{
		ID:                 offer.ID,
		RequestID:          offer.RequestID,
		ProducerID:         offer.ProducerID,
		VolumeOfferedKg:    offer.VolumeOfferedKg,
		PriceOfferedUSD:    offer.PriceOfferedUSD,
		CertProofURLs:      append([]string{}, offer.CertProofURLs...),
		TrustScoreSnapshot: offer.TrustScoreSnapshot,
		Status:             offer.Status.String(),
		CreatedAt:          offer.CreatedAt,
	}
}
