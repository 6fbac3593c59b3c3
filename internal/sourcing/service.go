package sourcing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db"
	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

// Service exposes the RFQ and offer operations.
type Service interface {
	CreateRequest(ctx context.Context, buyerID uuid.UUID, input CreateRequestInput) (*RequestDTO, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*RequestDTO, error)
	ListOpenRequests(ctx context.Context, limit, offset int) ([]RequestDTO, error)
	ListBuyerRequests(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]RequestDTO, error)
	CloseRequest(ctx context.Context, buyerID, requestID uuid.UUID) (*RequestDTO, error)
	UpdateLogisticsStatus(ctx context.Context, buyerID, requestID uuid.UUID, status enums.LogisticsStatus) (*RequestDTO, error)
	SubmitOffer(ctx context.Context, producerID, requestID uuid.UUID, input SubmitOfferInput) (*OfferDTO, error)
	ListOffers(ctx context.Context, buyerID, requestID uuid.UUID) ([]OfferDTO, error)
	DecideOffer(ctx context.Context, buyerID, requestID, offerID uuid.UUID, accept bool) (*OfferDTO, error)
}

// CreateRequestInput holds the payload to open an RFQ.
type CreateRequestInput struct {
	ProductType    string
	GradeTarget    *enums.ProductGrade
	VolumeTargetKg decimal.Decimal
	PriceTargetUSD *decimal.Decimal
	RequiredCerts  []string
}

// SubmitOfferInput holds the payload for a producer answer.
type SubmitOfferInput struct {
	VolumeOfferedKg    decimal.Decimal
	PriceOfferedUSD    decimal.Decimal
	CertProofURLs      []string
	TrustScoreSnapshot *decimal.Decimal
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a sourcing service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sourcing repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) CreateRequest(ctx context.Context, buyerID uuid.UUID, input CreateRequestInput) (*RequestDTO, error) {
	productType := strings.TrimSpace(input.ProductType)
	if productType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_type is required")
	}
	if input.VolumeTargetKg.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volume_target_kg must be positive")
	}
	if input.GradeTarget != nil && !input.GradeTarget.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid grade %q", *input.GradeTarget))
	}
	if input.PriceTargetUSD != nil && input.PriceTargetUSD.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_target_usd must be positive")
	}

	request := &models.SourcingRequest{
		BuyerID:         buyerID,
		ProductType:     productType,
		GradeTarget:     input.GradeTarget,
		VolumeTargetKg:  input.VolumeTargetKg,
		PriceTargetUSD:  input.PriceTargetUSD,
		RequiredCerts:   input.RequiredCerts,
		Status:          enums.SourcingRequestStatusOpen,
		LogisticsStatus: enums.LogisticsStatusPreparing,
	}
	if request.RequiredCerts == nil {
		request.RequiredCerts = []string{}
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sourcing request")
	}
	return NewRequestDTO(request), nil
}

func (s *service) GetRequest(ctx context.Context, id uuid.UUID) (*RequestDTO, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewRequestDTO(request), nil
}

func (s *service) ListOpenRequests(ctx context.Context, limit, offset int) ([]RequestDTO, error) {
	limit, offset = clampPage(limit, offset)
	requests, err := s.repo.ListOpenRequests(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open requests")
	}
	return toRequestDTOs(requests), nil
}

func (s *service) ListBuyerRequests(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]RequestDTO, error) {
	limit, offset = clampPage(limit, offset)
	requests, err := s.repo.ListBuyerRequests(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer requests")
	}
	return toRequestDTOs(requests), nil
}

func (s *service) CloseRequest(ctx context.Context, buyerID, requestID uuid.UUID) (*RequestDTO, error) {
	request, err := s.loadOwnedRequest(ctx, buyerID, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status == enums.SourcingRequestStatusClosed {
		return NewRequestDTO(request), nil
	}

	request.Status = enums.SourcingRequestStatusClosed
	if err := s.repo.UpdateRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close request")
	}
	return NewRequestDTO(request), nil
}

// UpdateLogisticsStatus advances the supply chain stage. Stages only move
// forward; a delivered request is terminal.
func (s *service) UpdateLogisticsStatus(ctx context.Context, buyerID, requestID uuid.UUID, status enums.LogisticsStatus) (*RequestDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid logistics status %q", status))
	}

	request, err := s.loadOwnedRequest(ctx, buyerID, requestID)
	if err != nil {
		return nil, err
	}

	if logisticsRank(status) < logisticsRank(request.LogisticsStatus) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move logistics from %s back to %s", request.LogisticsStatus, status))
	}

	request.LogisticsStatus = status
	if err := s.repo.UpdateRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update logistics status")
	}
	return NewRequestDTO(request), nil
}

func (s *service) SubmitOffer(ctx context.Context, producerID, requestID uuid.UUID, input SubmitOfferInput) (*OfferDTO, error) {
	if input.VolumeOfferedKg.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volume_offered_kg must be positive")
	}
	if input.PriceOfferedUSD.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_offered_usd must be positive")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.SourcingRequestStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is no longer open for offers")
	}

	existing, err := s.repo.CountProducerOffers(ctx, requestID, producerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count producer offers")
	}
	if existing > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "producer already has an active offer on this request")
	}

	offer := &models.SourcingOffer{
		RequestID:          requestID,
		ProducerID:         producerID,
		VolumeOfferedKg:    input.VolumeOfferedKg,
		PriceOfferedUSD:    input.PriceOfferedUSD,
		CertProofURLs:      input.CertProofURLs,
		TrustScoreSnapshot: input.TrustScoreSnapshot,
		Status:             enums.OfferStatusPending,
	}
	if offer.CertProofURLs == nil {
		offer.CertProofURLs = []string{}
	}
	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		// concurrent resubmission lands on the unique index, not the count above
		if db.IsUniqueViolation(err, "idx_sourcing_offers_request_producer") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "producer already has an active offer on this request")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
	}
	return NewOfferDTO(offer), nil
}

func (s *service) ListOffers(ctx context.Context, buyerID, requestID uuid.UUID) ([]OfferDTO, error) {
	request, err := s.loadOwnedRequest(ctx, buyerID, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]OfferDTO, 0, len(request.Offers))
	for i := range request.Offers {
		out = append(out, *NewOfferDTO(&request.Offers[i]))
	}
	return out, nil
}

// DecideOffer records the buyer's accept/reject decision. Accepting closes the
// request to further offers in the same transaction.
func (s *service) DecideOffer(ctx context.Context, buyerID, requestID, offerID uuid.UUID, accept bool) (*OfferDTO, error) {
	request, err := s.loadOwnedRequest(ctx, buyerID, requestID)
	if err != nil {
		return nil, err
	}

	offer, err := s.repo.FindOffer(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if offer.RequestID != requestID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	if offer.Status != enums.OfferStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("offer is already %s", offer.Status))
	}

	status := enums.OfferStatusRejected
	if accept {
		status = enums.OfferStatusAccepted
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateOfferStatus(ctx, offerID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update offer status")
		}
		if accept {
			request.Status = enums.SourcingRequestStatusClosed
			if err := txRepo.UpdateRequest(ctx, request); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: close request")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decide offer")
	}

	offer.Status = status
	return NewOfferDTO(offer), nil
}

func (s *service) loadRequest(ctx context.Context, id uuid.UUID) (*models.SourcingRequest, error) {
	request, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sourcing request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sourcing request")
	}
	return request, nil
}

func (s *service) loadOwnedRequest(ctx context.Context, buyerID, id uuid.UUID) (*models.SourcingRequest, error) {
	request, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sourcing request not found")
	}
	return request, nil
}

func toRequestDTOs(requests []models.SourcingRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(requests))
	for i := range requests {
		out = append(out, *NewRequestDTO(&requests[i]))
	}
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func logisticsRank(status enums.LogisticsStatus) int {
	switch status {
	case enums.LogisticsStatusPreparing:
		return 0
	case enums.LogisticsStatusTransit:
		return 1
	case enums.LogisticsStatusCustoms:
		return 2
	case enums.LogisticsStatusDelivered:
		return 3
	}
	return -1
}
