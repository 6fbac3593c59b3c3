package sourcing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
)

// Repository wraps the sourcing request and offer queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindRequestByID loads a request with its offers.
func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.SourcingRequest, error) {
	var request models.SourcingRequest
	err := r.db.WithContext(ctx).
		Preload("Offers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListOpenRequests returns open RFQs for producers to browse, newest first.
func (r *Repository) ListOpenRequests(ctx context.Context, limit, offset int) ([]models.SourcingRequest, error) {
	var requests []models.SourcingRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.SourcingRequestStatusOpen).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}

// ListBuyerRequests returns a buyer's own RFQs, newest first.
func (r *Repository) ListBuyerRequests(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.SourcingRequest, error) {
	var requests []models.SourcingRequest
	err := r.db.WithContext(ctx).
		Preload("Offers").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}

func (r *Repository) CreateRequest(ctx context.Context, request *models.SourcingRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *Repository) UpdateRequest(ctx context.Context, request *models.SourcingRequest) error {
	return r.db.WithContext(ctx).
		Model(&models.SourcingRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]any{
			"status":           request.Status,
			"logistics_status": request.LogisticsStatus,
		}).Error
}

func (r *Repository) FindOffer(ctx context.Context, id uuid.UUID) (*models.SourcingOffer, error) {
	var offer models.SourcingOffer
	err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *Repository) CreateOffer(ctx context.Context, offer *models.SourcingOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *Repository) UpdateOfferStatus(ctx context.Context, offerID uuid.UUID, status enums.OfferStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SourcingOffer{}).
		Where("id = ?", offerID).
		Update("status", status).Error
}

// CountProducerOffers reports how many offers a producer already filed on a request.
func (r *Repository) CountProducerOffers(ctx context.Context, requestID, producerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SourcingOffer{}).
		Where("request_id = ? AND producer_id = ? AND status <> ?", requestID, producerID, enums.OfferStatusRejected).
		Count(&count).Error
	return count, err
}
