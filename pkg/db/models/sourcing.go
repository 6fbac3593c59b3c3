package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/enums"
)

// SourcingRequest is a buyer RFQ for a product type and target volume.
type SourcingRequest struct {
	ID              uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID         uuid.UUID                   `gorm:"column:buyer_id;type:uuid;not null"`
	ProductType     string                      `gorm:"column:product_type;not null"`
	GradeTarget     *enums.ProductGrade         `gorm:"column:grade_target"`
	VolumeTargetKg  decimal.Decimal             `gorm:"column:volume_target_kg;type:numeric(12,2);not null"`
	PriceTargetUSD  *decimal.Decimal            `gorm:"column:price_target_usd;type:numeric(12,2)"`
	RequiredCerts   pq.StringArray              `gorm:"column:required_certs;type:text[];not null;default:ARRAY[]::text[]"`
	Status          enums.SourcingRequestStatus `gorm:"column:status;not null;default:OPEN"`
	LogisticsStatus enums.LogisticsStatus       `gorm:"column:logistics_status;not null;default:PREPARING"`
	Offers          []SourcingOffer             `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// SourcingOffer is a producer-side answer to a request.
type SourcingOffer struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID          uuid.UUID         `gorm:"column:request_id;type:uuid;not null"`
	ProducerID         uuid.UUID         `gorm:"column:producer_id;type:uuid;not null"`
	VolumeOfferedKg    decimal.Decimal   `gorm:"column:volume_offered_kg;type:numeric(12,2);not null"`
	PriceOfferedUSD    decimal.Decimal   `gorm:"column:price_offered_usd;type:numeric(12,2);not null"`
	CertProofURLs      pq.StringArray    `gorm:"column:cert_proof_urls;type:text[];not null;default:ARRAY[]::text[]"`
	TrustScoreSnapshot *decimal.Decimal  `gorm:"column:trust_score_snapshot;type:numeric(5,2)"`
	Status             enums.OfferStatus `gorm:"column:status;not null;default:PENDING"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
