package enums

import "fmt"

// SourcingRequestStatus represents the lifecycle of a buyer RFQ.
type SourcingRequestStatus string

const (
	SourcingRequestStatusOpen   SourcingRequestStatus = "OPEN"
	SourcingRequestStatusClosed SourcingRequestStatus = "CLOSED"
)

var validSourcingRequestStatuses = []SourcingRequestStatus{
	SourcingRequestStatusOpen,
	SourcingRequestStatusClosed,
}

// String implements fmt.Stringer.
func (s SourcingRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SourcingRequestStatus.
func (s SourcingRequestStatus) IsValid() bool {
	for _, candidate := range validSourcingRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// LogisticsStatus tracks post-acceptance supply chain progress on a request.
type LogisticsStatus string

const (
	LogisticsStatusPreparing LogisticsStatus = "PREPARING"
	LogisticsStatusTransit   LogisticsStatus = "TRANSIT"
	LogisticsStatusCustoms   LogisticsStatus = "CUSTOMS"
	LogisticsStatusDelivered LogisticsStatus = "DELIVERED"
)

var validLogisticsStatuses = []LogisticsStatus{
	LogisticsStatusPreparing,
	LogisticsStatusTransit,
	LogisticsStatusCustoms,
	LogisticsStatusDelivered,
}

// String implements fmt.Stringer.
func (s LogisticsStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LogisticsStatus.
func (s LogisticsStatus) IsValid() bool {
	for _, candidate := range validLogisticsStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLogisticsStatus converts raw input into a LogisticsStatus.
func ParseLogisticsStatus(value string) (LogisticsStatus, error) {
	for _, candidate := range validLogisticsStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid logistics status %q", value)
}

// OfferStatus represents the negotiation state of a sourcing offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
	OfferStatusCounter  OfferStatus = "COUNTER"
)

var validOfferStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusAccepted,
	OfferStatusRejected,
	OfferStatusCounter,
}

// String implements fmt.Stringer.
func (s OfferStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OfferStatus.
func (s OfferStatus) IsValid() bool {
	for _, candidate := range validOfferStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOfferStatus converts raw input into an OfferStatus.
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, candidate := range validOfferStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer status %q", value)
}
