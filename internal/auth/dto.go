package auth

import (
	"time"

	"github.com/google/uuid"
)

// CodeRequestDTO acknowledges a login-code request. DevCode is only populated
// outside production while SMS delivery is mocked.
type CodeRequestDTO struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
	DevCode   *string   `json:"dev_code,omitempty"`
}

// SessionDTO is the authenticated session returned after code verification.
type SessionDTO struct {
	AccessToken string     `json:"access_token"`
	UserID      uuid.UUID  `json:"user_id"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	ProducerID  *uuid.UUID `json:"producer_id,omitempty"`
}
