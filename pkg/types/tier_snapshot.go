package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SnapshotTier is one tier row frozen inside a price history record.
// Price tiers carry price_per_kg; template tiers carry discount_percent and the
// price computed from the base price at snapshot time.
type SnapshotTier struct {
	MinQuantityKg   decimal.Decimal  `json:"min_quantity_kg"`
	MaxQuantityKg   *decimal.Decimal `json:"max_quantity_kg"`
	PricePerKg      decimal.Decimal  `json:"price_per_kg"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	Position        int              `json:"position"`
}

// TierSnapshotList stores a frozen tier schedule as a JSONB column.
type TierSnapshotList []SnapshotTier

// Value implements driver.Valuer.
func (l TierSnapshotList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal tier snapshot: %w", err)
	}
	return raw, nil
}

// Scan implements sql.Scanner.
func (l *TierSnapshotList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tier snapshot source %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}
