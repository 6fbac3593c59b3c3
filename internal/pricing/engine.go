package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	"github.com/teravoo/teravoo-backend/pkg/types"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// EffectiveTier is the uniform tier shape produced by resolution regardless of
// the active pricing mode. It is never persisted directly; snapshots serialize
// it through types.SnapshotTier.
type EffectiveTier struct {
	MinQuantityKg   decimal.Decimal
	MaxQuantityKg   *decimal.Decimal
	PricePerKg      decimal.Decimal
	DiscountPercent decimal.Decimal
	Position        int
}

// ResolveEffectiveTiers computes the ordered effective tier list for a product.
// It never fails: SINGLE synthesizes one tier at the MOQ, TIERED copies the
// custom tiers, TEMPLATE applies the template's discounts to the FOB price. An
// empty result means the product has no computable tier source (TEMPLATE mode
// with the template unlinked) and callers fall back to the flat FOB price.
func ResolveEffectiveTiers(product *models.Product) []EffectiveTier {
	switch product.PricingMode {
	case enums.PricingModeTiered:
		return resolveCustomTiers(product.PriceFOB, product.PriceTiers)
	case enums.PricingModeTemplate:
		if product.PriceTemplate == nil {
			return nil
		}
		return ResolveTemplateTiers(product.PriceFOB, product.PriceTemplate.Tiers)
	default:
		return []EffectiveTier{{
			MinQuantityKg:   product.MOQKg,
			MaxQuantityKg:   nil,
			PricePerKg:      product.PriceFOB,
			DiscountPercent: decimal.Zero,
			Position:        0,
		}}
	}
}

func resolveCustomTiers(basePrice decimal.Decimal, tiers []models.ProductPriceTier) []EffectiveTier {
	sorted := make([]models.ProductPriceTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	effective := make([]EffectiveTier, 0, len(sorted))
	for _, tier := range sorted {
		effective = append(effective, EffectiveTier{
			MinQuantityKg:   tier.MinQuantityKg,
			MaxQuantityKg:   tier.MaxQuantityKg,
			PricePerKg:      tier.PricePerKg,
			DiscountPercent: discountFromPrice(basePrice, tier.PricePerKg),
			Position:        tier.Position,
		})
	}
	return effective
}

// ResolveTemplateTiers applies a template's discount schedule to a base price.
// Also used directly for producer-level fallback pricing where no product
// exists and the caller supplies a reference price.
func ResolveTemplateTiers(basePrice decimal.Decimal, tiers []models.TemplateTier) []EffectiveTier {
	sorted := make([]models.TemplateTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	effective := make([]EffectiveTier, 0, len(sorted))
	for _, tier := range sorted {
		effective = append(effective, EffectiveTier{
			MinQuantityKg:   tier.MinQuantityKg,
			MaxQuantityKg:   tier.MaxQuantityKg,
			PricePerKg:      priceFromDiscount(basePrice, tier.DiscountPercent),
			DiscountPercent: tier.DiscountPercent,
			Position:        tier.Position,
		})
	}
	return effective
}

// discountFromPrice backward-computes the display discount of a custom tier
// relative to the FOB price. A non-positive base yields 0 rather than an
// arithmetic fault.
func discountFromPrice(basePrice, pricePerKg decimal.Decimal) decimal.Decimal {
	if basePrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	ratio := pricePerKg.Div(basePrice)
	return decimalOne.Sub(ratio).Mul(decimalHundred).Round(2)
}

func priceFromDiscount(basePrice, discountPercent decimal.Decimal) decimal.Decimal {
	factor := decimalOne.Sub(discountPercent.Div(decimalHundred))
	return basePrice.Mul(factor).Round(2)
}

// MatchTier selects the applicable tier for a quantity. Tiers are scanned by
// descending min_quantity and the first one whose range contains the quantity
// wins. A quantity below every minimum still gets the smallest-minimum tier,
// so any nonempty tier set always produces a price. Returns nil only for an
// empty tier set.
func MatchTier(tiers []EffectiveTier, quantity decimal.Decimal) *EffectiveTier {
	if len(tiers) == 0 {
		return nil
	}

	byMinDesc := make([]EffectiveTier, len(tiers))
	copy(byMinDesc, tiers)
	sort.SliceStable(byMinDesc, func(i, j int) bool {
		return byMinDesc[i].MinQuantityKg.GreaterThan(byMinDesc[j].MinQuantityKg)
	})

	for i := range byMinDesc {
		tier := byMinDesc[i]
		if quantity.LessThan(tier.MinQuantityKg) {
			continue
		}
		if tier.MaxQuantityKg != nil && quantity.GreaterThan(*tier.MaxQuantityKg) {
			continue
		}
		return &tier
	}

	// below every minimum: the smallest-minimum tier is the floor price
	floor := byMinDesc[len(byMinDesc)-1]
	return &floor
}

// Savings describes what the matched tier saves against the flat FOB price.
type Savings struct {
	Amount  decimal.Decimal
	Percent decimal.Decimal
}

// SavingsVsBase computes the discount the buyer receives at the matched tier.
// Nil when the base price is non-positive or the tier does not undercut it.
func SavingsVsBase(basePrice, pricePerKg, quantity decimal.Decimal) *Savings {
	if basePrice.LessThanOrEqual(decimal.Zero) || !pricePerKg.LessThan(basePrice) {
		return nil
	}
	amount := basePrice.Sub(pricePerKg).Mul(quantity).Round(2)
	percent := decimalOne.Sub(pricePerKg.Div(basePrice)).Mul(decimalHundred).Round(2)
	return &Savings{Amount: amount, Percent: percent}
}

// NextTierHint points the buyer at the next quantity threshold and what
// ordering up to it would save in total.
type NextTierHint struct {
	MinQuantityKg decimal.Decimal
	PricePerKg    decimal.Decimal
	ExtraSavings  decimal.Decimal
}

// FindNextTier locates the tier immediately after the current one in ascending
// min_quantity order. ExtraSavings estimates the total saved by ordering
// exactly the next tier's minimum, not the incremental saving on the current
// quantity.
func FindNextTier(tiers []EffectiveTier, current *EffectiveTier) *NextTierHint {
	if current == nil || len(tiers) < 2 {
		return nil
	}

	byMinAsc := make([]EffectiveTier, len(tiers))
	copy(byMinAsc, tiers)
	sort.SliceStable(byMinAsc, func(i, j int) bool {
		return byMinAsc[i].MinQuantityKg.LessThan(byMinAsc[j].MinQuantityKg)
	})

	idx := -1
	for i := range byMinAsc {
		if byMinAsc[i].Position == current.Position {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(byMinAsc) {
		return nil
	}

	next := byMinAsc[idx+1]
	extra := current.PricePerKg.Sub(next.PricePerKg).Mul(next.MinQuantityKg).Round(2)
	return &NextTierHint{
		MinQuantityKg: next.MinQuantityKg,
		PricePerKg:    next.PricePerKg,
		ExtraSavings:  extra,
	}
}

// TrendDirection classifies a base price change against the latest snapshot.
type TrendDirection string

const (
	TrendDown   TrendDirection = "down"
	TrendUp     TrendDirection = "up"
	TrendStable TrendDirection = "stable"
)

// Trend is the base price movement since the most recent snapshot.
type Trend struct {
	Direction TrendDirection
	Percent   decimal.Decimal
}

// ComputeTrend compares the current base price with a previous one. Nil when
// the previous base is non-positive, since the ratio is undefined, and nil
// when the price has not moved at all.
func ComputeTrend(currentBase, previousBase decimal.Decimal) *Trend {
	if previousBase.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	if currentBase.Equal(previousBase) {
		return nil
	}
	percent := currentBase.Sub(previousBase).Div(previousBase).Mul(decimalHundred).Round(2)
	direction := TrendStable
	switch {
	case percent.IsNegative():
		direction = TrendDown
	case percent.IsPositive():
		direction = TrendUp
	}
	return &Trend{Direction: direction, Percent: percent.Abs()}
}

// SnapshotTiers converts effective tiers into the serializable snapshot shape.
func SnapshotTiers(tiers []EffectiveTier) types.TierSnapshotList {
	if len(tiers) == 0 {
		return nil
	}
	out := make(types.TierSnapshotList, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, types.SnapshotTier{
			MinQuantityKg:   tier.MinQuantityKg,
			MaxQuantityKg:   tier.MaxQuantityKg,
			PricePerKg:      tier.PricePerKg,
			DiscountPercent: tier.DiscountPercent,
			Position:        tier.Position,
		})
	}
	return out
}
