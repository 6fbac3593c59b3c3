package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func singleProduct(base, moq string) *models.Product {
	return &models.Product{
		PriceFOB:    dec(base),
		MOQKg:       dec(moq),
		PricingMode: enums.PricingModeSingle,
	}
}

func TestResolveSingleSynthesizesOneTier(t *testing.T) {
	product := singleProduct("250", "5")

	tiers := ResolveEffectiveTiers(product)
	if len(tiers) != 1 {
		t.Fatalf("expected 1 tier, got %d", len(tiers))
	}
	tier := tiers[0]
	if !tier.MinQuantityKg.Equal(dec("5")) {
		t.Fatalf("expected min at MOQ, got %s", tier.MinQuantityKg)
	}
	if tier.MaxQuantityKg != nil {
		t.Fatal("expected unbounded max")
	}
	if !tier.PricePerKg.Equal(dec("250")) {
		t.Fatalf("expected FOB price, got %s", tier.PricePerKg)
	}
	if !tier.DiscountPercent.IsZero() {
		t.Fatalf("expected zero discount, got %s", tier.DiscountPercent)
	}
}

func TestResolveTieredBackwardComputesDiscount(t *testing.T) {
	product := &models.Product{
		PriceFOB:    dec("100"),
		MOQKg:       dec("1"),
		PricingMode: enums.PricingModeTiered,
		PriceTiers: []models.ProductPriceTier{
			{MinQuantityKg: dec("10"), PricePerKg: dec("80"), Position: 1},
			{MinQuantityKg: dec("0"), MaxQuantityKg: decPtr("10"), PricePerKg: dec("100"), Position: 0},
		},
	}

	tiers := ResolveEffectiveTiers(product)
	if len(tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(tiers))
	}
	if tiers[0].Position != 0 || tiers[1].Position != 1 {
		t.Fatalf("expected tiers ordered by position, got %d,%d", tiers[0].Position, tiers[1].Position)
	}
	if !tiers[0].DiscountPercent.IsZero() {
		t.Fatalf("expected 0%% at base price, got %s", tiers[0].DiscountPercent)
	}
	if !tiers[1].DiscountPercent.Equal(dec("20")) {
		t.Fatalf("expected 20%% discount, got %s", tiers[1].DiscountPercent)
	}
}

func TestResolveTieredZeroBaseGuardsDivision(t *testing.T) {
	product := &models.Product{
		PriceFOB:    decimal.Zero,
		MOQKg:       dec("1"),
		PricingMode: enums.PricingModeTiered,
		PriceTiers: []models.ProductPriceTier{
			{MinQuantityKg: dec("1"), PricePerKg: dec("80"), Position: 0},
		},
	}

	tiers := ResolveEffectiveTiers(product)
	if !tiers[0].DiscountPercent.IsZero() {
		t.Fatalf("expected 0 discount for zero base, got %s", tiers[0].DiscountPercent)
	}
}

func TestResolveTemplateForwardComputesPrice(t *testing.T) {
	product := &models.Product{
		PriceFOB:    dec("250"),
		MOQKg:       dec("1"),
		PricingMode: enums.PricingModeTemplate,
		PriceTemplate: &models.PriceTierTemplate{
			Tiers: []models.TemplateTier{
				{MinQuantityKg: dec("1"), MaxQuantityKg: decPtr("50"), DiscountPercent: dec("0"), Position: 0},
				{MinQuantityKg: dec("50"), DiscountPercent: dec("10"), Position: 1},
			},
		},
	}

	tiers := ResolveEffectiveTiers(product)
	if len(tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(tiers))
	}
	if !tiers[0].PricePerKg.Equal(dec("250")) {
		t.Fatalf("expected 250 at 0%%, got %s", tiers[0].PricePerKg)
	}
	if !tiers[1].PricePerKg.Equal(dec("225")) {
		t.Fatalf("expected 225 at 10%%, got %s", tiers[1].PricePerKg)
	}
}

func TestResolveTemplateModeWithoutTemplateIsEmpty(t *testing.T) {
	product := &models.Product{
		PriceFOB:    dec("250"),
		MOQKg:       dec("1"),
		PricingMode: enums.PricingModeTemplate,
	}
	if tiers := ResolveEffectiveTiers(product); len(tiers) != 0 {
		t.Fatalf("expected empty tier set, got %d", len(tiers))
	}
}

func TestMatchTierHighestQualifyingMinWins(t *testing.T) {
	tiers := []EffectiveTier{
		{MinQuantityKg: dec("0"), MaxQuantityKg: decPtr("10"), PricePerKg: dec("100"), Position: 0},
		{MinQuantityKg: dec("10"), MaxQuantityKg: decPtr("50"), PricePerKg: dec("90"), Position: 1},
		{MinQuantityKg: dec("50"), PricePerKg: dec("80"), Position: 2},
	}

	got := MatchTier(tiers, dec("60"))
	if got == nil || got.Position != 2 {
		t.Fatalf("expected top tier for qty 60, got %+v", got)
	}

	got = MatchTier(tiers, dec("10"))
	if got == nil || got.Position != 1 {
		t.Fatalf("expected middle tier for qty 10, got %+v", got)
	}
}

func TestMatchTierFallsBackToSmallestMin(t *testing.T) {
	tiers := []EffectiveTier{
		{MinQuantityKg: dec("10"), PricePerKg: dec("90"), Position: 0},
		{MinQuantityKg: dec("50"), PricePerKg: dec("80"), Position: 1},
	}

	got := MatchTier(tiers, dec("3"))
	if got == nil {
		t.Fatal("expected fallback tier, got none")
	}
	if !got.MinQuantityKg.Equal(dec("10")) {
		t.Fatalf("expected smallest-min tier, got min %s", got.MinQuantityKg)
	}
}

func TestMatchTierEmptyReturnsNil(t *testing.T) {
	if got := MatchTier(nil, dec("10")); got != nil {
		t.Fatalf("expected nil for empty tiers, got %+v", got)
	}
}

func TestMatchTierIsIdempotent(t *testing.T) {
	tiers := []EffectiveTier{
		{MinQuantityKg: dec("0"), PricePerKg: dec("100"), Position: 0},
		{MinQuantityKg: dec("20"), PricePerKg: dec("85"), Position: 1},
	}
	first := MatchTier(tiers, dec("25"))
	for i := 0; i < 5; i++ {
		again := MatchTier(tiers, dec("25"))
		if again == nil || again.Position != first.Position {
			t.Fatalf("match not idempotent on call %d: %+v vs %+v", i, again, first)
		}
	}
}

func TestSavingsVsBase(t *testing.T) {
	savings := SavingsVsBase(dec("250"), dec("225"), dec("60"))
	if savings == nil {
		t.Fatal("expected savings")
	}
	if !savings.Amount.Equal(dec("1500")) {
		t.Fatalf("expected amount 1500, got %s", savings.Amount)
	}
	if !savings.Percent.Equal(dec("10")) {
		t.Fatalf("expected percent 10, got %s", savings.Percent)
	}

	if SavingsVsBase(dec("0"), dec("225"), dec("60")) != nil {
		t.Fatal("expected nil savings for zero base")
	}
	if SavingsVsBase(dec("200"), dec("225"), dec("60")) != nil {
		t.Fatal("expected nil savings when tier does not undercut base")
	}
}

func TestFindNextTierEstimatesThresholdSavings(t *testing.T) {
	tiers := []EffectiveTier{
		{MinQuantityKg: dec("0"), PricePerKg: dec("100"), Position: 0},
		{MinQuantityKg: dec("50"), PricePerKg: dec("90"), Position: 1},
	}
	current := &tiers[0]

	hint := FindNextTier(tiers, current)
	if hint == nil {
		t.Fatal("expected next tier hint")
	}
	if !hint.MinQuantityKg.Equal(dec("50")) {
		t.Fatalf("expected threshold 50, got %s", hint.MinQuantityKg)
	}
	// (100-90) * 50, against the next threshold rather than the current qty
	if !hint.ExtraSavings.Equal(dec("500")) {
		t.Fatalf("expected extra savings 500, got %s", hint.ExtraSavings)
	}

	if FindNextTier(tiers, &tiers[1]) != nil {
		t.Fatal("expected no hint at the top tier")
	}
}

func TestComputeTrend(t *testing.T) {
	trend := ComputeTrend(dec("225"), dec("250"))
	if trend == nil || trend.Direction != TrendDown {
		t.Fatalf("expected down trend, got %+v", trend)
	}
	if !trend.Percent.Equal(dec("10")) {
		t.Fatalf("expected 10%%, got %s", trend.Percent)
	}

	trend = ComputeTrend(dec("275"), dec("250"))
	if trend == nil || trend.Direction != TrendUp {
		t.Fatalf("expected up trend, got %+v", trend)
	}

	// an unchanged price reports no trend at all
	if ComputeTrend(dec("250"), dec("250")) != nil {
		t.Fatal("expected nil trend for an unchanged base price")
	}

	// a movement too small to register after rounding is stable
	trend = ComputeTrend(dec("250.002"), dec("250"))
	if trend == nil || trend.Direction != TrendStable {
		t.Fatalf("expected stable trend, got %+v", trend)
	}

	if ComputeTrend(dec("250"), decimal.Zero) != nil {
		t.Fatal("expected nil trend for zero previous base")
	}
}

func TestTemplateScenarioQuantitySixty(t *testing.T) {
	product := &models.Product{
		PriceFOB:    dec("250"),
		MOQKg:       dec("1"),
		PricingMode: enums.PricingModeTemplate,
		PriceTemplate: &models.PriceTierTemplate{
			Tiers: []models.TemplateTier{
				{MinQuantityKg: dec("1"), MaxQuantityKg: decPtr("50"), DiscountPercent: dec("0"), Position: 0},
				{MinQuantityKg: dec("50"), DiscountPercent: dec("10"), Position: 1},
			},
		},
	}

	tiers := ResolveEffectiveTiers(product)
	applied := MatchTier(tiers, dec("60"))
	if applied == nil {
		t.Fatal("expected a matched tier")
	}
	if !applied.PricePerKg.Equal(dec("225")) {
		t.Fatalf("expected price_per_kg 225, got %s", applied.PricePerKg)
	}

	total := applied.PricePerKg.Mul(dec("60")).Round(2)
	if !total.Equal(dec("13500")) {
		t.Fatalf("expected total 13500, got %s", total)
	}

	savings := SavingsVsBase(product.PriceFOB, applied.PricePerKg, dec("60"))
	if savings == nil {
		t.Fatal("expected savings vs base")
	}
	if !savings.Percent.Equal(dec("10")) || !savings.Amount.Equal(dec("1500")) {
		t.Fatalf("expected 10%% / 1500, got %s%% / %s", savings.Percent, savings.Amount)
	}
}

func TestSnapshotTiersRoundTripShape(t *testing.T) {
	tiers := []EffectiveTier{
		{MinQuantityKg: dec("0"), MaxQuantityKg: decPtr("10"), PricePerKg: dec("100"), DiscountPercent: dec("0"), Position: 0},
		{MinQuantityKg: dec("10"), PricePerKg: dec("80"), DiscountPercent: dec("20"), Position: 1},
	}

	snapshot := SnapshotTiers(tiers)
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 snapshot tiers, got %d", len(snapshot))
	}
	if !snapshot[1].PricePerKg.Equal(dec("80")) || snapshot[1].Position != 1 {
		t.Fatalf("snapshot tier mismatch: %+v", snapshot[1])
	}
	if SnapshotTiers(nil) != nil {
		t.Fatal("expected nil snapshot for empty tiers")
	}
}
