package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db"
	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	"github.com/teravoo/teravoo-backend/pkg/metrics"
)

const maxTiersPerSchedule = 5

// Service exposes the tiered pricing operations.
type Service interface {
	GetEffectiveTiers(ctx context.Context, productID uuid.UUID) (*EffectiveTiersDTO, error)
	CalculatePrice(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*CalculatedPriceDTO, error)
	SetCustomTiers(ctx context.Context, productID uuid.UUID, actor string, input SetCustomTiersInput) ([]EffectiveTierDTO, error)
	DeleteCustomTiers(ctx context.Context, productID uuid.UUID, actor string) (*EffectiveTiersDTO, error)
	SetPricingMode(ctx context.Context, productID uuid.UUID, actor string, input SetPricingModeInput) (*PricingModeDTO, error)
	CreateTemplate(ctx context.Context, producerID uuid.UUID, input CreateTemplateInput) (*TemplateDTO, error)
	ListTemplates(ctx context.Context, producerID uuid.UUID) ([]TemplateDTO, error)
	UpdateTemplate(ctx context.Context, producerID, templateID uuid.UUID, actor string, input UpdateTemplateInput) (*TemplateDTO, error)
	DeleteTemplate(ctx context.Context, producerID, templateID uuid.UUID) error
	GetPriceHistory(ctx context.Context, productID uuid.UUID, limit int) ([]SnapshotDTO, error)
	ComparePrice(ctx context.Context, productID uuid.UUID, asOf time.Time) (*ComparisonDTO, error)
	SuggestPriceForSourcingRequest(ctx context.Context, requestID, producerID uuid.UUID, referencePrice *decimal.Decimal) (*SuggestionDTO, error)
}

// TierInput is one custom tier supplied by a client. Order is ignored;
// positions are assigned by ascending min_quantity_kg.
type TierInput struct {
	MinQuantityKg decimal.Decimal
	MaxQuantityKg *decimal.Decimal
	PricePerKg    decimal.Decimal
}

// SetCustomTiersInput holds the validated payload to replace a product's tiers.
type SetCustomTiersInput struct {
	Tiers  []TierInput
	Reason *string
}

// SetPricingModeInput switches the pricing strategy of a product.
type SetPricingModeInput struct {
	Mode       enums.PricingMode
	TemplateID *uuid.UUID
	Reason     *string
}

// TemplateTierInput is one discount step supplied by a client.
type TemplateTierInput struct {
	MinQuantityKg   decimal.Decimal
	MaxQuantityKg   *decimal.Decimal
	DiscountPercent decimal.Decimal
}

// CreateTemplateInput holds the payload to create a discount template.
type CreateTemplateInput struct {
	Name        string
	Description *string
	IsDefault   bool
	Tiers       []TemplateTierInput
}

// UpdateTemplateInput holds optional mutation values for a template.
type UpdateTemplateInput struct {
	Name        *string
	Description *string
	IsDefault   *bool
	Tiers       *[]TemplateTierInput
}

type sourcingRequestLoader interface {
	FindRequestByID(ctx context.Context, id uuid.UUID) (*models.SourcingRequest, error)
}

// service implements the pricing service.
type service struct {
	repo         *Repository
	dbClient     *db.Client
	sourcingRepo sourcingRequestLoader
	metrics      *metrics.PricingMetrics
}

// NewService constructs a pricing service instance.
func NewService(repo *Repository, dbClient *db.Client, sourcingRepo sourcingRequestLoader, pricingMetrics *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if sourcingRepo == nil {
		return nil, fmt.Errorf("sourcing request loader required")
	}
	return &service{
		repo:         repo,
		dbClient:     dbClient,
		sourcingRepo: sourcingRepo,
		metrics:      pricingMetrics,
	}, nil
}

// GetEffectiveTiers returns the normalized tier list for a product.
func (s *service) GetEffectiveTiers(ctx context.Context, productID uuid.UUID) (*EffectiveTiersDTO, error) {
	started := time.Now()
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	tiers := ResolveEffectiveTiers(product)
	s.metrics.ObserveResolveDuration("effective_tiers", time.Since(started))

	return &EffectiveTiersDTO{
		ProductID:  product.ID,
		Mode:       product.PricingMode.String(),
		BasePrice:  product.PriceFOB,
		MOQKg:      product.MOQKg,
		TemplateID: product.TemplateID,
		Tiers:      newEffectiveTierDTOs(tiers),
	}, nil
}

// CalculatePrice quotes a quantity against the product's active tier schedule.
func (s *service) CalculatePrice(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) (*CalculatedPriceDTO, error) {
	started := time.Now()
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity.LessThan(product.MOQKg) {
		s.metrics.IncCalculation(product.PricingMode.String(), "below_moq")
		return nil, pkgerrors.New(pkgerrors.CodeBelowMinimumOrder,
			fmt.Sprintf("quantity %s is below the minimum order of %s kg", quantity, product.MOQKg)).
			WithDetails(map[string]any{
				"moq_kg":      product.MOQKg,
				"quantity_kg": quantity,
			})
	}

	result := &CalculatedPriceDTO{
		ProductID:  product.ID,
		QuantityKg: quantity,
	}

	tiers := ResolveEffectiveTiers(product)
	if len(tiers) == 0 {
		// no computable tier source, quote the flat FOB price
		result.PricePerKg = product.PriceFOB
		result.Total = product.PriceFOB.Mul(quantity).Round(2)
	} else {
		applied := MatchTier(tiers, quantity)
		result.PricePerKg = applied.PricePerKg
		result.Total = applied.PricePerKg.Mul(quantity).Round(2)
		appliedDTO := newEffectiveTierDTO(*applied)
		result.AppliedTier = &appliedDTO

		if savings := SavingsVsBase(product.PriceFOB, applied.PricePerKg, quantity); savings != nil {
			result.SavingsVsBase = &SavingsDTO{Amount: savings.Amount, Percent: savings.Percent}
		}
		if next := FindNextTier(tiers, applied); next != nil {
			result.NextTier = &NextTierDTO{
				MinQuantityKg: next.MinQuantityKg,
				PricePerKg:    next.PricePerKg,
				ExtraSavings:  next.ExtraSavings,
			}
		}
	}

	if trend := s.loadTrend(ctx, product); trend != nil {
		result.Trend = trend
	}

	s.metrics.IncCalculation(product.PricingMode.String(), "ok")
	s.metrics.ObserveResolveDuration("calculate_price", time.Since(started))
	return result, nil
}

func (s *service) loadTrend(ctx context.Context, product *models.Product) *TrendDTO {
	snapshot, err := s.repo.LatestSnapshot(ctx, product.ID)
	if err != nil {
		return nil
	}
	trend := ComputeTrend(product.PriceFOB, snapshot.BasePriceFOB)
	if trend == nil {
		return nil
	}
	return &TrendDTO{Direction: string(trend.Direction), Percent: trend.Percent}
}

// SetCustomTiers replaces the product's custom tiers wholesale and switches it
// to TIERED mode, snapshotting the previous configuration first.
func (s *service) SetCustomTiers(ctx context.Context, productID uuid.UUID, actor string, input SetCustomTiersInput) ([]EffectiveTierDTO, error) {
	rows, err := buildCustomTierRows(productID, input.Tiers)
	if err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.snapshot(ctx, txRepo, product, reasonOrDefault(input.Reason, "tiers_replaced"), actor); err != nil {
			return err
		}
		if err := txRepo.ReplacePriceTiers(ctx, productID, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace price tiers")
		}

		product.PricingMode = enums.PricingModeTiered
		product.TemplateID = nil
		if err := txRepo.UpdateProductPricing(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product pricing")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set custom tiers")
	}

	updated, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return newEffectiveTierDTOs(ResolveEffectiveTiers(updated)), nil
}

// DeleteCustomTiers removes all custom tiers and reverts the product to SINGLE.
func (s *service) DeleteCustomTiers(ctx context.Context, productID uuid.UUID, actor string) (*EffectiveTiersDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.snapshot(ctx, txRepo, product, "tiers_deleted", actor); err != nil {
			return err
		}
		if err := txRepo.DeletePriceTiers(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price tiers")
		}

		product.PricingMode = enums.PricingModeSingle
		product.TemplateID = nil
		if err := txRepo.UpdateProductPricing(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product pricing")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete custom tiers")
	}

	return s.GetEffectiveTiers(ctx, productID)
}

// SetPricingMode switches the pricing strategy, enforcing the template
// ownership and tier presence invariants before any write.
func (s *service) SetPricingMode(ctx context.Context, productID uuid.UUID, actor string, input SetPricingModeInput) (*PricingModeDTO, error) {
	if !input.Mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid pricing mode %q", input.Mode))
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var template *models.PriceTierTemplate
	switch input.Mode {
	case enums.PricingModeTemplate:
		if input.TemplateID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "template_id is required for TEMPLATE mode")
		}
		template, err = s.repo.FindTemplate(ctx, *input.TemplateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
		}
		if product.ProducerID == nil || template.ProducerID != *product.ProducerID {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "template belongs to a different producer")
		}
	case enums.PricingModeTiered:
		if len(product.PriceTiers) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product has no custom tiers; set tiers before switching to TIERED")
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.snapshot(ctx, txRepo, product, reasonOrDefault(input.Reason, "mode_changed"), actor); err != nil {
			return err
		}

		product.PricingMode = input.Mode
		if input.Mode == enums.PricingModeTemplate {
			product.TemplateID = input.TemplateID
		} else {
			product.TemplateID = nil
		}
		if err := txRepo.UpdateProductPricing(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product pricing")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set pricing mode")
	}

	product.PriceTemplate = template
	tiers := ResolveEffectiveTiers(product)
	return &PricingModeDTO{
		ProductID:  product.ID,
		Mode:       product.PricingMode.String(),
		TemplateID: product.TemplateID,
		Tiers:      newEffectiveTierDTOs(tiers),
	}, nil
}

// CreateTemplate creates a producer discount template. Setting it as default
// clears the flag on the producer's other templates in the same transaction.
func (s *service) CreateTemplate(ctx context.Context, producerID uuid.UUID, input CreateTemplateInput) (*TemplateDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name is required")
	}
	tierRows, err := buildTemplateTierRows(input.Tiers)
	if err != nil {
		return nil, err
	}

	template := &models.PriceTierTemplate{
		ProducerID:  producerID,
		Name:        name,
		Description: input.Description,
		IsDefault:   input.IsDefault,
		Tiers:       tierRows,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := txRepo.ClearDefaultTemplates(ctx, producerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default templates")
			}
		}
		if _, err := txRepo.CreateTemplate(ctx, template); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert template")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}

	created, err := s.repo.FindTemplate(ctx, template.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return NewTemplateDTO(created), nil
}

// ListTemplates returns the producer's templates, default first.
func (s *service) ListTemplates(ctx context.Context, producerID uuid.UUID) ([]TemplateDTO, error) {
	templates, err := s.repo.ListTemplates(ctx, producerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}
	out := make([]TemplateDTO, 0, len(templates))
	for i := range templates {
		out = append(out, *NewTemplateDTO(&templates[i]))
	}
	return out, nil
}

// UpdateTemplate mutates a template and cascades a history snapshot to every
// product currently linked to it, all inside one transaction.
func (s *service) UpdateTemplate(ctx context.Context, producerID, templateID uuid.UUID, actor string, input UpdateTemplateInput) (*TemplateDTO, error) {
	template, err := s.loadOwnedTemplate(ctx, producerID, templateID)
	if err != nil {
		return nil, err
	}

	var tierRows []models.TemplateTier
	if input.Tiers != nil {
		tierRows, err = buildTemplateTierRows(*input.Tiers)
		if err != nil {
			return nil, err
		}
	}

	linked, err := s.repo.ListProductsUsingTemplate(ctx, templateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list linked products")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		// snapshot every linked product before the schedule underneath it changes
		for i := range linked {
			if err := s.snapshot(ctx, txRepo, &linked[i], "template_updated", actor); err != nil {
				return err
			}
		}

		if input.Name != nil {
			trimmed := strings.TrimSpace(*input.Name)
			if trimmed == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "template name cannot be empty")
			}
			template.Name = trimmed
		}
		if input.Description != nil {
			template.Description = input.Description
		}
		if input.IsDefault != nil {
			if *input.IsDefault && !template.IsDefault {
				if err := txRepo.ClearDefaultTemplates(ctx, producerID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default templates")
				}
			}
			template.IsDefault = *input.IsDefault
		}
		if err := txRepo.UpdateTemplate(ctx, template); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update template")
		}
		if input.Tiers != nil {
			if err := txRepo.ReplaceTemplateTiers(ctx, templateID, tierRows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace template tiers")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}

	updated, err := s.repo.FindTemplate(ctx, templateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return NewTemplateDTO(updated), nil
}

// DeleteTemplate removes a template unless any product still references it.
func (s *service) DeleteTemplate(ctx context.Context, producerID, templateID uuid.UUID) error {
	if _, err := s.loadOwnedTemplate(ctx, producerID, templateID); err != nil {
		return err
	}

	count, err := s.repo.CountProductsUsingTemplate(ctx, templateID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count linked products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("template is in use by %d product(s); detach them first", count)).
			WithDetails(map[string]any{"products_using_template": count})
	}

	if err := s.repo.DeleteTemplate(ctx, templateID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template")
	}
	return nil
}

// GetPriceHistory returns the newest snapshots for the product.
func (s *service) GetPriceHistory(ctx context.Context, productID uuid.UUID, limit int) ([]SnapshotDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}

	snapshots, err := s.repo.ListSnapshots(ctx, productID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list snapshots")
	}
	out := make([]SnapshotDTO, 0, len(snapshots))
	for i := range snapshots {
		out = append(out, NewSnapshotDTO(&snapshots[i]))
	}
	return out, nil
}

// ComparePrice compares the current FOB price against the configuration that
// was in force at the given date.
func (s *service) ComparePrice(ctx context.Context, productID uuid.UUID, asOf time.Time) (*ComparisonDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.repo.LatestSnapshotAtOrBefore(ctx, productID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNoHistoryFound,
				fmt.Sprintf("no price snapshot at or before %s", asOf.Format(time.RFC3339))).
				WithDetails(map[string]any{"as_of_date": asOf})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snapshot")
	}

	comparison := &ComparisonDTO{
		ProductID:    product.ID,
		AsOfDate:     asOf,
		SnapshotBase: snapshot.BasePriceFOB,
		CurrentBase:  product.PriceFOB,
		SnapshotAt:   snapshot.ChangedAt,
	}
	// a zero historical base leaves the ratio undefined, so percent is omitted
	if snapshot.BasePriceFOB.GreaterThan(decimal.Zero) {
		percent := product.PriceFOB.Sub(snapshot.BasePriceFOB).
			Div(snapshot.BasePriceFOB).Mul(decimalHundred).Round(2)
		comparison.PercentChange = &percent
	}
	return comparison, nil
}

// SuggestPriceForSourcingRequest quotes the requested volume from the
// producer's matching product, or from their default template against a
// caller-supplied reference price when no product matches. MOQ gating is
// skipped since this is a hint, not an order.
func (s *service) SuggestPriceForSourcingRequest(ctx context.Context, requestID, producerID uuid.UUID, referencePrice *decimal.Decimal) (*SuggestionDTO, error) {
	request, err := s.sourcingRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sourcing request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sourcing request")
	}

	suggestion := &SuggestionDTO{
		RequestID:  request.ID,
		ProducerID: producerID,
	}

	product, err := s.repo.FindProducerProductByType(ctx, producerID, request.ProductType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producer product")
	}

	if product != nil {
		tiers := ResolveEffectiveTiers(product)
		if len(tiers) > 0 {
			applied := MatchTier(tiers, request.VolumeTargetKg)
			total := applied.PricePerKg.Mul(request.VolumeTargetKg).Round(2)
			suggestion.HasPricingTiers = true
			suggestion.Source = "product"
			suggestion.ProductID = &product.ID
			suggestion.BasePrice = &product.PriceFOB
			suggestion.PricePerKg = &applied.PricePerKg
			suggestion.Total = &total
			suggestion.Tiers = newEffectiveTierDTOs(tiers)
			return suggestion, nil
		}
	}

	template, err := s.repo.FindDefaultTemplate(ctx, producerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return suggestion, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default template")
	}

	if referencePrice == nil || referencePrice.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"reference_price is required when the producer has no matching product")
	}

	tiers := ResolveTemplateTiers(*referencePrice, template.Tiers)
	if len(tiers) == 0 {
		return suggestion, nil
	}
	applied := MatchTier(tiers, request.VolumeTargetKg)
	total := applied.PricePerKg.Mul(request.VolumeTargetKg).Round(2)
	suggestion.HasPricingTiers = true
	suggestion.Source = "default_template"
	suggestion.BasePrice = referencePrice
	suggestion.PricePerKg = &applied.PricePerKg
	suggestion.Total = &total
	suggestion.Tiers = newEffectiveTierDTOs(tiers)
	return suggestion, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductWithPricing(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) loadOwnedTemplate(ctx context.Context, producerID, templateID uuid.UUID) (*models.PriceTierTemplate, error) {
	template, err := s.repo.FindTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if template.ProducerID != producerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
	}
	return template, nil
}

// snapshot writes the product's current effective configuration to history.
// Must run before the mutation inside the same transaction.
func (s *service) snapshot(ctx context.Context, txRepo *Repository, product *models.Product, reason, actor string) error {
	row := &models.PriceTierHistory{
		ProductID:          product.ID,
		PricingMode:        product.PricingMode,
		BasePriceFOB:       product.PriceFOB,
		TiersSnapshot:      SnapshotTiers(ResolveEffectiveTiers(product)),
		TemplateIDSnapshot: product.TemplateID,
	}
	if reason != "" {
		row.ChangeReason = &reason
	}
	if actor != "" {
		row.ChangedBy = &actor
	}
	if err := txRepo.InsertSnapshot(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price snapshot")
	}
	s.metrics.IncSnapshot(reason)
	return nil
}

func reasonOrDefault(reason *string, fallback string) string {
	if reason != nil && strings.TrimSpace(*reason) != "" {
		return strings.TrimSpace(*reason)
	}
	return fallback
}

// buildCustomTierRows validates client tiers and assigns dense positions by
// ascending min_quantity_kg.
func buildCustomTierRows(productID uuid.UUID, inputs []TierInput) ([]models.ProductPriceTier, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	if len(inputs) > maxTiersPerSchedule {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d tiers are allowed", maxTiersPerSchedule))
	}

	sorted := make([]TierInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantityKg.LessThan(sorted[j].MinQuantityKg)
	})

	rows := make([]models.ProductPriceTier, 0, len(sorted))
	var prev *TierInput
	for i := range sorted {
		tier := sorted[i]
		if tier.MinQuantityKg.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_quantity_kg cannot be negative")
		}
		if tier.PricePerKg.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_kg must be positive")
		}
		if tier.MaxQuantityKg != nil && tier.MaxQuantityKg.LessThan(tier.MinQuantityKg) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_quantity_kg cannot be below min_quantity_kg")
		}
		if prev != nil {
			if tier.MinQuantityKg.Equal(prev.MinQuantityKg) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier min_quantity_kg")
			}
			if tier.PricePerKg.GreaterThan(prev.PricePerKg) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					"price_per_kg must not increase with quantity")
			}
		}
		rows = append(rows, models.ProductPriceTier{
			ProductID:     productID,
			MinQuantityKg: tier.MinQuantityKg,
			MaxQuantityKg: tier.MaxQuantityKg,
			PricePerKg:    tier.PricePerKg,
			Position:      i,
		})
		prev = &sorted[i]
	}
	return rows, nil
}

// buildTemplateTierRows validates template tiers and assigns dense positions
// by ascending min_quantity_kg.
func buildTemplateTierRows(inputs []TemplateTierInput) ([]models.TemplateTier, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	if len(inputs) > maxTiersPerSchedule {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d tiers are allowed", maxTiersPerSchedule))
	}

	sorted := make([]TemplateTierInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantityKg.LessThan(sorted[j].MinQuantityKg)
	})

	rows := make([]models.TemplateTier, 0, len(sorted))
	var prev *TemplateTierInput
	for i := range sorted {
		tier := sorted[i]
		if tier.MinQuantityKg.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_quantity_kg cannot be negative")
		}
		if tier.DiscountPercent.IsNegative() || tier.DiscountPercent.GreaterThan(decimalHundred) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
		}
		if tier.MaxQuantityKg != nil && tier.MaxQuantityKg.LessThan(tier.MinQuantityKg) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_quantity_kg cannot be below min_quantity_kg")
		}
		if prev != nil {
			if tier.MinQuantityKg.Equal(prev.MinQuantityKg) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier min_quantity_kg")
			}
			if tier.DiscountPercent.LessThan(prev.DiscountPercent) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					"discount_percent must not decrease with quantity")
			}
		}
		rows = append(rows, models.TemplateTier{
			MinQuantityKg:   tier.MinQuantityKg,
			MaxQuantityKg:   tier.MaxQuantityKg,
			DiscountPercent: tier.DiscountPercent,
			Position:        i,
		})
		prev = &sorted[i]
	}
	return rows, nil
}
