package pricing

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
)

func mustCreateTestProducer(t *testing.T, tx *gorm.DB) *models.ProducerProfile {
	t.Helper()
	producer := &models.ProducerProfile{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Test Producer %s", uuid.NewString()[:8]),
	}
	if err := tx.Create(producer).Error; err != nil {
		t.Fatalf("create producer: %v", err)
	}
	return producer
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, producerID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		ProducerID:  &producerID,
		Name:        "Vanilla Beans Grade A",
		Grade:       enums.ProductGradeA,
		Status:      enums.ProductStatusPublished,
		QuantityKg:  dec("500"),
		PriceFOB:    dec("250"),
		MOQKg:       dec("1"),
		PricingMode: enums.PricingModeSingle,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestTemplate(t *testing.T, tx *gorm.DB, producerID uuid.UUID, isDefault bool) *models.PriceTierTemplate {
	t.Helper()
	template := &models.PriceTierTemplate{
		ProducerID: producerID,
		Name:       fmt.Sprintf("Export Schedule %s", uuid.NewString()[:8]),
		IsDefault:  isDefault,
		Tiers: []models.TemplateTier{
			{MinQuantityKg: dec("1"), MaxQuantityKg: decPtr("50"), DiscountPercent: dec("0"), Position: 0},
			{MinQuantityKg: dec("50"), DiscountPercent: dec("10"), Position: 1},
		},
	}
	if err := tx.Create(template).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}
	return template
}
