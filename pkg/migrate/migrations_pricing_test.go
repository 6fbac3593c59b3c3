package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teravoo/teravoo-backend/pkg/migrate"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestPricingMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_products_and_price_tiers.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no pricing migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE product_price_tiers",
		"CHECK (min_quantity_kg >= 0)",
		"CHECK (max_quantity_kg IS NULL OR max_quantity_kg >= min_quantity_kg)",
		"CHECK (price_per_kg > 0)",
		"CREATE TABLE price_tier_histories",
		"tiers_snapshot jsonb",
		"DROP TABLE IF EXISTS price_tier_histories",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	// a zero minimum is a valid floor tier, the schema must not reject it
	if strings.Contains(content, "min_quantity_kg > 0") {
		t.Error("min_quantity_kg must allow zero")
	}
}

func TestTemplateMigrationEnforcesSingleDefault(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_price_tier_templates.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no template migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "idx_price_tier_templates_default") {
		t.Error("missing partial unique index on default templates")
	}
	if !strings.Contains(content, "WHERE is_default") {
		t.Error("default index is not partial")
	}
	if strings.Contains(content, "min_quantity_kg > 0") {
		t.Error("min_quantity_kg must allow zero")
	}
}
