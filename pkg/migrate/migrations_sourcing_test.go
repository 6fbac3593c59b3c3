package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSourcingMigrationEnforcesOneOfferPerProducer(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_sourcing.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no sourcing migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "CREATE UNIQUE INDEX idx_sourcing_offers_request_producer") {
		t.Error("missing unique index on (request_id, producer_id)")
	}
	if !strings.Contains(content, "ON sourcing_offers (request_id, producer_id)") {
		t.Error("unique index does not cover request_id and producer_id")
	}
}
