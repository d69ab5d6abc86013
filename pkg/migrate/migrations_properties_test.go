package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPropertiesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_properties.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no properties migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS properties",
		"price NUMERIC(18,2) NOT NULL",
		"CHECK (listing_type IN ('sale', 'rent'))",
		"CHECK (status IN ('available', 'sold', 'rented'))",
		"project_id UUID REFERENCES projects(id) ON DELETE SET NULL",
		"DROP TABLE IF EXISTS properties",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMembershipMigrationsUseCompositeKeys(t *testing.T) {
	cases := []struct {
		glob  string
		table string
	}{
		{"*_create_amenities.sql", "PRIMARY KEY (property_id, amenity_id)"},
		{"*_create_sellers.sql", "PRIMARY KEY (property_id, seller_id)"},
	}

	for _, tc := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", tc.glob))
		if err != nil {
			t.Fatalf("glob %s: %v", tc.glob, err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration matched %s", tc.glob)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read %s: %v", matches[0], err)
		}
		if !strings.Contains(string(data), tc.table) {
			t.Errorf("%s missing %q", matches[0], tc.table)
		}
	}
}

func TestPublishedPostsMigrationKeepsAuditColumns(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_fb_published_posts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no published posts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"result_post_id TEXT",
		"error_message TEXT",
		"CHECK (status IN ('pending', 'success', 'failed'))",
		"FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
