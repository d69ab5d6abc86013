// Package dbtest opens throwaway in-memory databases for repository tests.
package dbtest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/db/models"
)

// Open returns a client backed by a fresh in-memory sqlite database with the
// full schema migrated. The database lives until the test ends.
func Open(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// a single in-memory connection; a second one would see an empty schema
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(
		&models.Project{},
		&models.Property{},
		&models.Amenity{},
		&models.PropertyAmenity{},
		&models.Seller{},
		&models.PropertySeller{},
		&models.PropertyImage{},
		&models.PropertyVideo{},
		&models.FbGroup{},
		&models.FbPublishedPost{},
		&models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	return db.FromGorm(conn)
}
