// Package dbtest provides an in-memory SQLite database with the production schema.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"itam-backend/internal/database"
	"itam-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a fresh migrated database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a minimal directory: one area with two schools.
type Fixture struct {
	Area    models.Area
	School  models.School
	School2 models.School
}

func Seed(t testing.TB, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{Area: models.Area{Name: "Barat", Slug: "barat"}}
	if err := db.Create(&f.Area).Error; err != nil {
		t.Fatalf("create area: %v", err)
	}
	f.School = models.School{Name: "SMAK 1 - Tanjung Duren", AreaID: f.Area.ID}
	f.School2 = models.School{Name: "SDK 11 - Sunrise Garden", AreaID: f.Area.ID}
	if err := db.Create(&f.School).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	if err := db.Create(&f.School2).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}
	return f
}
