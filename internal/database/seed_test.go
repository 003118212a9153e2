package database_test

import (
	"context"
	"testing"

	"itam-backend/internal/database"
	"itam-backend/internal/database/dbtest"
	"itam-backend/internal/models"

	"github.com/go-playground/assert/v2"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	assert.Equal(t, database.Seed(ctx, db, database.DefaultSeed), nil)
	assert.Equal(t, database.Seed(ctx, db, database.DefaultSeed), nil)

	var areas, schools int64
	db.Model(&models.Area{}).Count(&areas)
	db.Model(&models.School{}).Count(&schools)
	assert.Equal(t, areas, int64(9))
	assert.Equal(t, schools, int64(79))

	var pusat models.Area
	assert.Equal(t, db.Where("slug = ?", "pusat").First(&pusat).Error, nil)
	assert.Equal(t, pusat.Name, "Pusat")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, database.Slugify("Jakarta Barat"), "jakarta-barat")
	assert.Equal(t, database.Slugify(" Pusat "), "pusat")
}

func TestEnsureAdmin(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	assert.Equal(t, database.EnsureAdmin(ctx, db, "admin@bpkpenabur.id", "secret123", "Super Admin IT"), nil)
	assert.Equal(t, database.EnsureAdmin(ctx, db, "other@bpkpenabur.id", "secret123", "Other"), nil)

	var admins []models.User
	db.Where("role = ?", models.RoleAdmin).Find(&admins)
	assert.Equal(t, len(admins), 1)
	assert.Equal(t, admins[0].Email, "admin@bpkpenabur.id")
	assert.Equal(t, admins[0].DisplayName(), "Super Admin IT")
}

func TestCreateUserDuplicate(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	_, err := database.CreateUser(ctx, db, "Op@bpkpenabur.id", "secret123", "", models.RoleOperator)
	assert.Equal(t, err, nil)
	_, err = database.CreateUser(ctx, db, "op@bpkpenabur.id", "secret123", "", models.RoleOperator)
	assert.Equal(t, err, database.ErrUserExists)
}

func TestAppendUpdateLogDefaultsActor(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)

	school, area := database.LocationNames(db, f.School.ID)
	entry := models.UpdateLog{AssetBarcode: "01-A01-HW-LTP-001", Action: models.ActionCreate, SchoolName: school, AreaName: area}
	assert.Equal(t, database.AppendUpdateLog(db, &entry), nil)
	assert.Equal(t, entry.Actor, "system")
	assert.Equal(t, entry.SchoolName, "SMAK 1 - Tanjung Duren")
	assert.Equal(t, entry.AreaName, "Barat")

	school, area = database.LocationNames(db, 9999)
	assert.Equal(t, school, models.UnknownSchool)
	assert.Equal(t, area, models.UnknownArea)
}
