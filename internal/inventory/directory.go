package inventory

import (
	"context"
	"fmt"

	"itam-backend/internal/models"

	"gorm.io/gorm"
)

// Directory is the read-only area/school catalogue.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) ListAreas(ctx context.Context) ([]models.Area, error) {
	areas := []models.Area{}
	if err := d.db.WithContext(ctx).Order("id").Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

func (d *Directory) GetArea(ctx context.Context, id uint) (*models.Area, error) {
	var a models.Area
	if err := d.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err, "area")
	}
	return &a, nil
}

func (d *Directory) ListSchools(ctx context.Context, areaID uint) ([]models.School, error) {
	if _, err := d.GetArea(ctx, areaID); err != nil {
		return nil, err
	}
	schools := []models.School{}
	if err := d.db.WithContext(ctx).Where("area_id = ?", areaID).Order("name").Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

func (d *Directory) GetSchool(ctx context.Context, id uint) (*models.School, error) {
	var s models.School
	if err := d.db.WithContext(ctx).Preload("Area").First(&s, id).Error; err != nil {
		return nil, notFound(err, "school")
	}
	return &s, nil
}
