package database

import (
	"fmt"

	"itam-backend/internal/models"

	"gorm.io/gorm"
)

// AppendUpdateLog writes an audit entry on tx. The caller owns the transaction,
// so a failed append rolls back the mutation it describes.
func AppendUpdateLog(tx *gorm.DB, entry *models.UpdateLog) error {
	if entry.Actor == "" {
		entry.Actor = "system"
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("append update log: %w", err)
	}
	return nil
}

// LocationNames resolves school and area names for an audit entry.
func LocationNames(tx *gorm.DB, schoolID uint) (school, area string) {
	school, area = models.UnknownSchool, models.UnknownArea

	var s models.School
	if err := tx.Preload("Area").Limit(1).Find(&s, schoolID).Error; err != nil || s.ID == 0 {
		return
	}
	school = s.Name
	if s.Area != nil {
		area = s.Area.Name
	}
	return
}
