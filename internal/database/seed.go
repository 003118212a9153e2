package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"itam-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed.yaml
var DefaultSeed []byte

type seedFile struct {
	Areas []struct {
		Name    string   `yaml:"name"`
		Slug    string   `yaml:"slug"`
		Schools []string `yaml:"schools"`
	} `yaml:"areas"`
}

func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// Seed loads the area/school directory. Existing rows are left alone.
func Seed(ctx context.Context, db *gorm.DB, data []byte) error {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range f.Areas {
			slug := a.Slug
			if slug == "" {
				slug = Slugify(a.Name)
			}

			area := models.Area{Name: a.Name, Slug: slug}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&area).Error; err != nil {
				return fmt.Errorf("seed area %s: %w", a.Name, err)
			}
			if err := tx.Where("name = ?", a.Name).First(&area).Error; err != nil {
				return fmt.Errorf("load area %s: %w", a.Name, err)
			}

			added := 0
			for _, name := range a.Schools {
				var school models.School
				res := tx.Where(models.School{Name: name, AreaID: area.ID}).FirstOrCreate(&school)
				if res.Error != nil {
					return fmt.Errorf("seed school %s: %w", name, res.Error)
				}
				if res.RowsAffected > 0 {
					added++
				}
			}
			log.Debug().Str("area", area.Name).Int("schools_added", added).Msg("seeded area")
		}
		return nil
	})
}
