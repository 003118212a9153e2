package inventory

import (
	"context"
	"fmt"
	"strings"

	"itam-backend/internal/models"

	"gorm.io/gorm"
)

var logSort = sortSpec{
	columns: map[string]string{
		"created_at":    "created_at",
		"action":        "action",
		"actor":         "actor",
		"asset_barcode": "asset_barcode",
	},
	fallback: "created_at",
}

// LogStore reads the audit trail. Entries are only ever written through
// database.AppendUpdateLog inside the mutation they describe.
type LogStore struct {
	db *gorm.DB
}

func NewLogStore(db *gorm.DB) *LogStore {
	return &LogStore{db: db}
}

type LogFilter struct {
	Search string
	Action string
	PageRequest
}

func (s *LogStore) List(ctx context.Context, f LogFilter) (Page[models.UpdateLog], error) {
	p := f.PageRequest.normalized()

	filter := func(db *gorm.DB) *gorm.DB {
		if f.Action != "" {
			db = db.Where("action = ?", strings.ToUpper(strings.TrimSpace(f.Action)))
		}
		if strings.TrimSpace(f.Search) != "" {
			clause, args := searchClause(f.Search, "asset_barcode", "asset_name", "actor")
			db = db.Where(clause, args...)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.UpdateLog{}).Scopes(filter).Count(&total).Error; err != nil {
		return Page[models.UpdateLog]{}, fmt.Errorf("count logs: %w", err)
	}

	items := make([]models.UpdateLog, 0, p.Size)
	err := s.db.WithContext(ctx).
		Scopes(filter).
		Order(logSort.order(p.SortBy, p.SortOrder)).
		Offset(p.offset()).
		Limit(p.Size).
		Find(&items).Error
	if err != nil {
		return Page[models.UpdateLog]{}, fmt.Errorf("list logs: %w", err)
	}
	return Page[models.UpdateLog]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}
