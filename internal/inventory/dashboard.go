package inventory

import (
	"context"
	"fmt"

	"itam-backend/internal/models"

	"gorm.io/gorm"
)

const hardwareTypeCode = "HW"

var attentionStatuses = []models.AssetStatus{
	models.StatusBroken,
	models.StatusInRepair,
	models.StatusConstrained,
}

type Stats struct {
	TotalAssets   int64            `json:"total_assets"`
	TotalHardware int64            `json:"total_hardware"`
	NeedAttention int64            `json:"need_attention"`
	ChartData     map[string]int64 `json:"chart_data"`
	RecentAssets  []models.Asset   `json:"recent_assets"`
}

type Dashboard struct {
	db *gorm.DB
}

func NewDashboard(db *gorm.DB) *Dashboard {
	return &Dashboard{db: db}
}

// Stats summarises the inventory. chart_data counts assets per procurement
// month and always carries all twelve months.
func (d *Dashboard) Stats(ctx context.Context) (*Stats, error) {
	db := d.db.WithContext(ctx)
	st := &Stats{ChartData: make(map[string]int64, 12)}

	if err := db.Model(&models.Asset{}).Count(&st.TotalAssets).Error; err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}
	if err := db.Model(&models.Asset{}).Where("type_code = ?", hardwareTypeCode).Count(&st.TotalHardware).Error; err != nil {
		return nil, fmt.Errorf("count hardware: %w", err)
	}
	if err := db.Model(&models.Asset{}).Where("status IN ?", attentionStatuses).Count(&st.NeedAttention).Error; err != nil {
		return nil, fmt.Errorf("count attention: %w", err)
	}

	for m := 1; m <= 12; m++ {
		st.ChartData[fmt.Sprintf("%02d", m)] = 0
	}
	var months []struct {
		Month string
		Total int64
	}
	err := db.Model(&models.Asset{}).
		Select("procurement_month AS month, COUNT(*) AS total").
		Group("procurement_month").
		Scan(&months).Error
	if err != nil {
		return nil, fmt.Errorf("group by month: %w", err)
	}
	for _, m := range months {
		if _, ok := st.ChartData[m.Month]; ok {
			st.ChartData[m.Month] = m.Total
		}
	}

	st.RecentAssets = []models.Asset{}
	if err := db.Preload("School.Area").Order("created_at DESC, id DESC").Limit(5).Find(&st.RecentAssets).Error; err != nil {
		return nil, fmt.Errorf("recent assets: %w", err)
	}
	return st, nil
}
