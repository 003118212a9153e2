package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionCreate        = "CREATE"
	ActionUpdate        = "UPDATE"
	ActionDelete        = "DELETE"
	ActionImport        = "IMPORT"
	ActionServiceCreate = "SERVICE CREATE"
	ActionServiceUpdate = "SERVICE UPDATE"
)

// UpdateLog is append-only. School and area names are copied at write time.
type UpdateLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssetBarcode string            `gorm:"size:100;index" json:"asset_barcode"`
	AssetName    string            `gorm:"size:255" json:"asset_name"`
	Action       string            `gorm:"size:30;not null;index" json:"action"`
	Details      string            `gorm:"type:text" json:"details"`
	Actor        string            `gorm:"size:255;not null" json:"actor"`
	SchoolName   string            `gorm:"size:255" json:"school_name"`
	AreaName     string            `gorm:"size:100" json:"area_name"`
	Changes      datatypes.JSONMap `json:"changes,omitempty"`
	CreatedAt    time.Time         `gorm:"index" json:"created_at"`
}

const (
	UnknownSchool = "Unknown School"
	UnknownArea   = "Unknown Area"
)
