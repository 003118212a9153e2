package models

import "time"

const (
	DefaultServiceVendor = "GROTECH"
	DefaultServiceStatus = "Progress"
)

// ServiceHistory points at an asset by barcode or serial number only.
// The reference is never enforced and may dangle after the asset is removed.
type ServiceHistory struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TicketNo       string     `gorm:"size:50;index" json:"ticket_no"`
	ServiceDate    *time.Time `gorm:"type:date" json:"service_date"`
	AssetName      string     `gorm:"size:255" json:"asset_name"`
	SNOrBarcode    string     `gorm:"column:sn_or_barcode;size:100;index;not null" json:"sn_or_barcode" validate:"required,max=100"`
	UnitName       string     `gorm:"size:255" json:"unit_name"`
	Owner          string     `gorm:"size:150" json:"owner"`
	ProductionYear string     `gorm:"size:4" json:"production_year" validate:"omitempty,max=4"`

	IssueDescription string `gorm:"size:30;not null" json:"issue_description" validate:"required,max=30"`
	Vendor           string `gorm:"size:100;not null" json:"vendor" validate:"required,max=100"`
	Status           string `gorm:"size:30;not null" json:"status" validate:"required,max=30"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
