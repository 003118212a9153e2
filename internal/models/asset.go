package models

import "time"

type AssetStatus string

const (
	StatusWorking        AssetStatus = "Berfungsi"
	StatusConstrained    AssetStatus = "Terkendala"
	StatusInRepair       AssetStatus = "Perbaikan"
	StatusBroken         AssetStatus = "Rusak"
	StatusDecommissioned AssetStatus = "Dihapuskan"
)

type Placement string

const (
	PlacementIndoor  Placement = "Indoor"
	PlacementOutdoor Placement = "Outdoor"
)

type Asset struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Barcode string `gorm:"size:100;uniqueIndex;not null" json:"barcode" validate:"required,max=100"`

	SchoolID uint    `gorm:"not null;index" json:"school_id" validate:"required"`
	School   *School `json:"school,omitempty" validate:"-"`

	// кодировка, из которой собирается штрихкод
	CityCode         string `gorm:"size:2;not null" json:"city_code" validate:"required,max=2"`
	TypeCode         string `gorm:"size:2;not null;index" json:"type_code" validate:"required,max=2"`
	CategoryCode     string `gorm:"size:50;index" json:"category_code" validate:"max=50"`
	SubcategoryCode  string `gorm:"size:50" json:"subcategory_code" validate:"max=50"`
	ProcurementMonth string `gorm:"size:2;not null" json:"procurement_month" validate:"required,len=2,numeric"`
	ProcurementYear  string `gorm:"size:2;not null" json:"procurement_year" validate:"required,len=2,numeric"`
	Floor            string `gorm:"size:3;not null" json:"floor" validate:"required,max=3"`
	SequenceNumber   string `gorm:"size:3;not null" json:"sequence_number" validate:"required,max=3"`

	Placement   Placement `gorm:"size:10" json:"placement,omitempty" validate:"omitempty,oneof=Indoor Outdoor"`
	Brand       string    `gorm:"size:100" json:"brand"`
	Room        string    `gorm:"size:100" json:"room"`
	ModelSeries string    `gorm:"size:150" json:"model_series"`

	IPAddress  *string `gorm:"size:15;index" json:"ip_address" validate:"omitempty,ipaddr"`
	MACAddress *string `gorm:"size:17;uniqueIndex" json:"mac_address" validate:"omitempty,macaddr"`

	SerialNumber string `gorm:"size:100;index;not null" json:"serial_number" validate:"required,max=100"`
	RAM          string `gorm:"size:50" json:"ram"`
	Processor    string `gorm:"size:100" json:"processor"`
	GPU          string `gorm:"size:100" json:"gpu"`
	Storage      string `gorm:"size:100" json:"storage"`
	OS           string `gorm:"size:100" json:"os"`

	ConnectTo string `gorm:"size:100" json:"connect_to"`
	Channel   string `gorm:"size:50" json:"channel"`

	// хранится как есть, в открытом виде
	Username   string `gorm:"size:100" json:"username"`
	Password   string `gorm:"size:255" json:"password"`
	AssignedTo string `gorm:"size:150" json:"assigned_to"`

	Status AssetStatus `gorm:"size:20;not null;default:Berfungsi;index" json:"status" validate:"required,oneof=Berfungsi Terkendala Perbaikan Rusak Dihapuskan"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label is the human readable name stored in update logs.
func (a Asset) Label() string {
	return a.Brand + " - " + a.ModelSeries
}
