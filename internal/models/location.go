package models

type Area struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Schools []School `json:"schools,omitempty"`
}

type School struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255;index;not null" json:"name"`
	Address string `gorm:"size:500" json:"address,omitempty"`

	AreaID uint  `gorm:"not null;index" json:"area_id"`
	Area   *Area `json:"area,omitempty"`
}
