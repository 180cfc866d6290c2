package models

import "time"

const (
	MilkStatusBought = "Bought"
	MilkStatusLeave  = "Leave"
)

type MilkEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecordID uint   `gorm:"index;not null" json:"record_id"`
	Record   Record `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Date           time.Time `json:"date"`
	QuantityLiters float64   `json:"quantity_liters"`
	// Snapshot of the owner's rate at creation time, not a live reference.
	RatePerLiter float64 `json:"rate_per_liter"`
	Status       string  `gorm:"size:20;default:'Bought'" json:"status"`
	TotalCost    float64 `json:"total_cost"`

	AdminID string `gorm:"size:36;index;not null" json:"admin_id"`

	CreatedAt time.Time `json:"created_at"`
}

type BillEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecordID uint   `gorm:"index;not null" json:"record_id"`
	Record   Record `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Month           string  `gorm:"size:7;not null" json:"month"`
	Amount          float64 `json:"amount"`
	ReferenceNumber string  `gorm:"size:100;not null" json:"reference_number"`
	FilePath        string  `gorm:"size:255" json:"file_path,omitempty"`

	AdminID string `gorm:"size:36;index;not null" json:"admin_id"`

	CreatedAt time.Time `json:"created_at"`
}

type RentEntry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecordID uint   `gorm:"index;not null" json:"record_id"`
	Record   Record `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Month  string  `gorm:"size:7;not null" json:"month"`
	Amount float64 `json:"amount"`

	AdminID string `gorm:"size:36;index;not null" json:"admin_id"`

	CreatedAt time.Time `json:"created_at"`
}
