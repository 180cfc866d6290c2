package models

import "time"

const (
	RecordTypeMilk = "Milk"
	RecordTypeBill = "Bill"
	RecordTypeRent = "Rent"
)

func IsValidRecordType(t string) bool {
	switch t {
	case RecordTypeMilk, RecordTypeBill, RecordTypeRent:
		return true
	}
	return false
}

type Record struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Type string `gorm:"size:20;not null" json:"type"`

	OwnerID string `gorm:"size:36;index;not null" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
