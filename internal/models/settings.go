package models

import "time"

// Settings holds per-admin preferences, one row per user.
type Settings struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`

	MilkRatePerLiter float64 `json:"milk_rate_per_liter"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
