package models

import "time"

// IdentifierSequence is a named counter backing human-readable identifiers such
// as purchase order numbers and vendor codes.
type IdentifierSequence struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     int64     `gorm:"column:value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
