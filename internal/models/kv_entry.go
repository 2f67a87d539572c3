package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry stores one JSON value of the flat key/value layout.
type KVEntry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;size:128"`
	Value     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}

// TableName pins the table used for key/value rows.
func (KVEntry) TableName() string {
	return "kv_entries"
}
