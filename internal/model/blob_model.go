package model

import (
	"time"

	"gorm.io/datatypes"
)

// KeyValueBlob holds one JSON document per key (the note collection, the calendar token).
type KeyValueBlob struct {
	Key       string         `gorm:"column:blob_key;type:varchar(128);primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (KeyValueBlob) TableName() string {
	return "key_value_blobs"
}
