package sku

import (
	"time"

	"gorm.io/datatypes"
)

// BlobEntry is one named slot of the durable key/value store when it is backed by SQL.
type BlobEntry struct {
	Key       string         `gorm:"column:slot;primaryKey;size:191" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BlobEntry) TableName() string { return "blob_entries" }
