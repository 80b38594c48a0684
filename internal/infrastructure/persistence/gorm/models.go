// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// KeyValueModel is one row of the key-value table. The saved recipe log
// is a single row whose value holds the whole JSON document.
type KeyValueModel struct {
	Key       string `gorm:"type:varchar(255);primaryKey"`
	Value     []byte `gorm:"not null"`
	Version   int64  `gorm:"default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// TableName specifies the table name for KeyValueModel
func (KeyValueModel) TableName() string {
	return "key_values"
}

// BeforeSave hook for KeyValueModel
func (m *KeyValueModel) BeforeSave(tx *gorm.DB) error {
	if m.Value == nil {
		m.Value = []byte{}
	}
	return nil
}

// Models lists every model AutoMigrate must create
func Models() []interface{} {
	return []interface{}{
		&KeyValueModel{},
	}
}

// ParseLogLevel maps a config string onto a GORM logger level
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
