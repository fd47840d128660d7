package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Log levels accepted by the event log.
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// IsValidLogLevel reports whether level is one of the accepted levels.
func IsValidLogLevel(level string) bool {
	return level == LogLevelInfo || level == LogLevelWarn || level == LogLevelError
}

// LogMeta is free-form structured context attached to a log entry.
type LogMeta map[string]any

// Value implements driver.Valuer.
func (m LogMeta) Value() (driver.Value, error) {
	if m == nil {
		m = LogMeta{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *LogMeta) Scan(value any) error {
	if value == nil {
		*m = LogMeta{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for LogMeta")
	}
}

// LogEntry is an admin-visible application event persisted to the database,
// independent of the process logger.
type LogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"not null;index" json:"level"`
	Message   string    `gorm:"not null" json:"message"`
	Meta      LogMeta   `gorm:"type:jsonb" json:"meta"`
	UserID    *uint     `gorm:"index" json:"userId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
