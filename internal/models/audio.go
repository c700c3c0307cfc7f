package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AudioStatus enumerates media record states.
type AudioStatus string

const (
	AudioActive   AudioStatus = "active"
	AudioInactive AudioStatus = "inactive"
)

// StringList stores a list of filenames serialized as a JSON array in a
// text column. Only generated filenames land here, never raw bytes.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("marshal filename list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported filename list source %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// AudioAsset is a media record owned by a user, carrying one or more stored
// filenames.
type AudioAsset struct {
	ID          int64       `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description,omitempty"`
	OwnerID     int64       `db:"owner_id" json:"owner_id"`
	Category    *string     `db:"category" json:"category,omitempty"`
	Duration    *string     `db:"duration" json:"duration,omitempty"`
	Status      AudioStatus `db:"status" json:"status"`
	Filenames   StringList  `db:"filenames" json:"filenames"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

func ValidAudioStatus(s AudioStatus) bool {
	return s == AudioActive || s == AudioInactive
}
