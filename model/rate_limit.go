package model

import "time"

// RateLimitConfig is the persisted limit for one endpoint type. Counters live
// in Redis; only the configuration is stored here.
type RateLimitConfig struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text;not null"`
	EndpointType string    `json:"endpoint_type" gorm:"uniqueIndex;not null;size:50"`
	Limit        int       `json:"limit" gorm:"not null"`
	WindowSize   int       `json:"window_size" gorm:"not null"` // seconds
	BlockTime    int       `json:"block_time" gorm:"not null"`  // seconds
	Description  string    `json:"description" gorm:"type:text"`
	IsActive     bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`
}
