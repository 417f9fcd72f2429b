package model

import "time"

// Scenario is an arena prompt generated for a user. Results reference it so
// a submission is always evaluated against the text the server handed out.
type Scenario struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"not null;index;type:text"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Focus     string    `json:"focus" gorm:"size:32"`
	Offline   bool      `json:"offline" gorm:"default:false;not null"`
	Submitted bool      `json:"submitted" gorm:"default:false;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// ScenarioResult is append-only: one row per submitted attempt.
type ScenarioResult struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID     string    `json:"user_id" gorm:"not null;index:idx_results_user_created;type:text"`
	ScenarioID *string   `json:"scenario_id,omitempty" gorm:"type:text;index"`
	Outcome    string    `json:"outcome" gorm:"type:text"`
	XPEarned   int       `json:"xp_earned" gorm:"default:0;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;index:idx_results_user_created"`
}
