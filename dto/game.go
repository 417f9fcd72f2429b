package dto

import (
	"time"

	"github.com/mindforge/forge_api/gameplay"
)

type StreakResponse struct {
	Streak    int  `json:"streak"`
	Celebrate bool `json:"celebrate"`
}

type EnergyResponse struct {
	Success      bool       `json:"success"`
	Energy       int        `json:"energy"`
	MaxEnergy    int        `json:"max_energy"`
	NextEnergyAt *time.Time `json:"next_energy_at,omitempty"`
	Message      string     `json:"message,omitempty"`
}

type SaveResultRequest struct {
	ScenarioID *string                `json:"scenario_id" validate:"omitempty,uuid"`
	Outcome    map[string]interface{} `json:"outcome" validate:"required"`
	XPEarned   int                    `json:"xp_earned" validate:"min=0,max=200"`
	StatDeltas *gameplay.Stats        `json:"stat_deltas"` // gains, each clamped to [0,5]
}

type ScenarioResultResponse struct {
	ID         string      `json:"id"`
	ScenarioID *string     `json:"scenario_id,omitempty"`
	Outcome    interface{} `json:"outcome"`
	XPEarned   int         `json:"xp_earned"`
	CreatedAt  time.Time   `json:"created_at"`
}

type SaveResultResponse struct {
	Result    ScenarioResultResponse `json:"result"`
	XP        int                    `json:"xp"`
	Level     int                    `json:"level"`
	LeveledUp bool                   `json:"leveled_up"`
	Stats     gameplay.Stats         `json:"stats"`
}

type HistoryResponse struct {
	Results []ScenarioResultResponse `json:"results"`
	Total   int                      `json:"total"`
}

type DayActivity struct {
	Day    string `json:"day"`
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

type WeeklyActivityResponse struct {
	WeekStart  time.Time     `json:"week_start"`
	Days       []DayActivity `json:"days"`
	ActiveDays int           `json:"active_days"`
}

type ExportResponse struct {
	URL        string    `json:"url"`
	ObjectName string    `json:"object_name"`
	ExpiresAt  time.Time `json:"expires_at"`
	Results    int       `json:"results"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Streak   int    `json:"streak"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Me      *LeaderboardEntry  `json:"me,omitempty"`
}

func (r *SaveResultRequest) Validate() error {
	return Validate(r)
}
