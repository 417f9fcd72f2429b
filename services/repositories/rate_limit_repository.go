package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/mindforge/forge_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	EndpointOnboarding    = "onboarding"
	EndpointArenaStart    = "arena_start"
	EndpointArenaSubmit   = "arena_submit"
	EndpointProfileUpdate = "profile_update"
	EndpointHistoryExport = "history_export"
	EndpointAPIGeneral    = "api_general"
)

var defaultRateLimits = []model.RateLimitConfig{
	{EndpointType: EndpointOnboarding, Limit: 20, WindowSize: 3600, BlockTime: 900, Description: "Oracle-backed onboarding requests"},
	{EndpointType: EndpointArenaStart, Limit: 10, WindowSize: 3600, BlockTime: 1800, Description: "Arena scenario generation"},
	{EndpointType: EndpointArenaSubmit, Limit: 10, WindowSize: 3600, BlockTime: 1800, Description: "Arena submission evaluation"},
	{EndpointType: EndpointProfileUpdate, Limit: 30, WindowSize: 3600, BlockTime: 600, Description: "Profile updates"},
	{EndpointType: EndpointHistoryExport, Limit: 3, WindowSize: 3600, BlockTime: 3600, Description: "History export archives"},
	{EndpointType: EndpointAPIGeneral, Limit: 1000, WindowSize: 3600, BlockTime: 3600, Description: "General API rate limit per IP"},
}

type RateLimitRepository struct {
	BaseRepository
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// SeedDefaults inserts the built-in limits, leaving rows an operator already
// tuned untouched.
func (r *RateLimitRepository) SeedDefaults() error {
	now := time.Now()
	for _, cfg := range defaultRateLimits {
		id, _ := uuid.NewV7()
		cfg.ID = id.String()
		cfg.IsActive = true
		cfg.CreatedAt = now
		cfg.UpdatedAt = now

		err := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint_type"}},
			DoNothing: true,
		}).Create(&cfg).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *RateLimitRepository) GetActiveConfigs() ([]model.RateLimitConfig, error) {
	var configs []model.RateLimitConfig
	err := r.db.Where("is_active = ?", true).Find(&configs).Error
	return configs, err
}
