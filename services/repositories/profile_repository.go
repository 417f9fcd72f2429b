package repositories

import (
	"context"
	"time"

	"github.com/mindforge/forge_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	BaseRepository
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.conn(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateProfile inserts the profile unless one already exists and returns
// whichever row is stored afterwards.
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	err := r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, profile.ID)
}

// UpdateProfile writes next over the row only if it still carries base's
// version, and bumps the version.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, base, next model.Profile) (model.Profile, error) {
	now := time.Now()
	next.Version = base.Version + 1
	next.UpdatedAt = now

	result := r.conn(ctx).Model(&model.Profile{}).
		Where("id = ? AND version = ?", base.ID, base.Version).
		Updates(map[string]interface{}{
			"email":                 next.Email,
			"full_name":             next.FullName,
			"xp":                    next.XP,
			"level":                 next.Level,
			"streak":                next.Streak,
			"energy":                next.Energy,
			"energy_last_replenish": next.EnergyLastReplenish,
			"stats_logic":           next.StatsLogic,
			"stats_flexibility":     next.StatsFlexibility,
			"stats_ethics":          next.StatsEthics,
			"onboarding_completed":  next.OnboardingCompleted,
			"onboarding_step":       next.OnboardingStep,
			"onboarding_questions":  next.OnboardingQuestions,
			"onboarding_answers":    next.OnboardingAnswers,
			"last_arena_score":      next.LastArenaScore,
			"last_seen":             next.LastSeen,
			"version":               next.Version,
			"updated_at":            now,
		})
	if result.Error != nil {
		return model.Profile{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.Profile{}, ErrVersionConflict
	}
	return next, nil
}

func (r *ProfileRepository) TopByXP(ctx context.Context, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.conn(ctx).
		Order("xp DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) GetProfilesByIDs(ctx context.Context, ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []model.Profile
	err := r.conn(ctx).Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

// RankOf is one plus the number of profiles with strictly more xp.
func (r *ProfileRepository) RankOf(ctx context.Context, xp int) (int, error) {
	var count int64
	if err := r.conn(ctx).Model(&model.Profile{}).Where("xp > ?", xp).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

func (r *ProfileRepository) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&model.Profile{}).Count(&count).Error
	return count, err
}
