package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mindforge/forge_api/model"
	"gorm.io/gorm"
)

type ScenarioRepository struct {
	BaseRepository
}

func NewScenarioRepository(db *gorm.DB) *ScenarioRepository {
	return &ScenarioRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *ScenarioRepository) CreateScenario(ctx context.Context, scenario *model.Scenario) (*model.Scenario, error) {
	if scenario.ID == "" {
		id, _ := uuid.NewV7()
		scenario.ID = id.String()
	}
	if scenario.CreatedAt.IsZero() {
		scenario.CreatedAt = time.Now()
	}
	if err := r.conn(ctx).Create(scenario).Error; err != nil {
		return nil, err
	}
	return scenario, nil
}

func (r *ScenarioRepository) GetScenario(ctx context.Context, id string) (*model.Scenario, error) {
	var scenario model.Scenario
	if err := r.conn(ctx).Where("id = ?", id).First(&scenario).Error; err != nil {
		return nil, err
	}
	return &scenario, nil
}

// ClaimScenario marks an unsubmitted scenario as submitted. It reports false
// when the scenario was already claimed.
func (r *ScenarioRepository) ClaimScenario(ctx context.Context, id, userID string) (bool, error) {
	result := r.conn(ctx).Model(&model.Scenario{}).
		Where("id = ? AND user_id = ? AND submitted = ?", id, userID, false).
		Update("submitted", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ScenarioRepository) ReleaseScenario(ctx context.Context, id string) error {
	return r.conn(ctx).Model(&model.Scenario{}).Where("id = ?", id).Update("submitted", false).Error
}

func (r *ScenarioRepository) DeleteStaleScenarios(before time.Time) (int64, error) {
	result := r.db.Where("submitted = ? AND created_at < ?", false, before).Delete(&model.Scenario{})
	return result.RowsAffected, result.Error
}

func (r *ScenarioRepository) CreateResult(ctx context.Context, result *model.ScenarioResult) (*model.ScenarioResult, error) {
	if result.ID == "" {
		id, _ := uuid.NewV7()
		result.ID = id.String()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	if err := r.conn(ctx).Create(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// GetResultsByUser returns the newest results first. A limit of zero or less
// returns everything.
func (r *ScenarioRepository) GetResultsByUser(ctx context.Context, userID string, limit int) ([]model.ScenarioResult, error) {
	var results []model.ScenarioResult
	q := r.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&results).Error
	return results, err
}

func (r *ScenarioRepository) GetResultsSince(ctx context.Context, userID string, since time.Time) ([]model.ScenarioResult, error) {
	var results []model.ScenarioResult
	err := r.conn(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&results).Error
	return results, err
}
