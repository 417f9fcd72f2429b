package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/model"
	"github.com/mindforge/forge_api/oracle"
	"github.com/mindforge/forge_api/services/repositories"
	"github.com/mindforge/forge_api/shared"
	"github.com/mindforge/forge_api/state"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	maxWriteAttempts    = 3
	leaderboardSyncSize = 1000
	leaderboardPageKey  = "mindforge:leaderboard:page:%d"
	leaderboardPageTTL  = 15 * time.Second
	exportURLExpiry     = time.Hour

	rejectEmpty    = "empty"
	rejectConflict = "conflict"

	insufficientEnergyMessage = "Insufficient energy. Replenish needed."
)

type GameConfig struct {
	Timezone       string        `env:"GAME_TIMEZONE" envDefault:"UTC"`
	MaxEnergy      int           `env:"ENERGY_MAX" envDefault:"3"`
	EnergyInterval time.Duration `env:"ENERGY_INTERVAL" envDefault:"4h"`
	CacheSize      int           `env:"PROFILE_CACHE_SIZE" envDefault:"4096"`
}

func (c GameConfig) Rules() (gameplay.Rules, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return gameplay.Rules{}, fmt.Errorf("invalid GAME_TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.MaxEnergy <= 0 || c.EnergyInterval <= 0 {
		return gameplay.Rules{}, errors.New("ENERGY_MAX and ENERGY_INTERVAL must be positive")
	}
	return gameplay.Rules{MaxEnergy: c.MaxEnergy, RegenInterval: c.EnergyInterval, Location: loc}, nil
}

// Archive stores exported history documents.
type Archive interface {
	PutObject(ctx context.Context, objectName string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

type GameDeps struct {
	DB        *PostgresService
	Redis     *RedisService
	Archive   Archive
	Oracle    *oracle.Oracle
	Rules     gameplay.Rules
	CacheSize int
	Now       func() time.Time
}

// GameService runs every gameplay action against the stored profile.
type GameService struct {
	appContext.DefaultService

	cfg GameConfig

	db      *PostgresService
	redis   *RedisService
	archive Archive
	oracle  *oracle.Oracle
	rules   gameplay.Rules
	cache   *state.Store
	now     func() time.Time
}

const GAME_SVC = "game_svc"

func NewGameService(deps GameDeps) (*GameService, error) {
	svc := &GameService{}
	if err := svc.init(deps); err != nil {
		return nil, err
	}
	return svc, nil
}

func (svc GameService) Id() string {
	return GAME_SVC
}

func (svc *GameService) Configure(ctx *appContext.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return fmt.Errorf("failed to parse game config: %w", err)
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *GameService) Start() error {
	rules, err := svc.cfg.Rules()
	if err != nil {
		return err
	}

	err = svc.init(GameDeps{
		DB:        svc.Service(POSTGRES_SVC).(*PostgresService),
		Redis:     svc.Service(REDIS_SVC).(*RedisService),
		Archive:   svc.Service(MINIO_SVC).(*MinIOService),
		Oracle:    svc.Service(ORACLE_SVC).(*OracleService).Oracle(),
		Rules:     rules,
		CacheSize: svc.cfg.CacheSize,
	})
	if err != nil {
		return err
	}

	go svc.SyncLeaderboard(context.Background())

	log.WithFields(log.Fields{
		"timezone":        rules.Location.String(),
		"max_energy":      rules.MaxEnergy,
		"energy_interval": rules.RegenInterval,
	}).Info("Game service started")
	return nil
}

func (svc *GameService) init(deps GameDeps) error {
	cache, err := state.NewStore(deps.CacheSize)
	if err != nil {
		return err
	}

	svc.db = deps.DB
	svc.redis = deps.Redis
	svc.archive = deps.Archive
	svc.oracle = deps.Oracle
	svc.rules = deps.Rules
	svc.cache = cache
	svc.now = deps.Now
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.rules.MaxEnergy == 0 {
		svc.rules = gameplay.DefaultRules()
	}
	return nil
}

// ==================== PROFILE LOADING ====================

// loadProfile returns the cached profile when allowed, otherwise reads the
// row and creates it on first access.
func (svc *GameService) loadProfile(ctx context.Context, userID string, useCache bool) (*model.Profile, bool, error) {
	if useCache {
		if p, ok := svc.cache.Get(userID); ok {
			return p, true, nil
		}
	}

	p, err := svc.db.Profiles.GetProfile(ctx, userID)
	if err == nil {
		svc.cache.Put(p)
		return p, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, svc.db.HandleError(err)
	}

	p, err = svc.db.Profiles.CreateProfile(ctx, model.NewProfile(userID, "", "", svc.rules.MaxEnergy, svc.now()))
	if err != nil {
		return nil, false, svc.db.HandleError(err)
	}
	log.WithField("user_id", userID).Info("Profile created")

	svc.cache.Put(p)
	svc.recordScore(ctx, p)
	return p, false, nil
}

// mutateProfile applies mutate locally, then writes it guarded by the
// profile version. A rejected write rolls the local copy back and the
// mutation is retried against a fresh read. When mutate declines the change
// nothing is written and the unchanged profile is returned.
func (svc *GameService) mutateProfile(ctx context.Context, userID string, mutate func(p *model.Profile, now time.Time) (bool, error)) (*model.Profile, bool, error) {
	useCache := true

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		base, fromCache, err := svc.loadProfile(ctx, userID, useCache)
		if err != nil {
			return nil, false, err
		}

		now := svc.now()
		var mutateErr error
		pending := svc.cache.Apply(base, func(p *model.Profile) bool {
			changed, err := mutate(p, now)
			mutateErr = err
			return changed && err == nil
		})
		if pending == nil || mutateErr != nil {
			if fromCache {
				// The cached copy may be behind another instance's write.
				useCache = false
				continue
			}
			if mutateErr != nil {
				return nil, false, mutateErr
			}
			return base, false, nil
		}

		stored, err := pending.Commit(func(base, next model.Profile) (model.Profile, error) {
			return svc.db.Profiles.UpdateProfile(ctx, base, next)
		})
		if err == nil {
			return stored, true, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, false, svc.db.HandleError(err)
		}

		log.WithFields(log.Fields{"user_id": userID, "attempt": attempt + 1}).Debug("Profile write conflict, retrying")
		svc.cache.Invalidate(userID)
		useCache = false
	}

	return nil, false, shared.NewConflictError(repositories.ErrVersionConflict, "Profile is being updated, please retry")
}

// refreshProfile loads the profile and persists any energy regenerated since
// the last write.
func (svc *GameService) refreshProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		return svc.regenerate(p, now), nil
	})
	return p, err
}

func (svc *GameService) regenerate(p *model.Profile, now time.Time) bool {
	before := p.EnergyState()
	after := gameplay.Regenerate(before, now, svc.rules)
	if after.Energy == before.Energy && after.Anchor.Equal(before.Anchor) {
		return false
	}
	p.SetEnergyState(after)
	return true
}

// ==================== PROFILE ====================

func (svc *GameService) InitializeUser(ctx context.Context, userID string, req dto.InitializeUserRequest) (*dto.ProfileResponse, error) {
	p, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		changed := svc.regenerate(p, now)
		if req.Email != "" && p.Email != req.Email {
			p.Email = req.Email
			changed = true
		}
		if req.FullName != "" && p.FullName != req.FullName {
			p.FullName = req.FullName
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return svc.toProfileResponse(p), nil
}

func (svc *GameService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := svc.refreshProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return svc.toProfileResponse(p), nil
}

func (svc *GameService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if req.IsEmpty() {
		return nil, shared.NewBadRequestError(nil, "Nothing to update")
	}

	xpBefore := 0
	p, changed, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		xpBefore = p.XP
		changed := svc.regenerate(p, now)

		if req.FullName != nil && *req.FullName != p.FullName {
			p.FullName = *req.FullName
			changed = true
		}
		if req.XP != nil && *req.XP != p.XP {
			if *req.XP < p.XP {
				return false, shared.NewBadRequestError(nil, "XP cannot decrease")
			}
			p.SetXP(*req.XP)
			changed = true
		}
		if req.Stats != nil {
			p.SetStats(gameplay.ClampStats(req.Stats.Stats()))
			changed = true
		}
		if req.OnboardingStep != nil && *req.OnboardingStep != p.OnboardingStep {
			p.OnboardingStep = *req.OnboardingStep
			changed = true
		}
		if req.OnboardingCompleted != nil && *req.OnboardingCompleted != p.OnboardingCompleted {
			p.OnboardingCompleted = *req.OnboardingCompleted
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	if changed && p.XP != xpBefore {
		svc.recordScore(ctx, p)
	}
	return svc.toProfileResponse(p), nil
}

// ==================== STREAK & ENERGY ====================

func (svc *GameService) CheckDailyStreak(ctx context.Context, userID string) (*dto.StreakResponse, error) {
	var result gameplay.StreakResult

	_, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		result = gameplay.CheckStreak(p.LastSeen, p.Streak, now, svc.rules.Location)
		if !result.Changed {
			return false, nil
		}
		p.Streak = result.Streak
		seen := now
		p.LastSeen = &seen
		return true, nil
	})
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Failed to check daily streak")
		return nil, err
	}

	if result.Celebrate {
		streakCelebrationsTotal.Inc()
	}
	return &dto.StreakResponse{Streak: result.Streak, Celebrate: result.Celebrate}, nil
}

// ConsumeEnergy spends one unit. An empty balance is reported in the
// response, not as an error.
func (svc *GameService) ConsumeEnergy(ctx context.Context, userID string) (*dto.EnergyResponse, error) {
	consumed := false

	p, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		regenerated := gameplay.Regenerate(p.EnergyState(), now, svc.rules)
		next, ok := gameplay.Consume(regenerated, now, svc.rules)
		consumed = ok
		if !ok {
			return false, nil
		}
		p.SetEnergyState(next)
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			energyRejectedTotal.WithLabelValues(rejectConflict).Inc()
		}
		log.WithField("user_id", userID).WithError(err).Error("Failed to consume energy")
		return nil, err
	}

	if !consumed {
		energyRejectedTotal.WithLabelValues(rejectEmpty).Inc()
		s := gameplay.Regenerate(p.EnergyState(), svc.now(), svc.rules)
		return &dto.EnergyResponse{
			Success:      false,
			Energy:       s.Energy,
			MaxEnergy:    svc.rules.MaxEnergy,
			NextEnergyAt: gameplay.NextUnitAt(s, svc.rules),
			Message:      insufficientEnergyMessage,
		}, nil
	}

	energyConsumedTotal.Inc()
	resp := svc.energyResponse(p)
	resp.Success = true
	return resp, nil
}

func (svc *GameService) GetEnergyStatus(ctx context.Context, userID string) (*dto.EnergyResponse, error) {
	p, err := svc.refreshProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := svc.energyResponse(p)
	resp.Success = true
	return resp, nil
}

func (svc *GameService) energyResponse(p *model.Profile) *dto.EnergyResponse {
	s := p.EnergyState()
	return &dto.EnergyResponse{
		Energy:       s.Energy,
		MaxEnergy:    svc.rules.MaxEnergy,
		NextEnergyAt: gameplay.NextUnitAt(s, svc.rules),
	}
}

// ==================== RESULTS ====================

func (svc *GameService) SaveScenarioResult(ctx context.Context, userID string, req dto.SaveResultRequest) (*dto.SaveResultResponse, error) {
	var deltas gameplay.Stats
	if req.StatDeltas != nil {
		deltas = *req.StatDeltas
	}

	result, p, leveledUp, err := svc.applyOutcome(ctx, userID, req.ScenarioID, req.Outcome, req.XPEarned, deltas, nil)
	if err != nil {
		return nil, err
	}

	return &dto.SaveResultResponse{
		Result:    toResultResponse(result),
		XP:        p.XP,
		Level:     p.Level,
		LeveledUp: leveledUp,
		Stats:     p.Stats(),
	}, nil
}

// applyOutcome appends the result row and then credits xp and stat gains to
// the profile.
func (svc *GameService) applyOutcome(ctx context.Context, userID string, scenarioID *string, outcome interface{}, xp int, deltas gameplay.Stats, score *int) (*model.ScenarioResult, *model.Profile, bool, error) {
	if _, _, err := svc.loadProfile(ctx, userID, true); err != nil {
		return nil, nil, false, err
	}

	encoded, err := shared.JSONAPI.MarshalToString(outcome)
	if err != nil {
		return nil, nil, false, shared.NewBadRequestError(err, "Invalid outcome")
	}

	result, err := svc.db.Scenarios.CreateResult(ctx, &model.ScenarioResult{
		UserID:     userID,
		ScenarioID: scenarioID,
		Outcome:    encoded,
		XPEarned:   xp,
		CreatedAt:  svc.now(),
	})
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Failed to save scenario result")
		return nil, nil, false, svc.db.HandleError(err)
	}
	scenarioResultsTotal.Inc()

	levelBefore := 0
	p, _, err := svc.mutateProfile(ctx, userID, func(p *model.Profile, now time.Time) (bool, error) {
		levelBefore = p.Level
		svc.regenerate(p, now)
		p.SetXP(p.XP + max(xp, 0))
		p.SetStats(gameplay.ApplyStatDeltas(p.Stats(), gameplay.ClampGains(deltas)))
		if score != nil {
			s := *score
			p.LastArenaScore = &s
		}
		return true, nil
	})
	if err != nil {
		log.WithFields(log.Fields{"user_id": userID, "result_id": result.ID}).WithError(err).Error("Failed to credit scenario result")
		return nil, nil, false, err
	}

	svc.recordScore(ctx, p)
	return result, p, p.Level > levelBefore, nil
}

func (svc *GameService) GetUserHistory(ctx context.Context, userID string, limit int) (*dto.HistoryResponse, error) {
	results, err := svc.db.Scenarios.GetResultsByUser(ctx, userID, limit)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	out := make([]dto.ScenarioResultResponse, 0, len(results))
	for i := range results {
		out = append(out, toResultResponse(&results[i]))
	}
	return &dto.HistoryResponse{Results: out, Total: len(out)}, nil
}

func (svc *GameService) ExportHistory(ctx context.Context, userID string) (*dto.ExportResponse, error) {
	if svc.archive == nil {
		return nil, shared.NewAppError(fiber.StatusServiceUnavailable, ErrArchiveDisabled, "History export is not available")
	}

	p, _, err := svc.loadProfile(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	history, err := svc.GetUserHistory(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	now := svc.now()
	doc := map[string]interface{}{
		"user_id":     userID,
		"exported_at": now,
		"profile":     svc.toProfileResponse(p),
		"results":     history.Results,
	}
	data, err := shared.JSONAPI.Marshal(doc)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode history")
	}

	objectName := fmt.Sprintf("history/%s/%d.json", userID, now.Unix())
	if err := svc.archive.PutObject(ctx, objectName, data, fiber.MIMEApplicationJSON); err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			return nil, shared.NewAppError(fiber.StatusServiceUnavailable, err, "History export is not available")
		}
		return nil, shared.NewInternalError(err, "Failed to store history export")
	}

	url, err := svc.archive.PresignedURL(ctx, objectName, exportURLExpiry)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to sign history export")
	}

	return &dto.ExportResponse{
		URL:        url,
		ObjectName: objectName,
		ExpiresAt:  now.Add(exportURLExpiry),
		Results:    history.Total,
	}, nil
}

func (svc *GameService) GetWeeklyActivity(ctx context.Context, userID string) (*dto.WeeklyActivityResponse, error) {
	now := svc.now()
	start := gameplay.StartOfWeek(now, svc.rules.Location)

	results, err := svc.db.Scenarios.GetResultsSince(ctx, userID, start)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	timestamps := make([]time.Time, 0, len(results))
	for _, r := range results {
		timestamps = append(timestamps, r.CreatedAt)
	}
	counts := gameplay.WeekActivity(now, svc.rules.Location, timestamps)

	resp := &dto.WeeklyActivityResponse{WeekStart: start, Days: make([]dto.DayActivity, 0, 7)}
	for i, count := range counts {
		resp.Days = append(resp.Days, dto.DayActivity{
			Day:    gameplay.Weekdays[i],
			Date:   start.AddDate(0, 0, i).Format(time.DateOnly),
			Count:  count,
			Active: count > 0,
		})
		if count > 0 {
			resp.ActiveDays++
		}
	}
	return resp, nil
}

// ==================== LEADERBOARD ====================

func (svc *GameService) GetLeaderboard(ctx context.Context, userID string, limit int) (*dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = shared.DefaultLeaderboardLimit
	}
	limit = min(limit, shared.MaxLeaderboardLimit)

	entries, err := svc.topEntries(ctx, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{Entries: entries}
	for _, e := range entries {
		if e.UserID == userID {
			me := e
			resp.Me = &me
			break
		}
	}

	if userID != "" && resp.Me == nil {
		me, err := svc.rankOf(ctx, userID)
		if err != nil {
			log.WithField("user_id", userID).WithError(err).Warn("Failed to rank user")
		} else {
			resp.Me = me
		}
	}
	return resp, nil
}

// topEntries serves a ranked page, caching it briefly in Redis. Ties share
// a rank.
func (svc *GameService) topEntries(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	key := fmt.Sprintf(leaderboardPageKey, limit)
	if svc.redis != nil {
		var cached []dto.LeaderboardEntry
		if ok, err := svc.redis.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	profiles, err := svc.topProfiles(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(profiles))
	rank := 0
	for i := range profiles {
		if i == 0 || profiles[i].XP < profiles[i-1].XP {
			rank = i + 1
		}
		entries = append(entries, toLeaderboardEntry(&profiles[i], rank))
	}

	if svc.redis != nil {
		if err := svc.redis.Set(ctx, key, entries, leaderboardPageTTL); err != nil {
			log.WithError(err).Warn("Failed to cache leaderboard page")
		}
	}
	return entries, nil
}

// topProfiles reads the ranking from Redis and falls back to the database
// when Redis is unavailable or holds fewer players than it should.
func (svc *GameService) topProfiles(ctx context.Context, limit int) ([]model.Profile, error) {
	if svc.redis != nil {
		ordered, err := svc.rankedProfiles(ctx, limit)
		if err != nil {
			log.WithError(err).Warn("Leaderboard cache unavailable, reading from database")
		} else if ordered != nil {
			return ordered, nil
		}
	}

	profiles, err := svc.db.Profiles.TopByXP(ctx, limit)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return profiles, nil
}

// rankedProfiles returns nil when the Redis ranking cannot serve a complete
// page.
func (svc *GameService) rankedProfiles(ctx context.Context, limit int) ([]model.Profile, error) {
	entries, err := svc.redis.TopScores(ctx, limit)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	if len(entries) < limit {
		total, err := svc.db.Profiles.CountProfiles(ctx)
		if err != nil {
			return nil, err
		}
		if total > int64(len(entries)) {
			log.WithFields(log.Fields{"ranked": len(entries), "profiles": total}).Warn("Leaderboard cache incomplete, reading from database")
			return nil, nil
		}
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	found, err := svc.db.Profiles.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Profile, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]model.Profile, 0, len(entries))
	for _, e := range entries {
		if p, ok := byID[e.UserID]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (svc *GameService) rankOf(ctx context.Context, userID string) (*dto.LeaderboardEntry, error) {
	p, err := svc.db.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if svc.redis != nil {
		if rank, ok, err := svc.redis.ScoreRank(ctx, userID); err == nil && ok {
			entry := toLeaderboardEntry(p, rank)
			return &entry, nil
		}
	}

	rank, err := svc.db.Profiles.RankOf(ctx, p.XP)
	if err != nil {
		return nil, err
	}
	entry := toLeaderboardEntry(p, rank)
	return &entry, nil
}

func (svc *GameService) recordScore(ctx context.Context, p *model.Profile) {
	if svc.redis == nil || p == nil {
		return
	}
	if err := svc.redis.RecordScore(ctx, p.ID, p.XP); err != nil {
		log.WithField("user_id", p.ID).WithError(err).Warn("Failed to update leaderboard cache")
	}
}

// SyncLeaderboard copies the top profiles into the Redis ranking, so a fresh
// Redis instance serves the same order as the database.
func (svc *GameService) SyncLeaderboard(ctx context.Context) {
	profiles, err := svc.db.Profiles.TopByXP(ctx, leaderboardSyncSize)
	if err != nil {
		log.WithError(err).Warn("Failed to load profiles for leaderboard sync")
		return
	}
	for i := range profiles {
		svc.recordScore(ctx, &profiles[i])
	}
	if svc.redis != nil {
		if err := svc.redis.Delete(ctx, fmt.Sprintf(leaderboardPageKey, shared.DefaultLeaderboardLimit)); err != nil {
			log.WithError(err).Warn("Failed to evict leaderboard page cache")
		}
	}
	log.WithField("profiles", len(profiles)).Info("Leaderboard cache synced")
}

// ==================== MAPPING ====================

func (svc *GameService) toProfileResponse(p *model.Profile) *dto.ProfileResponse {
	energy := p.EnergyState()
	return &dto.ProfileResponse{
		ID:                  p.ID,
		Email:               p.Email,
		FullName:            p.FullName,
		XP:                  p.XP,
		Level:               p.Level,
		XPToNextLevel:       gameplay.XPToNextLevel(p.XP),
		Streak:              p.Streak,
		Energy:              energy.Energy,
		MaxEnergy:           svc.rules.MaxEnergy,
		NextEnergyAt:        gameplay.NextUnitAt(energy, svc.rules),
		Stats:               p.Stats(),
		OnboardingCompleted: p.OnboardingCompleted,
		OnboardingStep:      p.OnboardingStep,
		LastSeen:            p.LastSeen,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toResultResponse(r *model.ScenarioResult) dto.ScenarioResultResponse {
	var outcome interface{}
	if r.Outcome != "" {
		if err := shared.JSONAPI.UnmarshalFromString(r.Outcome, &outcome); err != nil {
			outcome = r.Outcome
		}
	}
	return dto.ScenarioResultResponse{
		ID:         r.ID,
		ScenarioID: r.ScenarioID,
		Outcome:    outcome,
		XPEarned:   r.XPEarned,
		CreatedAt:  r.CreatedAt,
	}
}

func toLeaderboardEntry(p *model.Profile, rank int) dto.LeaderboardEntry {
	return dto.LeaderboardEntry{
		Rank:     rank,
		UserID:   p.ID,
		FullName: p.FullName,
		XP:       p.XP,
		Level:    p.Level,
		Streak:   p.Streak,
	}
}
