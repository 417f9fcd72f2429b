package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v10"
	"github.com/cenkalti/backoff/v4"
	"github.com/mindforge/forge_api/shared"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	leaderboardKey   = "mindforge:leaderboard:xp"
	rateWindowKey    = "mindforge:ratelimit:%s:%s"
	rateBlockKey     = "mindforge:ratelimit:block:%s:%s"
	redisPingRetries = 5
)

var errRedisNotInitialized = errors.New("redis client not initialized")

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
	cfg   RedisConfig
}

const REDIS_SVC = "redis_svc"

// NewRedisService wraps an existing client. Used by tests and tools that do
// not run the service container.
func NewRedisService(client *redis.Client) *RedisService {
	return &RedisService{redis: client}
}

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return fmt.Errorf("failed to parse redis config: %w", err)
	}
	svc.redis = redis.NewClient(&redis.Options{
		Addr:     svc.cfg.Addr,
		Password: svc.cfg.Password,
		DB:       svc.cfg.DB,
	})
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return svc.redis.Ping(ctx).Err()
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), redisPingRetries)
	if err := backoff.Retry(ping, b); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithField("addr", svc.cfg.Addr).Info("Redis connected")
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) Ping(ctx context.Context) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}
	return svc.redis.Ping(ctx).Err()
}

func (svc *RedisService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}

	var data []byte
	var err error

	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		data, err = shared.JSONAPI.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
	}

	return svc.redis.Set(ctx, key, data, expiration).Err()
}

// GetJSON decodes the value at key into dest. It reports false when the key
// does not exist.
func (svc *RedisService) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if svc.redis == nil {
		return false, errRedisNotInitialized
	}

	result, err := svc.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, shared.JSONAPI.UnmarshalFromString(result, dest)
}

func (svc *RedisService) Delete(ctx context.Context, keys ...string) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}

	return svc.redis.Del(ctx, keys...).Err()
}

// ==================== LEADERBOARD ====================

type LeaderEntry struct {
	UserID string
	XP     int
}

// RecordScore stores the user's total xp in the leaderboard sorted set.
func (svc *RedisService) RecordScore(ctx context.Context, userID string, xp int) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}
	return svc.redis.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(xp), Member: userID}).Err()
}

func (svc *RedisService) TopScores(ctx context.Context, limit int) ([]LeaderEntry, error) {
	if svc.redis == nil {
		return nil, errRedisNotInitialized
	}

	members, err := svc.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderEntry, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, LeaderEntry{UserID: id, XP: int(m.Score)})
	}
	return entries, nil
}

// ScoreRank is the 1-based rank of a user, counting only strictly higher
// scores so ties share a rank. It reports false when the user is absent.
func (svc *RedisService) ScoreRank(ctx context.Context, userID string) (int, bool, error) {
	if svc.redis == nil {
		return 0, false, errRedisNotInitialized
	}

	score, err := svc.redis.ZScore(ctx, leaderboardKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	higher, err := svc.redis.ZCount(ctx, leaderboardKey, "("+strconv.FormatFloat(score, 'f', -1, 64), "+inf").Result()
	if err != nil {
		return 0, false, err
	}
	return int(higher) + 1, true, nil
}

// ==================== RATE LIMIT COUNTERS ====================

// HitWindow counts one request in the fixed window for (endpoint, identifier)
// and returns the count so far and when the window closes.
func (svc *RedisService) HitWindow(ctx context.Context, endpoint, identifier string, window time.Duration) (int64, time.Time, error) {
	if svc.redis == nil {
		return 0, time.Time{}, errRedisNotInitialized
	}

	key := fmt.Sprintf(rateWindowKey, endpoint, identifier)
	count, err := svc.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	ttl, err := svc.redis.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if count == 1 || ttl < 0 {
		if err := svc.redis.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = window
	}

	return count, time.Now().Add(ttl), nil
}

func (svc *RedisService) Block(ctx context.Context, endpoint, identifier string, d time.Duration) (time.Time, error) {
	if svc.redis == nil {
		return time.Time{}, errRedisNotInitialized
	}

	until := time.Now().Add(d)
	key := fmt.Sprintf(rateBlockKey, endpoint, identifier)
	return until, svc.redis.Set(ctx, key, until.Unix(), d).Err()
}

// BlockedUntil returns the end of an active block, or nil.
func (svc *RedisService) BlockedUntil(ctx context.Context, endpoint, identifier string) (*time.Time, error) {
	if svc.redis == nil {
		return nil, errRedisNotInitialized
	}

	v, err := svc.redis.Get(ctx, fmt.Sprintf(rateBlockKey, endpoint, identifier)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	until := time.Unix(v, 0)
	return &until, nil
}
