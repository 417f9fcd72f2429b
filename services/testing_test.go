package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/oracle"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *PostgresService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// Each connection to :memory: is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	ds, err := NewPostgresServiceFromDB(db)
	require.NoError(t, err)
	return ds
}

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisService(client), mr
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memoryArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (a *memoryArchive) PutObject(_ context.Context, objectName string, data []byte, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	a.objects[objectName] = data
	return nil
}

func (a *memoryArchive) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://archive.test/" + objectName + "?signed=1", nil
}

const testEvaluation = `{"score": 80, "xp_awarded": 150, "summary": "Sharp", "fallacies": [], "strengths": ["clarity"], "growth_tip": "Steelman first", "new_stats": {"logic": 3, "flexibility": 1, "ethics": 0}}`

// scriptedOracle answers arena prompts with fixed content and fails every
// other prompt, so onboarding uses the offline questionnaire.
func scriptedOracle() *oracle.Oracle {
	return oracle.New(oracle.ProviderFunc{
		ID: "scripted",
		Fn: func(_ context.Context, prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "Evaluate this Arena submission"):
				return "```json\n" + testEvaluation + "\n```", nil
			case strings.Contains(prompt, "Arena Scenario"):
				return "# The Last Ration\n**Situation**: Two crews, one ration.", nil
			default:
				return "", oracle.ErrEmpty
			}
		},
	}, nil)
}

type gameFixture struct {
	svc     *GameService
	db      *PostgresService
	redis   *RedisService
	archive *memoryArchive
	clock   *testClock
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()
	return newGameFixtureWithRules(t, gameplay.DefaultRules())
}

func newGameFixtureWithRules(t *testing.T, rules gameplay.Rules) *gameFixture {
	t.Helper()

	db := newTestDB(t)
	rds, _ := newTestRedis(t)
	clock := &testClock{now: time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)}
	archive := &memoryArchive{}

	svc, err := NewGameService(GameDeps{
		DB:        db,
		Redis:     rds,
		Archive:   archive,
		Oracle:    scriptedOracle(),
		Rules:     rules,
		CacheSize: 128,
		Now:       clock.Now,
	})
	require.NoError(t, err)

	return &gameFixture{svc: svc, db: db, redis: rds, archive: archive, clock: clock}
}
