package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/oracle"
	"github.com/mindforge/forge_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	userID  string
	limit   int
	update  dto.UpdateProfileRequest
	initReq dto.InitializeUserRequest
	submit  dto.SubmitArenaRequest
	err     error
	results int
}

func (f *fakeGame) InitializeUser(_ context.Context, userID string, req dto.InitializeUserRequest) (*dto.ProfileResponse, error) {
	f.userID, f.initReq = userID, req
	return &dto.ProfileResponse{ID: userID, Email: req.Email, FullName: req.FullName, Level: 1}, f.err
}

func (f *fakeGame) GetProfile(_ context.Context, userID string) (*dto.ProfileResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ProfileResponse{ID: userID, Level: 1, Energy: 3, MaxEnergy: 3}, nil
}

func (f *fakeGame) UpdateProfile(_ context.Context, userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	f.userID, f.update = userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ProfileResponse{ID: userID}, nil
}

func (f *fakeGame) CheckDailyStreak(_ context.Context, userID string) (*dto.StreakResponse, error) {
	f.userID = userID
	return &dto.StreakResponse{Streak: 4, Celebrate: true}, f.err
}

func (f *fakeGame) ConsumeEnergy(_ context.Context, userID string) (*dto.EnergyResponse, error) {
	f.userID = userID
	return &dto.EnergyResponse{Success: false, Energy: 0, MaxEnergy: 3, Message: "Insufficient energy. Replenish needed."}, f.err
}

func (f *fakeGame) GetEnergyStatus(_ context.Context, userID string) (*dto.EnergyResponse, error) {
	f.userID = userID
	return &dto.EnergyResponse{Success: true, Energy: 2, MaxEnergy: 3}, f.err
}

func (f *fakeGame) SaveScenarioResult(_ context.Context, userID string, req dto.SaveResultRequest) (*dto.SaveResultResponse, error) {
	f.userID = userID
	f.results++
	return &dto.SaveResultResponse{XP: req.XPEarned}, f.err
}

func (f *fakeGame) GetUserHistory(_ context.Context, userID string, limit int) (*dto.HistoryResponse, error) {
	f.userID, f.limit = userID, limit
	return &dto.HistoryResponse{Results: []dto.ScenarioResultResponse{}}, f.err
}

func (f *fakeGame) ExportHistory(_ context.Context, userID string) (*dto.ExportResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ExportResponse{URL: "https://archive.test/x"}, nil
}

func (f *fakeGame) GetWeeklyActivity(_ context.Context, userID string) (*dto.WeeklyActivityResponse, error) {
	f.userID = userID
	return &dto.WeeklyActivityResponse{}, f.err
}

func (f *fakeGame) GetLeaderboard(_ context.Context, userID string, limit int) (*dto.LeaderboardResponse, error) {
	f.userID, f.limit = userID, limit
	return &dto.LeaderboardResponse{Entries: []dto.LeaderboardEntry{{Rank: 1, UserID: "alice", XP: 3000}}}, f.err
}

func (f *fakeGame) GetOnboarding(_ context.Context, userID string) (*dto.OnboardingStateResponse, error) {
	f.userID = userID
	return &dto.OnboardingStateResponse{Total: 10, Questions: oracle.FallbackQuestions()}, f.err
}

func (f *fakeGame) AnswerOnboarding(_ context.Context, userID string, req dto.AnswerOnboardingRequest) (*dto.AnswerOnboardingResponse, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AnswerOnboardingResponse{State: dto.OnboardingStateResponse{Step: 1, Total: 10}}, nil
}

func (f *fakeGame) StartArena(_ context.Context, userID string) (*dto.StartArenaResponse, error) {
	f.userID = userID
	return &dto.StartArenaResponse{Started: true, Scenario: &dto.ArenaScenario{ID: "s-1"}}, f.err
}

func (f *fakeGame) SubmitArena(_ context.Context, userID string, req dto.SubmitArenaRequest) (*dto.SubmitArenaResponse, error) {
	f.userID, f.submit = userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SubmitArenaResponse{ResultID: "r-1"}, nil
}

// newTestApp mounts the handlers behind a stub that authenticates every
// request as "user-1".
func newTestApp(svc *fakeGame) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: shared.ErrorHandler})

	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Anonymous") == "" {
			c.Locals(shared.UserID, "user-1")
			c.Locals(shared.Email, "ada@example.com")
		}
		return c.Next()
	})

	profile := NewProfileHandler(svc)
	game := NewGameHandler(svc)
	leaderboard := NewLeaderboardHandler(svc)
	arena := NewArenaHandler(svc)

	app.Post("/user/initialize", profile.InitializeUser)
	app.Get("/user/profile", profile.GetProfile)
	app.Put("/user/profile", profile.UpdateProfile)
	app.Post("/game/streak/check", game.CheckStreak)
	app.Post("/game/energy/consume", game.ConsumeEnergy)
	app.Post("/game/results", game.SaveResult)
	app.Get("/game/history", game.GetHistory)
	app.Post("/game/history/export", game.ExportHistory)
	app.Get("/leaderboard", leaderboard.GetLeaderboard)
	app.Post("/onboarding/answer", arena.AnswerOnboarding)
	app.Post("/arena/start", arena.StartArena)
	app.Post("/arena/submit", arena.SubmitArena)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestProfileHandler(t *testing.T) {
	svc := &fakeGame{}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodGet, "/user/profile", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user-1", svc.userID)
	assert.Contains(t, body, `"max_energy":3`)

	status, _ = do(t, app, fiber.MethodPost, "/user/initialize", `{"full_name":"Ada"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ada", svc.initReq.FullName)
	assert.Equal(t, "ada@example.com", svc.initReq.Email)

	status, _ = do(t, app, fiber.MethodPut, "/user/profile", `{"xp": 1200, "stats": {"logic": 20, "flexibility": 30, "ethics": 40}}`)
	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, svc.update.XP)
	assert.Equal(t, 1200, *svc.update.XP)
	require.NotNil(t, svc.update.Stats)
	assert.Equal(t, 30, svc.update.Stats.Flexibility)
}

func TestProfileHandler_ValidationErrors(t *testing.T) {
	svc := &fakeGame{}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodPut, "/user/profile", `{"stats": {"logic": 5, "flexibility": 30, "ethics": 40}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "must be between 10 and 100")

	status, _ = do(t, app, fiber.MethodPut, "/user/profile", `{"xp": -5}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPut, "/user/profile", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGameHandler(t *testing.T) {
	svc := &fakeGame{}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodPost, "/game/streak/check", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"celebrate":true`)

	status, body = do(t, app, fiber.MethodPost, "/game/energy/consume", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"success":false`)
	assert.Contains(t, body, "Insufficient energy")

	status, _ = do(t, app, fiber.MethodPost, "/game/results", `{"outcome": {"verdict": "sound"}, "xp_earned": 50}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 1, svc.results)

	status, _ = do(t, app, fiber.MethodPost, "/game/results", `{"xp_earned": 50}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, 1, svc.results)

	status, _ = do(t, app, fiber.MethodGet, "/game/history", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, defaultHistoryLimit, svc.limit)

	status, _ = do(t, app, fiber.MethodGet, "/game/history?limit=500", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGameHandler_ServiceErrorsUseTheirStatus(t *testing.T) {
	svc := &fakeGame{err: shared.NewAppError(fiber.StatusServiceUnavailable, nil, "History export is not available")}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodPost, "/game/history/export", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, "History export is not available")
}

func TestLeaderboardHandler(t *testing.T) {
	svc := &fakeGame{}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodGet, "/leaderboard?limit=5", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, "user-1", svc.userID)
	assert.Contains(t, body, `"user_id":"alice"`)

	req := httptest.NewRequest(fiber.MethodGet, "/leaderboard", nil)
	req.Header.Set("X-Anonymous", "1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", svc.userID)
	assert.Equal(t, 0, svc.limit)
}

func TestArenaHandler(t *testing.T) {
	svc := &fakeGame{}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodPost, "/arena/start", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"started":true`)

	status, _ = do(t, app, fiber.MethodPost, "/arena/submit", `{"scenario_id": "0192f0c4-7d4e-7b1a-9c1e-2f3a4b5c6d7e", "response": "Share the ration."}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Share the ration.", svc.submit.Response)

	status, _ = do(t, app, fiber.MethodPost, "/arena/submit", `{"scenario_id": "0192f0c4-7d4e-7b1a-9c1e-2f3a4b5c6d7e", "response": "   "}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPost, "/arena/submit", `{"scenario_id": "not-a-uuid", "response": "ok"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPost, "/onboarding/answer", `{"question_id": 1, "answer_index": 0}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, fiber.MethodPost, "/onboarding/answer", `{"question_id": 1}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestArenaHandler_Conflict(t *testing.T) {
	svc := &fakeGame{err: shared.NewConflictError(nil, "Scenario already submitted")}
	app := newTestApp(svc)

	status, body := do(t, app, fiber.MethodPost, "/arena/submit", `{"scenario_id": "0192f0c4-7d4e-7b1a-9c1e-2f3a4b5c6d7e", "response": "again"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body, "Scenario already submitted")
}
