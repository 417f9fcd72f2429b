package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/gameplay"
	"github.com/mindforge/forge_api/model"
	"github.com/mindforge/forge_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *shared.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.StatusCode
}

func TestGetProfile_CreatesOnFirstAccess(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	profile, err := f.svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, 0, profile.XP)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, shared.MaxEnergy, profile.Energy)
	assert.Nil(t, profile.NextEnergyAt)
	assert.Equal(t, gameplay.DefaultStats(), profile.Stats)

	count, err := f.db.Profiles.CountProfiles(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGetProfile_StartsAtConfiguredMaxEnergy(t *testing.T) {
	rules := gameplay.DefaultRules()
	rules.MaxEnergy = 5
	f := newGameFixtureWithRules(t, rules)

	profile, err := f.svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 5, profile.Energy)
	assert.Equal(t, 5, profile.MaxEnergy)
	assert.Nil(t, profile.NextEnergyAt)
}

func TestInitializeUser_FillsIdentity(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)

	profile, err := f.svc.InitializeUser(ctx, "user-1", dto.InitializeUserRequest{Email: "ada@example.com", FullName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Ada", profile.FullName)

	stored, err := f.db.Profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FullName)
}

func TestConsumeEnergy(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	for want := 2; want >= 0; want-- {
		resp, err := f.svc.ConsumeEnergy(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, want, resp.Energy)
		require.NotNil(t, resp.NextEnergyAt)
	}

	resp, err := f.svc.ConsumeEnergy(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, 0, resp.Energy)
	assert.Equal(t, insufficientEnergyMessage, resp.Message)
	require.NotNil(t, resp.NextEnergyAt)
	assert.True(t, f.clock.Now().Add(4*time.Hour).Equal(*resp.NextEnergyAt))

	f.clock.Advance(4 * time.Hour)
	status, err := f.svc.GetEnergyStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Energy)

	f.clock.Advance(9 * time.Hour)
	status, err = f.svc.GetEnergyStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, shared.MaxEnergy, status.Energy)
	assert.Nil(t, status.NextEnergyAt)
}

func TestConsumeEnergy_ConcurrentCallsNeverOverspend(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.svc.ConsumeEnergy(ctx, "user-1")
			if err != nil {
				return
			}
			if resp.Success {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, successes, shared.MaxEnergy)

	stored, err := f.db.Profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, shared.MaxEnergy-successes, stored.Energy)
}

func TestCheckDailyStreak(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	first, err := f.svc.CheckDailyStreak(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, dto.StreakResponse{Streak: 1, Celebrate: true}, *first)

	sameDay, err := f.svc.CheckDailyStreak(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, dto.StreakResponse{Streak: 1, Celebrate: false}, *sameDay)

	f.clock.Advance(24 * time.Hour)
	nextDay, err := f.svc.CheckDailyStreak(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, dto.StreakResponse{Streak: 2, Celebrate: true}, *nextDay)

	f.clock.Advance(72 * time.Hour)
	afterGap, err := f.svc.CheckDailyStreak(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, dto.StreakResponse{Streak: 1, Celebrate: true}, *afterGap)
}

func TestUpdateProfile(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	name := "Grace"
	profile, err := f.svc.UpdateProfile(ctx, "user-1", dto.UpdateProfileRequest{
		FullName: &name,
		XP:       intPtr(2500),
		Stats:    &dto.StatsInput{Logic: 40, Flexibility: 10, Ethics: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.FullName)
	assert.Equal(t, 2500, profile.XP)
	assert.Equal(t, 3, profile.Level)
	assert.Equal(t, gameplay.Stats{Logic: 40, Flexibility: 10, Ethics: 100}, profile.Stats)

	_, err = f.svc.UpdateProfile(ctx, "user-1", dto.UpdateProfileRequest{XP: intPtr(100)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = f.svc.UpdateProfile(ctx, "user-1", dto.UpdateProfileRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	rank, ok, err := f.redis.ScoreRank(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, rank)
}

func TestSaveScenarioResult(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, "user-1", dto.UpdateProfileRequest{XP: intPtr(950)})
	require.NoError(t, err)

	resp, err := f.svc.SaveScenarioResult(ctx, "user-1", dto.SaveResultRequest{
		Outcome:    map[string]interface{}{"verdict": "sound"},
		XPEarned:   100,
		StatDeltas: &gameplay.Stats{Logic: 9, Flexibility: -50, Ethics: 200},
	})
	require.NoError(t, err)

	assert.Equal(t, 1050, resp.XP)
	assert.Equal(t, 2, resp.Level)
	assert.True(t, resp.LeveledUp)
	assert.Equal(t, gameplay.Stats{Logic: 15, Flexibility: shared.MinStat, Ethics: 15}, resp.Stats)
	assert.Equal(t, map[string]interface{}{"verdict": "sound"}, resp.Result.Outcome)

	f.clock.Advance(time.Minute)
	_, err = f.svc.SaveScenarioResult(ctx, "user-1", dto.SaveResultRequest{
		Outcome:  map[string]interface{}{"verdict": "weak"},
		XPEarned: 10,
	})
	require.NoError(t, err)

	history, err := f.svc.GetUserHistory(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, history.Results, 2)
	assert.Equal(t, 10, history.Results[0].XPEarned)
	assert.Equal(t, 100, history.Results[1].XPEarned)
}

func TestGetWeeklyActivity(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	// Wednesday 2026-10-21; the week starts Sunday 2026-10-18.
	for i := 0; i < 2; i++ {
		_, err := f.svc.SaveScenarioResult(ctx, "user-1", dto.SaveResultRequest{Outcome: map[string]interface{}{"n": i}})
		require.NoError(t, err)
	}

	activity, err := f.svc.GetWeeklyActivity(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, activity.Days, 7)
	assert.True(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).Equal(activity.WeekStart))
	assert.Equal(t, "Wed", activity.Days[3].Day)
	assert.Equal(t, "2026-10-21", activity.Days[3].Date)
	assert.Equal(t, 2, activity.Days[3].Count)
	assert.True(t, activity.Days[3].Active)
	assert.False(t, activity.Days[0].Active)
	assert.Equal(t, 1, activity.ActiveDays)
}

func TestGetLeaderboard(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	for id, xp := range map[string]int{"alice": 3000, "bob": 1500, "carol": 1500, "dave": 200} {
		_, err := f.svc.UpdateProfile(ctx, id, dto.UpdateProfileRequest{XP: intPtr(xp)})
		require.NoError(t, err)
	}

	board, err := f.svc.GetLeaderboard(ctx, "dave", 3)
	require.NoError(t, err)

	require.Len(t, board.Entries, 3)
	assert.Equal(t, "alice", board.Entries[0].UserID)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, 2, board.Entries[2].Rank)
	assert.Equal(t, 4, board.Entries[0].Level)

	require.NotNil(t, board.Me)
	assert.Equal(t, "dave", board.Me.UserID)
	assert.Equal(t, 4, board.Me.Rank)
}

func TestGetLeaderboard_FallsBackToDatabase(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProfile(ctx, "alice", dto.UpdateProfileRequest{XP: intPtr(500)})
	require.NoError(t, err)
	require.NoError(t, f.redis.Delete(ctx, leaderboardKey))

	board, err := f.svc.GetLeaderboard(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "alice", board.Entries[0].UserID)
	assert.Nil(t, board.Me)
}

func TestExportHistory(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveScenarioResult(ctx, "user-1", dto.SaveResultRequest{Outcome: map[string]interface{}{"ok": true}, XPEarned: 20})
	require.NoError(t, err)

	export, err := f.svc.ExportHistory(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 1, export.Results)
	assert.Contains(t, export.ObjectName, "history/user-1/")
	assert.Contains(t, export.URL, export.ObjectName)
	assert.Contains(t, string(f.archive.objects[export.ObjectName]), `"xp_earned":20`)

	f.svc.archive = nil
	_, err = f.svc.ExportHistory(ctx, "user-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestOnboardingFlow(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	state, err := f.svc.GetOnboarding(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, state.Questions, 10)
	assert.False(t, state.Completed)

	again, err := f.svc.GetOnboarding(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, state.Questions, again.Questions)

	_, err = f.svc.AnswerOnboarding(ctx, "user-1", dto.AnswerOnboardingRequest{QuestionID: 999, AnswerIndex: intPtr(0)})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	var last *dto.AnswerOnboardingResponse
	for i, q := range state.Questions {
		last, err = f.svc.AnswerOnboarding(ctx, "user-1", dto.AnswerOnboardingRequest{QuestionID: q.ID, AnswerIndex: intPtr(0)})
		require.NoError(t, err)
		if i < len(state.Questions)-1 {
			assert.Equal(t, i+1, last.State.Step)
			assert.Nil(t, last.Placement)
		}
	}

	require.NotNil(t, last.Placement)
	assert.True(t, last.State.Completed)
	require.NotNil(t, last.Profile)
	assert.Equal(t, 1, last.Profile.Level)
	assert.Equal(t, shared.WelcomeBonus, last.Profile.XP)
	assert.Equal(t, gameplay.Stats{Logic: 20, Flexibility: 20, Ethics: 20}, last.Profile.Stats)

	_, err = f.svc.AnswerOnboarding(ctx, "user-1", dto.AnswerOnboardingRequest{QuestionID: state.Questions[0].ID, AnswerIndex: intPtr(1)})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestArenaFlow(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	started, err := f.svc.StartArena(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, started.Started)
	require.NotNil(t, started.Scenario)
	assert.Equal(t, 2, started.Energy.Energy)
	assert.Equal(t, shared.StatLogic, started.Scenario.Focus)
	assert.False(t, started.Scenario.Offline)

	req := dto.SubmitArenaRequest{ScenarioID: started.Scenario.ID, Response: "Share the ration and log the decision."}
	submitted, err := f.svc.SubmitArena(ctx, "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 80, submitted.Evaluation.Score)
	assert.Equal(t, 150, submitted.XP)
	assert.Equal(t, gameplay.Stats{Logic: 13, Flexibility: 11, Ethics: 10}, submitted.Stats)

	_, err = f.svc.SubmitArena(ctx, "user-1", req)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = f.svc.SubmitArena(ctx, "someone-else", req)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	stored, err := f.db.Profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastArenaScore)
	assert.Equal(t, 80, *stored.LastArenaScore)
}

func TestStartArena_OutOfEnergy(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	for i := 0; i < shared.MaxEnergy; i++ {
		_, err := f.svc.ConsumeEnergy(ctx, "user-1")
		require.NoError(t, err)
	}

	resp, err := f.svc.StartArena(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, resp.Started)
	assert.Nil(t, resp.Scenario)
	assert.Equal(t, insufficientEnergyMessage, resp.Message)
}

func TestStartArena_RefundsEnergyWhenScenarioNotSaved(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, f.db.Db().Migrator().DropTable(&model.Scenario{}))

	_, err = f.svc.StartArena(ctx, "user-1")
	require.Error(t, err)

	status, err := f.svc.GetEnergyStatus(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, shared.MaxEnergy, status.Energy)
	assert.Nil(t, status.NextEnergyAt)
}

func TestGetLeaderboard_IncompleteRankingReadsDatabase(t *testing.T) {
	f := newGameFixture(t)
	ctx := context.Background()

	for id, xp := range map[string]int{"alice": 3000, "bob": 1500, "carol": 200} {
		_, err := f.svc.UpdateProfile(ctx, id, dto.UpdateProfileRequest{XP: intPtr(xp)})
		require.NoError(t, err)
	}
	require.NoError(t, f.redis.Delete(ctx, leaderboardKey))
	require.NoError(t, f.redis.RecordScore(ctx, "carol", 200))

	board, err := f.svc.GetLeaderboard(ctx, "", 10)
	require.NoError(t, err)

	require.Len(t, board.Entries, 3)
	assert.Equal(t, "alice", board.Entries[0].UserID)
	assert.Equal(t, "carol", board.Entries[2].UserID)
	assert.Equal(t, 3, board.Entries[2].Rank)
}
