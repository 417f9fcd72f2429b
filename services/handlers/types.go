package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
)

type AuthProvider interface {
	RequiredAuth() fiber.Handler
	OptionalAuth() fiber.Handler
}

type ProfileServiceInterface interface {
	InitializeUser(ctx context.Context, userID string, req dto.InitializeUserRequest) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type GameServiceInterface interface {
	CheckDailyStreak(ctx context.Context, userID string) (*dto.StreakResponse, error)
	ConsumeEnergy(ctx context.Context, userID string) (*dto.EnergyResponse, error)
	GetEnergyStatus(ctx context.Context, userID string) (*dto.EnergyResponse, error)
	SaveScenarioResult(ctx context.Context, userID string, req dto.SaveResultRequest) (*dto.SaveResultResponse, error)
	GetUserHistory(ctx context.Context, userID string, limit int) (*dto.HistoryResponse, error)
	ExportHistory(ctx context.Context, userID string) (*dto.ExportResponse, error)
	GetWeeklyActivity(ctx context.Context, userID string) (*dto.WeeklyActivityResponse, error)
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context, userID string, limit int) (*dto.LeaderboardResponse, error)
}

type ArenaServiceInterface interface {
	GetOnboarding(ctx context.Context, userID string) (*dto.OnboardingStateResponse, error)
	AnswerOnboarding(ctx context.Context, userID string, req dto.AnswerOnboardingRequest) (*dto.AnswerOnboardingResponse, error)
	StartArena(ctx context.Context, userID string) (*dto.StartArenaResponse, error)
	SubmitArena(ctx context.Context, userID string, req dto.SubmitArenaRequest) (*dto.SubmitArenaResponse, error)
}
