package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary Get leaderboard
// @Description Top users by xp. With a valid token the caller's own rank is included.
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	var page dto.Pagination
	if err := c.QueryParser(&page); err != nil {
		return shared.NewBadRequestError(err, "Invalid query")
	}
	if err := dto.Validate(&page); err != nil {
		return err
	}

	userID, _ := c.Locals(shared.UserID).(string)

	leaderboard, err := h.leaderboardSvc.GetLeaderboard(c.UserContext(), userID, page.Limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
