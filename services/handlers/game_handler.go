package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/shared"
)

const defaultHistoryLimit = 50

type GameHandler struct {
	gameSvc GameServiceInterface
}

func NewGameHandler(gameSvc GameServiceInterface) *GameHandler {
	return &GameHandler{
		gameSvc: gameSvc,
	}
}

// @Summary Check daily streak
// @Description Extend, keep or restart the caller's daily streak
// @Tags game
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.StreakResponse}
// @Router /api/v1/game/streak/check [post]
func (h *GameHandler) CheckStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	streak, err := h.gameSvc.CheckDailyStreak(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", streak)
}

// @Summary Get energy status
// @Description Current energy and the time the next unit regenerates
// @Tags game
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.EnergyResponse}
// @Router /api/v1/game/energy [get]
func (h *GameHandler) GetEnergy(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	energy, err := h.gameSvc.GetEnergyStatus(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", energy)
}

// @Summary Consume energy
// @Description Spend one energy unit. An empty balance answers success=false.
// @Tags game
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.EnergyResponse}
// @Router /api/v1/game/energy/consume [post]
func (h *GameHandler) ConsumeEnergy(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	energy, err := h.gameSvc.ConsumeEnergy(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", energy)
}

// @Summary Save scenario result
// @Description Append a result and credit its xp and stat gains
// @Tags game
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param resultRequest body dto.SaveResultRequest true "Scenario result"
// @Success 201 {object} shared.Response{data=dto.SaveResultResponse}
// @Router /api/v1/game/results [post]
func (h *GameHandler) SaveResult(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SaveResultRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return err
	}

	result, err := h.gameSvc.SaveScenarioResult(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, result)
}

// @Summary Get history
// @Description Scenario results, newest first
// @Tags game
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Limit results (default 50, max 100)"
// @Success 200 {object} shared.Response{data=dto.HistoryResponse}
// @Router /api/v1/game/history [get]
func (h *GameHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var page dto.Pagination
	if err := c.QueryParser(&page); err != nil {
		return shared.NewBadRequestError(err, "Invalid query")
	}
	if err := dto.Validate(&page); err != nil {
		return err
	}
	if page.Limit == 0 {
		page.Limit = defaultHistoryLimit
	}

	history, err := h.gameSvc.GetUserHistory(c.UserContext(), userID, page.Limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", history)
}

// @Summary Export history
// @Description Archive the full history to object storage and return a signed download link
// @Tags game
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ExportResponse}
// @Failure 503 {object} shared.Response
// @Router /api/v1/game/history/export [post]
func (h *GameHandler) ExportHistory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	export, err := h.gameSvc.ExportHistory(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", export)
}

// @Summary Get weekly activity
// @Description Result counts for each day of the current week, Sunday first
// @Tags game
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.WeeklyActivityResponse}
// @Router /api/v1/game/activity/weekly [get]
func (h *GameHandler) GetWeeklyActivity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	activity, err := h.gameSvc.GetWeeklyActivity(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", activity)
}
