package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/shared"
)

type ArenaHandler struct {
	arenaSvc ArenaServiceInterface
}

func NewArenaHandler(arenaSvc ArenaServiceInterface) *ArenaHandler {
	return &ArenaHandler{
		arenaSvc: arenaSvc,
	}
}

// @Summary Get onboarding
// @Description Placement questionnaire with the answers given so far
// @Tags onboarding
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.OnboardingStateResponse}
// @Router /api/v1/onboarding [get]
func (h *ArenaHandler) GetOnboarding(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	state, err := h.arenaSvc.GetOnboarding(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Answer onboarding question
// @Description Record one answer; the last answer runs placement
// @Tags onboarding
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param answerRequest body dto.AnswerOnboardingRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.AnswerOnboardingResponse}
// @Failure 409 {object} shared.Response
// @Router /api/v1/onboarding/answer [post]
func (h *ArenaHandler) AnswerOnboarding(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.AnswerOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.arenaSvc.AnswerOnboarding(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Start arena
// @Description Spend one energy unit and receive a scenario
// @Tags arena
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.StartArenaResponse}
// @Router /api/v1/arena/start [post]
func (h *ArenaHandler) StartArena(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.arenaSvc.StartArena(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Submit arena response
// @Description Grade a response to a started scenario
// @Tags arena
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param submitRequest body dto.SubmitArenaRequest true "Response"
// @Success 200 {object} shared.Response{data=dto.SubmitArenaResponse}
// @Failure 404 {object} shared.Response
// @Failure 409 {object} shared.Response
// @Router /api/v1/arena/submit [post]
func (h *ArenaHandler) SubmitArena(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SubmitArenaRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return err
	}

	resp, err := h.arenaSvc.SubmitArena(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
