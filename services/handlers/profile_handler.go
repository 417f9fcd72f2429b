package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/shared"
)

type ProfileHandler struct {
	profileSvc ProfileServiceInterface
}

func NewProfileHandler(profileSvc ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profileSvc: profileSvc,
	}
}

// @Summary Initialize user profile
// @Description Create the caller's profile if missing and fill in identity fields
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param initializeRequest body dto.InitializeUserRequest false "Identity"
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Router /api/v1/user/initialize [post]
func (h *ProfileHandler) InitializeUser(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.InitializeUserRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request")
		}
	}

	// Claims fill whatever the body leaves out.
	if req.Email == "" {
		req.Email, _ = c.Locals(shared.Email).(string)
	}
	if req.FullName == "" {
		req.FullName, _ = c.Locals(shared.FullName).(string)
	}

	if err := req.Validate(); err != nil {
		return err
	}

	profile, err := h.profileSvc.InitializeUser(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Get user profile
// @Description Get the caller's profile with energy regenerated up to now
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Router /api/v1/user/profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	profile, err := h.profileSvc.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Update user profile
// @Description Update name, xp, stats or onboarding progress. XP may only grow.
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param updateRequest body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Router /api/v1/user/profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return err
	}

	profile, err := h.profileSvc.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}
