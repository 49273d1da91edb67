package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

type ProgressHandler struct {
	pointsSvc       PointsServiceInterface
	streakSvc       StreakServiceInterface
	gamificationSvc GamificationServiceInterface
}

func NewProgressHandler(pointsSvc PointsServiceInterface, streakSvc StreakServiceInterface, gamificationSvc GamificationServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		pointsSvc:       pointsSvc,
		streakSvc:       streakSvc,
		gamificationSvc: gamificationSvc,
	}
}

// @Summary Get Profile Snapshot
// @Description Get the caller's current points, streak and stats
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.UserSnapshot}
// @Security BearerAuth
// @Router /api/v1/me [get]
func (h *ProgressHandler) GetMe(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	snapshot, err := h.gamificationSvc.BuildUserSnapshot(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", snapshot)
}

// @Summary Add Points
// @Description Credit points to the caller; crossing a threshold awards its badge
// @Tags progress
// @Accept json
// @Produce json
// @Param addPointsRequest body dto.AddPointsRequest true "Points to add"
// @Success 200 {object} shared.Response{data=dto.UserSnapshot}
// @Security BearerAuth
// @Router /api/v1/points [post]
func (h *ProgressHandler) AddPoints(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.AddPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	_, newBadges, err := h.pointsSvc.AddPoints(userID, req.Amount, req.Reason)
	if err != nil {
		return err
	}

	snapshot, err := h.gamificationSvc.BuildUserSnapshot(userID)
	if err != nil {
		return err
	}
	snapshot.NewBadges = newBadges

	return shared.ResponseJSON(c, fiber.StatusOK, "Points added", snapshot)
}

// @Summary Complete Quiz
// @Description Finalize a quiz run: credit XP, mark the streak and update stats
// @Tags progress
// @Accept json
// @Produce json
// @Param completeQuizRequest body dto.CompleteQuizRequest true "Quiz result"
// @Success 200 {object} shared.Response{data=dto.CompletionResponse}
// @Security BearerAuth
// @Router /api/v1/quiz/complete [post]
func (h *ProgressHandler) CompleteQuiz(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CompleteQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.gamificationSvc.CompleteQuiz(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Quiz completed", resp)
}

// @Summary Complete Daily Mix
// @Description Finalize the daily mixed session
// @Tags progress
// @Accept json
// @Produce json
// @Param completeQuizRequest body dto.CompleteQuizRequest true "Session result"
// @Success 200 {object} shared.Response{data=dto.CompletionResponse}
// @Security BearerAuth
// @Router /api/v1/daily-mix/complete [post]
func (h *ProgressHandler) CompleteDailyMix(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CompleteQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.gamificationSvc.CompleteDailyMix(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Daily mix completed", resp)
}

// @Summary Complete Streak Day
// @Description Mark today complete without a scored activity attached
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.CompletionResponse}
// @Security BearerAuth
// @Router /api/v1/streak/complete [post]
func (h *ProgressHandler) CompleteStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.gamificationSvc.CompleteStreak(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Streak updated", resp)
}

// @Summary Get Streak
// @Description Get the caller's streak status
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.StreakStatusResponse}
// @Security BearerAuth
// @Router /api/v1/streak [get]
func (h *ProgressHandler) GetStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.streakSvc.GetStreak(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Save Streak
// @Description Spend points to restore a streak that missed a day
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.StreakStatusResponse}
// @Security BearerAuth
// @Router /api/v1/streak/save [post]
func (h *ProgressHandler) SaveStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.streakSvc.SaveStreak(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Streak saved", resp)
}

// @Summary Get My Badges
// @Description List badges the caller has earned
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Security BearerAuth
// @Router /api/v1/badges/me [get]
func (h *ProgressHandler) GetMyBadges(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	badges, err := h.pointsSvc.GetUserBadges(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", badges)
}

// @Summary Get Badge Catalog
// @Description List every badge that can be earned
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Security BearerAuth
// @Router /api/v1/badges [get]
func (h *ProgressHandler) GetBadgeCatalog(c *fiber.Ctx) error {
	badges, err := h.pointsSvc.GetBadgeCatalog()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", badges)
}
