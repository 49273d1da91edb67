package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/shared"
)

type LeaderboardHandler struct {
	pointsSvc PointsServiceInterface
}

func NewLeaderboardHandler(pointsSvc PointsServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		pointsSvc: pointsSvc,
	}
}

// @Summary Get Leaderboard
// @Description Get the top users by points plus the caller's own rank
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Number of top users (default 10, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Security BearerAuth
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	resp, err := h.pointsSvc.GetLeaderboard(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
