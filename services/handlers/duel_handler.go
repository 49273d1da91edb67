package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

type DuelHandler struct {
	duelSvc DuelServiceInterface
}

func NewDuelHandler(duelSvc DuelServiceInterface) *DuelHandler {
	return &DuelHandler{
		duelSvc: duelSvc,
	}
}

// @Summary Start Duel
// @Description Start a quiz duel against the AI at a chosen difficulty
// @Tags duel
// @Accept json
// @Produce json
// @Param startDuelRequest body dto.StartDuelRequest true "Duel settings"
// @Success 201 {object} shared.Response{data=dto.DuelResponse}
// @Security BearerAuth
// @Router /api/v1/duels [post]
func (h *DuelHandler) StartDuel(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartDuelRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.duelSvc.StartDuel(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Duel started", resp)
}

// @Summary Complete Duel
// @Description Submit duel scores; the first completion is terminal
// @Tags duel
// @Accept json
// @Produce json
// @Param duelId path string true "Duel ID"
// @Param completeDuelRequest body dto.CompleteDuelRequest true "Duel result"
// @Success 200 {object} shared.Response{data=dto.CompleteDuelResponse}
// @Security BearerAuth
// @Router /api/v1/duels/{duelId}/complete [post]
func (h *DuelHandler) CompleteDuel(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	duelID := c.Params("duelId")

	var req dto.CompleteDuelRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.duelSvc.CompleteDuel(duelID, userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Duel completed", resp)
}

// @Summary Duel History
// @Description List the caller's duels, newest first
// @Tags duel
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.DuelResponse}
// @Security BearerAuth
// @Router /api/v1/duels [get]
func (h *DuelHandler) GetDuelHistory(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.duelSvc.GetDuelHistory(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
