package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

type BattleHandler struct {
	battleSvc BattleServiceInterface
}

func NewBattleHandler(battleSvc BattleServiceInterface) *BattleHandler {
	return &BattleHandler{
		battleSvc: battleSvc,
	}
}

// @Summary Create Battle
// @Description Open an async battle other users in the department can join
// @Tags battle
// @Accept json
// @Produce json
// @Success 201 {object} shared.Response{data=dto.BattleResponse}
// @Security BearerAuth
// @Router /api/v1/battles [post]
func (h *BattleHandler) CreateBattle(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.battleSvc.CreateBattle(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Battle created", resp)
}

// @Summary Join Battle
// @Description Claim the opponent seat in a pending battle
// @Tags battle
// @Accept json
// @Produce json
// @Param battleId path string true "Battle ID"
// @Success 200 {object} shared.Response{data=dto.BattleResponse}
// @Security BearerAuth
// @Router /api/v1/battles/{battleId}/join [post]
func (h *BattleHandler) JoinBattle(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	battleID := c.Params("battleId")

	resp, err := h.battleSvc.JoinBattle(battleID, userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Battle joined", resp)
}

// @Summary Submit Battle Answers
// @Description Submit a score; the second submission completes the battle
// @Tags battle
// @Accept json
// @Produce json
// @Param battleId path string true "Battle ID"
// @Param submitBattleRequest body dto.SubmitBattleRequest true "Score and answers"
// @Success 200 {object} shared.Response{data=dto.BattleResponse}
// @Security BearerAuth
// @Router /api/v1/battles/{battleId}/submit [post]
func (h *BattleHandler) SubmitAnswers(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	battleID := c.Params("battleId")

	var req dto.SubmitBattleRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.battleSvc.SubmitAnswers(battleID, userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Score submitted", resp)
}

// @Summary Get Battle
// @Description Get one battle; questions are only visible to participants
// @Tags battle
// @Accept json
// @Produce json
// @Param battleId path string true "Battle ID"
// @Success 200 {object} shared.Response{data=dto.BattleResponse}
// @Security BearerAuth
// @Router /api/v1/battles/{battleId} [get]
func (h *BattleHandler) GetBattle(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	battleID := c.Params("battleId")

	resp, err := h.battleSvc.GetBattle(battleID, userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary My Battles
// @Description List battles the caller is part of
// @Tags battle
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.BattleCollectionResponse}
// @Security BearerAuth
// @Router /api/v1/battles [get]
func (h *BattleHandler) ListBattles(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.battleSvc.ListBattlesForUser(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Open Battles
// @Description List joinable battles in the caller's department
// @Tags battle
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.BattleCollectionResponse}
// @Security BearerAuth
// @Router /api/v1/battles/open [get]
func (h *BattleHandler) GetOpenBattles(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.battleSvc.GetOpenBattles(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
