package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/shared"
)

type DailyHandler struct {
	dailySvc  DailyContentServiceInterface
	ledgerSvc LedgerServiceInterface
}

func NewDailyHandler(dailySvc DailyContentServiceInterface, ledgerSvc LedgerServiceInterface) *DailyHandler {
	return &DailyHandler{
		dailySvc:  dailySvc,
		ledgerSvc: ledgerSvc,
	}
}

// @Summary Get Daily Content
// @Description Get the word of the day and quiz for a department; viewing marks the word learned
// @Tags daily
// @Accept json
// @Produce json
// @Param department path string true "Department"
// @Success 200 {object} shared.Response{data=dto.DailyContentResponse}
// @Security BearerAuth
// @Router /api/v1/daily/{department} [get]
func (h *DailyHandler) GetDailyContent(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	department := c.Params("department")

	resp, err := h.dailySvc.GetOrCreate(c.UserContext(), userID, department)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Mark Term Learned
// @Description Record a term as learned; repeat calls are no-ops
// @Tags daily
// @Accept json
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} shared.Response{data=dto.MarkLearnedResponse}
// @Security BearerAuth
// @Router /api/v1/terms/{termId}/learned [post]
func (h *DailyHandler) MarkLearned(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	termID := c.Params("termId")

	resp, err := h.ledgerSvc.MarkLearned(userID, termID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary List Learned Terms
// @Description List every term the caller has learned
// @Tags daily
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LearnedTermCollectionResponse}
// @Security BearerAuth
// @Router /api/v1/terms/learned [get]
func (h *DailyHandler) GetLearnedTerms(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.ledgerSvc.GetLearnedTerms(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
