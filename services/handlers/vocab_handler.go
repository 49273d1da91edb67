package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

type VocabHandler struct {
	vocabSvc VocabServiceInterface
}

func NewVocabHandler(vocabSvc VocabServiceInterface) *VocabHandler {
	return &VocabHandler{
		vocabSvc: vocabSvc,
	}
}

// @Summary Create Term
// @Description Add a vocabulary term to a department's catalog (admin only)
// @Tags vocab
// @Accept json
// @Produce json
// @Param createTermRequest body dto.CreateTermRequest true "Term details"
// @Success 201 {object} shared.Response{data=dto.TermResponse}
// @Security BearerAuth
// @Router /api/v1/terms [post]
func (h *VocabHandler) CreateTerm(c *fiber.Ctx) error {
	var req dto.CreateTermRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.vocabSvc.CreateTerm(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Term created", resp)
}

// @Summary Get Term
// @Description Get a single vocabulary term
// @Tags vocab
// @Accept json
// @Produce json
// @Param termId path string true "Term ID"
// @Success 200 {object} shared.Response{data=dto.TermResponse}
// @Security BearerAuth
// @Router /api/v1/terms/{termId} [get]
func (h *VocabHandler) GetTerm(c *fiber.Ctx) error {
	termID := c.Params("termId")

	resp, err := h.vocabSvc.GetTerm(termID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary List Terms
// @Description List the vocabulary catalog for a department
// @Tags vocab
// @Accept json
// @Produce json
// @Param department path string true "Department"
// @Success 200 {object} shared.Response{data=dto.TermCollectionResponse}
// @Security BearerAuth
// @Router /api/v1/terms/department/{department} [get]
func (h *VocabHandler) GetTermsByDepartment(c *fiber.Ctx) error {
	department := c.Params("department")

	resp, err := h.vocabSvc.GetTermsByDepartment(department)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary List Unlearned Terms
// @Description List department terms the caller has not learned yet
// @Tags vocab
// @Accept json
// @Produce json
// @Param department path string true "Department"
// @Success 200 {object} shared.Response{data=dto.TermCollectionResponse}
// @Security BearerAuth
// @Router /api/v1/terms/department/{department}/unlearned [get]
func (h *VocabHandler) GetUnlearnedTerms(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	department := c.Params("department")

	resp, err := h.vocabSvc.GetUnlearnedTerms(userID, department)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary List Departments
// @Description List every department with at least one catalogued term
// @Tags vocab
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]string}
// @Security BearerAuth
// @Router /api/v1/departments [get]
func (h *VocabHandler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.vocabSvc.GetDepartments()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", departments)
}
