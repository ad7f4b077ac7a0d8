package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
	insights services.InsightService
}

func NewResultHandler(evalRepo repositories.EvaluationRepository, insights services.InsightService) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
		insights: insights,
	}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	response := models.ResultResponse{
		ID:           evaluation.ID.String(),
		Status:       string(evaluation.Status),
		Result:       evaluation.Record,
		ErrorMessage: evaluation.ErrorMessage,
	}

	return c.JSON(response)
}

// HandleGetSummary handles GET /result/:id/summary
func (h *ResultHandler) HandleGetSummary(c *fiber.Ctx) error {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	summary, err := h.insights.Summarize(c.UserContext(), evalID)
	if err != nil {
		return insightError(c, err)
	}

	return c.JSON(models.SummaryResponse{ID: evalID.String(), Summary: summary})
}

// HandleGetSimilar handles GET /result/:id/similar
func (h *ResultHandler) HandleGetSimilar(c *fiber.Ctx) error {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	matches, err := h.insights.Similar(c.UserContext(), evalID, c.QueryInt("limit", 5))
	if err != nil {
		return insightError(c, err)
	}

	return c.JSON(models.SimilarResponse{ID: evalID.String(), Matches: matches})
}

func insightError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInsightsDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}
	return err
}
