package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

type EvaluationHandler struct {
	evalRepo   repositories.EvaluationRepository
	bundleRepo repositories.BundleRepository
	worker     services.Worker
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	bundleRepo repositories.BundleRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo:   evalRepo,
		bundleRepo: bundleRepo,
		worker:     worker,
	}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	req.Location = strings.TrimSpace(req.Location)
	if req.BundleID == "" && req.Location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "bundle_id or location is required",
		})
	}

	evaluation := &models.Evaluation{
		ID:         uuid.New(),
		Location:   req.Location,
		ProducerID: strings.TrimSpace(req.ProducerID),
		Status:     models.StatusQueued,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if req.BundleID != "" {
		bundleID, err := uuid.Parse(req.BundleID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid bundle_id format",
			})
		}
		bundle, err := h.bundleRepo.FindByID(bundleID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bundle not found",
			})
		}
		evaluation.BundleID = &bundle.ID
		evaluation.Location = bundle.Location
		if evaluation.ProducerID == "" {
			evaluation.ProducerID = bundle.ProducerID
		}
	}
	if evaluation.ProducerID == "" {
		evaluation.ProducerID = models.DefaultProducerID
	}

	if err := h.evalRepo.Create(evaluation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.EnqueueJob(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}
