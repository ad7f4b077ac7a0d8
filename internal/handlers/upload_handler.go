package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

type UploadHandler struct {
	bundleRepo     repositories.BundleRepository
	storageService services.StorageService
	maxFileSize    int64
	log            *zap.Logger
}

func NewUploadHandler(
	bundleRepo repositories.BundleRepository,
	storageService services.StorageService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		bundleRepo:     bundleRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		log:            log,
	}
}

// HandleUpload handles POST /bundles. Files come in the "files" field; an
// optional "paths" field, in the same order, carries relative names.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no files uploaded. Send the bundle as one or more 'files' parts.",
		})
	}
	paths := form.Value["paths"]
	if len(paths) != 0 && len(paths) != len(files) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "'paths' must match 'files' one to one",
		})
	}

	producerID := c.FormValue("producer_id", models.DefaultProducerID)
	bundleID := uuid.New()

	var total int64
	for i, fh := range files {
		if fh.Size > h.maxFileSize {
			h.storageService.DeleteBundle(bundleID)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s is too large. Max size: %d bytes", fh.Filename, h.maxFileSize),
			})
		}
		name := fh.Filename
		if len(paths) > 0 {
			name = paths[i]
		}
		n, err := h.storageService.SaveBundleFile(bundleID, name, fh)
		if err != nil {
			h.storageService.DeleteBundle(bundleID)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s: %v", name, err),
			})
		}
		total += n
	}

	bundle := models.Bundle{
		ID:         bundleID,
		ProducerID: producerID,
		Location:   h.storageService.BundlePath(bundleID),
		FileCount:  len(files),
		TotalBytes: total,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := h.bundleRepo.Create(&bundle); err != nil {
		// Cleanup uploaded files if database insert fails
		h.storageService.DeleteBundle(bundleID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save bundle record",
		})
	}

	h.log.Info("bundle uploaded",
		zap.Stringer("bundle_id", bundleID),
		zap.String("producer_id", producerID),
		zap.Int("files", len(files)),
	)

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:         bundle.ID.String(),
		ProducerID: bundle.ProducerID,
		Location:   bundle.Location,
		FileCount:  bundle.FileCount,
		TotalBytes: bundle.TotalBytes,
	})
}
