package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/bundle-evaluator/internal/services"
)

type StatisticsHandler struct {
	stats    services.StatisticsService
	exporter *services.EvaluationExporter
}

func NewStatisticsHandler(stats services.StatisticsService, exporter *services.EvaluationExporter) *StatisticsHandler {
	return &StatisticsHandler{
		stats:    stats,
		exporter: exporter,
	}
}

// HandleGetStatistics handles GET /statistics
func (h *StatisticsHandler) HandleGetStatistics(c *fiber.Ctx) error {
	stats, err := h.stats.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// HandleExport handles GET /export?format=json|jsonl&details=true&producer_id=
func (h *StatisticsHandler) HandleExport(c *fiber.Ctx) error {
	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	records, err := h.stats.Records(c.UserContext(), c.Query("producer_id"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	opts := services.ExportOptions{Format: format, IncludeDetails: c.QueryBool("details", false)}
	if err := h.exporter.Export(&buf, records, opts); err != nil {
		return err
	}

	if format == services.FormatJSONL {
		c.Set(fiber.HeaderContentType, "application/x-ndjson")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return c.Send(buf.Bytes())
}
