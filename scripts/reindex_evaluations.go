package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/config"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

// Backfills the similar-evaluation index from stored records.
func main() {
	cfg := config.Load()

	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.InsightsEnabled() {
		log.Fatal("GEMINI_API_KEY and QDRANT_URL must be set to reindex")
	}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	evalRepo := repositories.NewEvaluationRepository(db)

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
		MaxRetries: cfg.Worker.RetryMaxAttempts,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize Gemini", zap.Error(err))
	}
	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize collection", zap.Error(err))
	}

	insights := services.NewInsightService(evalRepo, geminiService, qdrantService, log)

	ids, err := evalRepo.FindEvaluatedIDs(0)
	if err != nil {
		log.Fatal("failed to list evaluations", zap.Error(err))
	}
	log.Info("reindexing evaluations", zap.Int("count", len(ids)))

	successCount := 0
	failCount := 0

	for _, id := range ids {
		if err := insights.Index(ctx, id); err != nil {
			log.Warn("failed to index evaluation", zap.Stringer("evaluation_id", id), zap.Error(err))
			failCount++
			continue
		}
		successCount++

		// Rate limiting
		time.Sleep(500 * time.Millisecond)
	}

	log.Info("reindex complete",
		zap.Int("success", successCount),
		zap.Int("failed", failCount),
	)
}
