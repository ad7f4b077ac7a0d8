package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
)

// InsightService adds LLM narrative and similarity search on top of stored
// records. Nothing it produces feeds back into grading.
type InsightService interface {
	Summarize(ctx context.Context, evalID uuid.UUID) (string, error)
	Similar(ctx context.Context, evalID uuid.UUID, limit int) ([]models.SimilarEvaluation, error)
	Index(ctx context.Context, evalID uuid.UUID) error
}

type insightService struct {
	evalRepo      repositories.EvaluationRepository
	geminiService GeminiService
	qdrantService QdrantService
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewInsightService(
	evalRepo repositories.EvaluationRepository,
	geminiService GeminiService,
	qdrantService QdrantService,
	log *zap.Logger,
) InsightService {
	return &insightService{
		evalRepo:      evalRepo,
		geminiService: geminiService,
		qdrantService: qdrantService,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

// NewDisabledInsightService answers every call with ErrInsightsDisabled.
func NewDisabledInsightService() InsightService {
	return disabledInsights{}
}

type disabledInsights struct{}

func (disabledInsights) Summarize(context.Context, uuid.UUID) (string, error) {
	return "", ErrInsightsDisabled
}

func (disabledInsights) Similar(context.Context, uuid.UUID, int) ([]models.SimilarEvaluation, error) {
	return nil, ErrInsightsDisabled
}

func (disabledInsights) Index(context.Context, uuid.UUID) error {
	return ErrInsightsDisabled
}

// Summarize returns the stored summary or generates, stores and indexes one.
func (s *insightService) Summarize(ctx context.Context, evalID uuid.UUID) (string, error) {
	eval, err := s.evalRepo.FindByID(evalID)
	if err != nil {
		return "", err
	}
	if eval.AISummary != nil && *eval.AISummary != "" {
		return *eval.AISummary, nil
	}
	if eval.Record == nil {
		return "", fmt.Errorf("evaluation %s has no record yet", evalID)
	}

	summary, err := s.geminiService.Summarize(ctx, s.promptBuilder.BuildSummaryPrompt(*eval.Record))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if err := s.evalRepo.UpdateSummary(evalID, summary); err != nil {
		return "", err
	}

	if err := s.indexRecord(ctx, evalID, *eval.Record, summary); err != nil {
		s.log.Warn("failed to index evaluation", zap.Stringer("evaluation_id", evalID), zap.Error(err))
	}
	return summary, nil
}

// Similar finds past evaluations whose findings read alike.
func (s *insightService) Similar(ctx context.Context, evalID uuid.UUID, limit int) ([]models.SimilarEvaluation, error) {
	if limit <= 0 {
		limit = 5
	}
	eval, err := s.evalRepo.FindByID(evalID)
	if err != nil {
		return nil, err
	}
	if eval.Record == nil {
		return nil, fmt.Errorf("evaluation %s has no record yet", evalID)
	}
	summary := ""
	if eval.AISummary != nil {
		summary = *eval.AISummary
	}

	embedding, err := s.geminiService.Embed(ctx, s.promptBuilder.BuildIndexText(*eval.Record, summary))
	if err != nil {
		return nil, err
	}
	// One extra result, since the evaluation itself is usually the top match.
	results, err := s.qdrantService.SearchSimilar(ctx, embedding, limit+1)
	if err != nil {
		return nil, err
	}

	matches := make([]models.SimilarEvaluation, 0, limit)
	for _, r := range results {
		if r.EvaluationID == evalID.String() || len(matches) == limit {
			continue
		}
		matches = append(matches, models.SimilarEvaluation{
			ID:         r.EvaluationID,
			ProducerID: r.ProducerID,
			Grade:      r.Grade,
			Score:      r.Score,
		})
	}
	return matches, nil
}

// Index embeds a stored evaluation, with its summary if one exists.
func (s *insightService) Index(ctx context.Context, evalID uuid.UUID) error {
	eval, err := s.evalRepo.FindByID(evalID)
	if err != nil {
		return err
	}
	if eval.Record == nil {
		return fmt.Errorf("evaluation %s has no record yet", evalID)
	}
	summary := ""
	if eval.AISummary != nil {
		summary = *eval.AISummary
	}
	return s.indexRecord(ctx, evalID, *eval.Record, summary)
}

func (s *insightService) indexRecord(ctx context.Context, evalID uuid.UUID, rec models.EvaluationRecord, summary string) error {
	embedding, err := s.geminiService.Embed(ctx, s.promptBuilder.BuildIndexText(rec, summary))
	if err != nil {
		return err
	}
	return s.qdrantService.IndexEvaluation(ctx, EvaluationPoint{
		EvaluationID: evalID.String(),
		ProducerID:   rec.ProducerID,
		Grade:        rec.Grade.String(),
	}, embedding)
}
