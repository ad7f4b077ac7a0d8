package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
)

// BundleRef identifies a bundle to evaluate.
type BundleRef struct {
	Location   string
	ProducerID string
}

type EvaluatorService interface {
	// EvaluateBundle never fails: load and evaluation faults become a
	// synthetic failure record.
	EvaluateBundle(ctx context.Context, ref BundleRef) models.EvaluationRecord
	// EvaluateJob runs a queued evaluation and stores its record.
	EvaluateJob(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo repositories.EvaluationRepository
	loader   BundleLoader
	engine   *Engine
	log      *zap.Logger
	now      func() time.Time
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	loader BundleLoader,
	engine *Engine,
	log *zap.Logger,
) EvaluatorService {
	return &evaluatorService{
		evalRepo: evalRepo,
		loader:   loader,
		engine:   engine,
		log:      log,
		now:      time.Now,
	}
}

func (e *evaluatorService) EvaluateBundle(ctx context.Context, ref BundleRef) (record models.EvaluationRecord) {
	producer := ref.ProducerID
	if producer == "" {
		producer = models.DefaultProducerID
	}
	log := e.log.With(zap.String("location", ref.Location), zap.String("producer_id", producer))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrInternalEvaluation, r)
			log.Error("evaluation panicked", zap.Error(err))
			record = models.NewFailureRecord(producer, ref.Location, e.engine.CriteriaVersion(), e.now(), err)
		}
	}()

	// A bundle that has started is evaluated to the end; cancellation only
	// stops bundles that have not started yet.
	bundle, err := e.loader.Load(context.WithoutCancel(ctx), ref.Location)
	if err != nil {
		if !errors.Is(err, ErrBundleUnavailable) {
			err = fmt.Errorf("%w: %v", ErrInternalEvaluation, err)
		}
		log.Warn("bundle could not be loaded", zap.Error(err))
		return models.NewFailureRecord(producer, ref.Location, e.engine.CriteriaVersion(), e.now(), err)
	}
	if bundle == nil {
		err := fmt.Errorf("%w: loader returned no bundle", ErrInternalEvaluation)
		return models.NewFailureRecord(producer, ref.Location, e.engine.CriteriaVersion(), e.now(), err)
	}
	bundle.ProducerID = producer

	record = e.engine.Evaluate(bundle)
	log.Info("bundle evaluated",
		zap.String("grade", record.Grade.String()),
		zap.Float64("overall_score", record.OverallScore),
		zap.Float64("confidence", record.Confidence),
		zap.Strings("tech_stack", record.TechStack),
	)
	return record
}

func (e *evaluatorService) EvaluateJob(ctx context.Context, evalID uuid.UUID) error {
	// A job picked up during shutdown stays queued for the next start.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation %s not started: %w", evalID, err)
	}

	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	e.log.Info("starting evaluation", zap.Stringer("evaluation_id", evalID))

	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		_ = e.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	record := e.EvaluateBundle(ctx, BundleRef{
		Location:   evaluation.Location,
		ProducerID: evaluation.ProducerID,
	})

	if err := e.evalRepo.SaveRecord(evalID, record); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	e.log.Info("evaluation stored",
		zap.Stringer("evaluation_id", evalID),
		zap.String("grade", record.Grade.String()),
	)
	return nil
}
