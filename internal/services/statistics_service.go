package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/cache"
	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
)

type StatisticsService interface {
	Statistics(ctx context.Context) (models.Statistics, error)
	Records(ctx context.Context, producerID string) ([]models.EvaluationRecord, error)
}

type statisticsService struct {
	evalRepo        repositories.EvaluationRepository
	store           cache.Store
	aggregator      *StatisticsAggregator
	criteriaVersion string
	log             *zap.Logger
}

func NewStatisticsService(
	evalRepo repositories.EvaluationRepository,
	store cache.Store,
	criteriaVersion string,
	log *zap.Logger,
) StatisticsService {
	return &statisticsService{
		evalRepo:        evalRepo,
		store:           store,
		aggregator:      NewStatisticsAggregator(),
		criteriaVersion: criteriaVersion,
		log:             log,
	}
}

// Statistics is cached under a key derived from the stored records, so any
// new or replaced record invalidates it.
func (s *statisticsService) Statistics(ctx context.Context) (models.Statistics, error) {
	fp, err := s.evalRepo.Fingerprint()
	if err != nil {
		return models.Statistics{}, err
	}
	key := fmt.Sprintf("statistics-%s-%d-%d", s.criteriaVersion, fp.Count, fp.LastUpdated.UnixNano())

	var stats models.Statistics
	if s.store != nil {
		ok, err := cache.LoadJSON(ctx, s.store, key, &stats)
		if err != nil {
			s.log.Warn("statistics cache read failed", zap.Error(err))
		} else if ok {
			return stats, nil
		}
	}

	records, err := s.evalRepo.FindRecords("")
	if err != nil {
		return models.Statistics{}, err
	}
	stats = s.aggregator.Aggregate(records)

	if s.store != nil {
		if err := cache.SaveJSON(ctx, s.store, key, stats); err != nil {
			s.log.Warn("statistics cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *statisticsService) Records(_ context.Context, producerID string) ([]models.EvaluationRecord, error) {
	return s.evalRepo.FindRecords(producerID)
}
