package services

import (
	"sort"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

const noDataMessage = "no evaluations recorded"

// StatisticsAggregator folds evaluation records into per-producer and global statistics.
type StatisticsAggregator struct{}

func NewStatisticsAggregator() *StatisticsAggregator {
	return &StatisticsAggregator{}
}

type producerAccumulator struct {
	stats                                            models.ProducerStatistics
	overallSum, completenessSum, qualitySum, confSum float64
}

func (a *StatisticsAggregator) Aggregate(records []models.EvaluationRecord) models.Statistics {
	if len(records) == 0 {
		return models.Statistics{
			HasData:   false,
			Message:   noDataMessage,
			Producers: []models.ProducerStatistics{},
			Summary: models.StatisticsSummary{
				GradeDistribution: models.NewGradeDistribution(),
			},
		}
	}

	byProducer := map[string]*producerAccumulator{}
	global := models.NewGradeDistribution()

	for _, rec := range records {
		id := rec.ProducerID
		if id == "" {
			id = models.DefaultProducerID
		}
		acc, ok := byProducer[id]
		if !ok {
			acc = &producerAccumulator{stats: models.ProducerStatistics{
				ProducerID:        id,
				GradeDistribution: models.NewGradeDistribution(),
			}}
			byProducer[id] = acc
		}
		acc.stats.TotalEvaluations++
		acc.stats.GradeDistribution[rec.Grade]++
		global[rec.Grade]++
		acc.overallSum += rec.OverallScore
		acc.completenessSum += rec.Completeness.Score
		acc.qualitySum += rec.Quality.Score
		acc.confSum += rec.Confidence
		if rec.EvaluatedAt.After(acc.stats.LastActivity) {
			acc.stats.LastActivity = rec.EvaluatedAt
		}
	}

	ids := make([]string, 0, len(byProducer))
	for id := range byProducer {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	producers := make([]models.ProducerStatistics, 0, len(ids))
	rateSum := 0.0
	for _, id := range ids {
		acc := byProducer[id]
		n := float64(acc.stats.TotalEvaluations)
		acc.stats.AverageScores = models.AverageScores{
			Overall:      acc.overallSum / n,
			Completeness: acc.completenessSum / n,
			Quality:      acc.qualitySum / n,
			Confidence:   acc.confSum / n,
		}
		successes := 0
		for g, n := range acc.stats.GradeDistribution {
			if g.IsSuccess() {
				successes += n
			}
		}
		acc.stats.SuccessRate = float64(successes) / n
		rateSum += acc.stats.SuccessRate
		producers = append(producers, acc.stats)
	}

	return models.Statistics{
		HasData:   true,
		Producers: producers,
		Summary: models.StatisticsSummary{
			TotalEvaluations:  len(records),
			ProducerCount:     len(producers),
			GradeDistribution: global,
			// Mean of per-producer rates, not weighted by record count.
			AverageSuccessRate: rateSum / float64(len(producers)),
		},
	}
}
