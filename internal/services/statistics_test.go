package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

func TestAggregateEmpty(t *testing.T) {
	got := NewStatisticsAggregator().Aggregate(nil)

	assert.False(t, got.HasData)
	assert.Equal(t, noDataMessage, got.Message)
	assert.NotNil(t, got.Producers)
	assert.Empty(t, got.Producers)
	assert.Zero(t, got.Summary.TotalEvaluations)
	assert.Len(t, got.Summary.GradeDistribution, 4)
}

func TestAggregateSuccessRateIsMeanOfProducers(t *testing.T) {
	var records []models.EvaluationRecord
	for i := 0; i < 10; i++ {
		records = append(records, recordFor("x", models.GradeGood, 0.85, fixedTime))
	}
	records = append(records,
		recordFor("y", models.GradeComplete, 0.98, fixedTime),
		recordFor("y", models.GradeComplete, 0.98, fixedTime),
	)

	got := NewStatisticsAggregator().Aggregate(records)

	require.True(t, got.HasData)
	assert.Equal(t, 12, got.Summary.TotalEvaluations)
	assert.Equal(t, 2, got.Summary.ProducerCount)
	assert.InDelta(t, 1.0, got.Summary.AverageSuccessRate, 1e-9)
	assert.Equal(t, 10, got.Summary.GradeDistribution[models.GradeGood])
	assert.Equal(t, 2, got.Summary.GradeDistribution[models.GradeComplete])
	assert.Equal(t, 0, got.Summary.GradeDistribution[models.GradeFailure])
}

func TestAggregateUnweightedAcrossProducers(t *testing.T) {
	records := []models.EvaluationRecord{
		recordFor("x", models.GradeGood, 0.8, fixedTime),
		recordFor("x", models.GradeFailure, 0.1, fixedTime),
		recordFor("x", models.GradeFailure, 0.1, fixedTime),
		recordFor("x", models.GradeInsufficient, 0.4, fixedTime),
		recordFor("y", models.GradeComplete, 1.0, fixedTime),
	}

	got := NewStatisticsAggregator().Aggregate(records)

	require.Len(t, got.Producers, 2)
	assert.Equal(t, "x", got.Producers[0].ProducerID)
	assert.InDelta(t, 0.25, got.Producers[0].SuccessRate, 1e-9)
	assert.InDelta(t, 0.35, got.Producers[0].AverageScores.Overall, 1e-9)
	assert.Equal(t, "y", got.Producers[1].ProducerID)
	assert.InDelta(t, 1.0, got.Producers[1].SuccessRate, 1e-9)
	assert.InDelta(t, 0.625, got.Summary.AverageSuccessRate, 1e-9)
}

func TestAggregateDefaultsProducerAndTracksActivity(t *testing.T) {
	later := fixedTime.Add(time.Hour)
	blank := recordFor("", models.GradeGood, 0.8, fixedTime)
	blank.ProducerID = ""
	records := []models.EvaluationRecord{
		blank,
		recordFor(models.DefaultProducerID, models.GradeComplete, 1.0, later),
	}

	got := NewStatisticsAggregator().Aggregate(records)

	require.Len(t, got.Producers, 1)
	p := got.Producers[0]
	assert.Equal(t, models.DefaultProducerID, p.ProducerID)
	assert.Equal(t, 2, p.TotalEvaluations)
	assert.Equal(t, later, p.LastActivity)
}

func TestAggregateCountsFailureRecords(t *testing.T) {
	failed := models.NewFailureRecord("z", "/missing", "test", fixedTime, errors.New("boom"))

	got := NewStatisticsAggregator().Aggregate([]models.EvaluationRecord{failed})

	require.Len(t, got.Producers, 1)
	assert.Equal(t, 1, got.Producers[0].GradeDistribution[models.GradeFailure])
	assert.Zero(t, got.Producers[0].SuccessRate)
	assert.Zero(t, got.Summary.AverageSuccessRate)
}
