package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/cache"
	"alfredoptarigan/bundle-evaluator/internal/models"
)

func seedRecord(t *testing.T, repo *fakeEvalRepo, rec models.EvaluationRecord) {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.Create(&models.Evaluation{ID: id, Status: models.StatusQueued}))
	require.NoError(t, repo.SaveRecord(id, rec))
}

func TestStatisticsServiceCachesUntilRecordsChange(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEvalRepo()
	store, err := cache.NewMemoryStore(8)
	require.NoError(t, err)
	svc := NewStatisticsService(repo, store, "2024.1", zap.NewNop())

	seedRecord(t, repo, recordFor("x", models.GradeGood, 0.8, fixedTime))

	first, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Summary.TotalEvaluations)

	second, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Summary.TotalEvaluations)
	assert.Equal(t, 1, repo.findRecordsN, "second call should be served from cache")

	seedRecord(t, repo, recordFor("y", models.GradeComplete, 1.0, fixedTime))

	third, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Summary.TotalEvaluations)
	assert.Equal(t, 2, repo.findRecordsN)
}

func TestStatisticsServiceWithoutStore(t *testing.T) {
	repo := newFakeEvalRepo()
	svc := NewStatisticsService(repo, nil, "2024.1", zap.NewNop())

	stats, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.False(t, stats.HasData)
	assert.Equal(t, noDataMessage, stats.Message)
}

func TestStatisticsServiceRecordsByProducer(t *testing.T) {
	repo := newFakeEvalRepo()
	seedRecord(t, repo, recordFor("x", models.GradeGood, 0.8, fixedTime))
	seedRecord(t, repo, recordFor("y", models.GradeGood, 0.8, fixedTime))
	svc := NewStatisticsService(repo, nil, "2024.1", zap.NewNop())

	records, err := svc.Records(context.Background(), "y")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "y", records[0].ProducerID)
}
