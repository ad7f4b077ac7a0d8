package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

type jobRecorder struct {
	mu   sync.Mutex
	jobs []uuid.UUID
}

func (r *jobRecorder) EvaluateBundle(_ context.Context, ref BundleRef) models.EvaluationRecord {
	return models.NewFailureRecord(ref.ProducerID, ref.Location, "test", fixedTime, nil)
}

func (r *jobRecorder) EvaluateJob(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, id)
	return nil
}

func (r *jobRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func TestWorkerProcessesEnqueuedJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	recorder := &jobRecorder{}
	w := NewWorker(newFakeEvalRepo(), recorder, 2, 10, time.Hour, zap.NewNop())
	w.Start(context.Background())

	for i := 0; i < 5; i++ {
		w.EnqueueJob(uuid.New())
	}

	assert.Eventually(t, func() bool { return recorder.count() == 5 }, 2*time.Second, 10*time.Millisecond)
	w.Stop()
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(newFakeEvalRepo(), &jobRecorder{}, 3, 0, 0, zap.NewNop())
	w.Start(ctx)
	cancel()

	// Stop waits for every goroutine and is safe to call twice.
	w.Stop()
	w.Stop()
}

func TestWorkerRunsEvaluationEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newFakeEvalRepo()
	loader := &fakeLoader{bundles: map[string]*models.ArtifactBundle{"/b/1": completeBundle()}}
	id := uuid.New()
	_ = repo.Create(&models.Evaluation{ID: id, Location: "/b/1", ProducerID: "w", Status: models.StatusQueued})

	w := NewWorker(repo, newTestEvaluator(repo, loader), 1, 1, time.Hour, zap.NewNop())
	w.Start(context.Background())
	w.EnqueueJob(id)

	assert.Eventually(t, func() bool { return repo.get(id).Status == models.StatusCompleted }, 2*time.Second, 10*time.Millisecond)
	w.Stop()

	assert.Equal(t, models.GradeComplete, repo.get(id).Record.Grade)
}
